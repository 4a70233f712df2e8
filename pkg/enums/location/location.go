package location

import "github.com/appetiteclub/frontdesk/pkg/enums"

type Value struct {
	Name  string
	Title string
}

func (v Value) Code() string {
	return v.Name
}

func (v Value) Label() string {
	return v.Title
}

type Enum struct {
	Interior Value
	Terrace  Value
	VIP      Value
	Bar      Value
}

var Locations = Enum{
	Interior: Value{Name: "intérieur", Title: "Interior"},
	Terrace:  Value{Name: "terrasse", Title: "Terrace"},
	VIP:      Value{Name: "VIP", Title: "VIP"},
	Bar:      Value{Name: "bar", Title: "Bar"},
}

var All = []Value{
	Locations.Interior,
	Locations.Terrace,
	Locations.VIP,
	Locations.Bar,
}

// ByName returns the value for a given wire code, or nil if not found.
func ByName(name string) *Value {
	key := enums.Fold(name)
	for _, v := range All {
		if enums.Fold(v.Name) == key {
			return &v
		}
	}
	return nil
}
