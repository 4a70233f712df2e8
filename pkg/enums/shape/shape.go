package shape

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
	Rectangular Value
	Square      Value
	Round       Value
}

var Shapes = Enum{
	Rectangular: Value{Name: "rectangulaire", Title: "Rectangular"},
	Square:      Value{Name: "carrée", Title: "Square"},
	Round:       Value{Name: "ronde", Title: "Round"},
}

var All = []Value{
	Shapes.Rectangular,
	Shapes.Square,
	Shapes.Round,
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
