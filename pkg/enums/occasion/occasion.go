package occasion

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
	Birthday Value
	Business Value
	Date     Value
	Family   Value
	Other    Value
}

var Occasions = Enum{
	Birthday: Value{Name: "anniversaire", Title: "Birthday"},
	Business: Value{Name: "business", Title: "Business"},
	Date:     Value{Name: "rendez-vous", Title: "Date"},
	Family:   Value{Name: "famille", Title: "Family"},
	Other:    Value{Name: "autre", Title: "Other"},
}

var All = []Value{
	Occasions.Birthday,
	Occasions.Business,
	Occasions.Date,
	Occasions.Family,
	Occasions.Other,
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
