package menucategory

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
	Starter  Value
	Main     Value
	Dessert  Value
	Drink    Value
	Wine     Value
	Cocktail Value
	Coffee   Value
}

var Categories = Enum{
	Starter:  Value{Name: "entrée", Title: "Starter"},
	Main:     Value{Name: "plat principal", Title: "Main course"},
	Dessert:  Value{Name: "dessert", Title: "Dessert"},
	Drink:    Value{Name: "boisson", Title: "Drink"},
	Wine:     Value{Name: "vin", Title: "Wine"},
	Cocktail: Value{Name: "cocktail", Title: "Cocktail"},
	Coffee:   Value{Name: "café", Title: "Coffee"},
}

var All = []Value{
	Categories.Starter,
	Categories.Main,
	Categories.Dessert,
	Categories.Drink,
	Categories.Wine,
	Categories.Cocktail,
	Categories.Coffee,
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
