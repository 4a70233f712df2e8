// Package seeding holds the demo floor and menu used by seed-demo.
package seeding

import (
	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/enums/location"
	"github.com/appetiteclub/frontdesk/pkg/enums/menucategory"
	"github.com/appetiteclub/frontdesk/pkg/enums/shape"
)

// Tables returns the demo floor plan: interior, terrace, bar and a VIP room.
func Tables() []api.TableInput {
	interior := location.Locations.Interior.Code()
	terrace := location.Locations.Terrace.Code()
	bar := location.Locations.Bar.Code()
	vip := location.Locations.VIP.Code()

	square := shape.Shapes.Square.Code()
	round := shape.Shapes.Round.Code()
	rect := shape.Shapes.Rectangular.Code()

	return []api.TableInput{
		{Number: 1, Capacity: 2, Location: interior, Shape: square},
		{Number: 2, Capacity: 2, Location: interior, Shape: square},
		{Number: 3, Capacity: 4, Location: interior, Shape: rect},
		{Number: 4, Capacity: 4, Location: interior, Shape: rect},
		{Number: 5, Capacity: 6, Location: interior, Shape: round},
		{Number: 6, Capacity: 2, Location: terrace, Shape: round},
		{Number: 7, Capacity: 4, Location: terrace, Shape: square},
		{Number: 8, Capacity: 8, Location: terrace, Shape: rect},
		{Number: 9, Capacity: 2, Location: bar, Shape: round},
		{Number: 10, Capacity: 10, Location: vip, Shape: rect},
	}
}

// MenuItems returns the demo carte, a few dishes per category.
func MenuItems() []api.MenuItemInput {
	starter := menucategory.Categories.Starter.Code()
	mainCourse := menucategory.Categories.Main.Code()
	dessert := menucategory.Categories.Dessert.Code()
	drink := menucategory.Categories.Drink.Code()
	wine := menucategory.Categories.Wine.Code()
	cocktail := menucategory.Categories.Cocktail.Code()
	coffee := menucategory.Categories.Coffee.Code()

	return []api.MenuItemInput{
		{Name: "Soupe à l'oignon", Description: "Gratinée au comté", Price: 9.5, Category: starter, PreparationTime: 10, Ingredients: []string{"oignon", "comté", "pain"}, Allergens: []string{"gluten", "lait"}},
		{Name: "Œuf parfait", Description: "Crème de champignons", Price: 11, Category: starter, PreparationTime: 12, Allergens: []string{"œuf", "lait"}},
		{Name: "Tartare de saumon", Description: "Avocat et citron vert", Price: 13.5, Category: starter, PreparationTime: 8, Allergens: []string{"poisson"}},
		{Name: "Magret de canard", Description: "Sauce aux cerises, gratin dauphinois", Price: 26, Category: mainCourse, PreparationTime: 25, Allergens: []string{"lait"}, IsSpecial: true},
		{Name: "Bœuf bourguignon", Description: "Mijoté six heures", Price: 24, Category: mainCourse, PreparationTime: 15},
		{Name: "Risotto aux cèpes", Description: "Parmesan affiné", Price: 21, Category: mainCourse, PreparationTime: 20, Allergens: []string{"lait"}},
		{Name: "Curry de légumes", Description: "Lait de coco, piment d'Espelette", Price: 19, Category: mainCourse, PreparationTime: 18, SpicyLevel: 2},
		{Name: "Crème brûlée", Description: "Vanille de Madagascar", Price: 8.5, Category: dessert, PreparationTime: 5, Allergens: []string{"œuf", "lait"}},
		{Name: "Tarte Tatin", Description: "Crème crue", Price: 9, Category: dessert, PreparationTime: 5, Allergens: []string{"gluten", "lait"}},
		{Name: "Eau pétillante", Price: 4.5, Category: drink},
		{Name: "Citronnade maison", Price: 5, Category: drink},
		{Name: "Bordeaux rouge (verre)", Price: 7, Category: wine},
		{Name: "Chablis (verre)", Price: 8, Category: wine},
		{Name: "Kir royal", Price: 10, Category: cocktail},
		{Name: "Espresso", Price: 2.5, Category: coffee},
	}
}
