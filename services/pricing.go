package services

import (
	"pizzeria_server/structs/tables"

	"github.com/shopspring/decimal"
)

var hundredGrams = decimal.NewFromInt(100)

// PizzaPrice is base + Σ grams/100 × cost per 100 g, rounded half-up to cents.
func PizzaPrice(base decimal.Decimal, recipe []*tables.PizzaIngredient) decimal.Decimal {
	price := base
	for _, item := range recipe {
		if item == nil || item.Ingredient == nil {
			continue
		}
		grams := decimal.NewFromInt(int64(item.Grams))
		price = price.Add(grams.Div(hundredGrams).Mul(item.Ingredient.Cost))
	}
	return price.Round(2)
}

func ProductPrice(product *tables.Product) decimal.Decimal {
	return product.Cost.Round(2)
}

// IsVegetarian reports whether no ingredient is meat.
func IsVegetarian(recipe []*tables.PizzaIngredient) bool {
	for _, item := range recipe {
		if item != nil && item.Ingredient != nil && item.Ingredient.IsMeat {
			return false
		}
	}
	return true
}

// IsVegan reports whether no ingredient is an animal product.
func IsVegan(recipe []*tables.PizzaIngredient) bool {
	for _, item := range recipe {
		if item != nil && item.Ingredient != nil && (item.Ingredient.IsMeat || item.Ingredient.IsAnimalProduct) {
			return false
		}
	}
	return true
}

func lineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
