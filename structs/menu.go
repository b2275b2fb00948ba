package structs

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuPizza struct {
	Id          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Vegetarian  bool            `json:"vegetarian"`
	Vegan       bool            `json:"vegan"`
	Ingredients []string        `json:"ingredients"`
}

type MenuProduct struct {
	Id       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

type Menu struct {
	Pizzas   []MenuPizza   `json:"pizzas"`
	Products []MenuProduct `json:"products"`
}

// MenuOptions filters the menu.
type MenuOptions struct {
	VegetarianOnly bool
	VeganOnly      bool
	Category       string
	Search         string
}
