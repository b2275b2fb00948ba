package services

import (
	"pizzeria_server/structs/tables"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPizzaPrice(t *testing.T) {
	tests := []struct {
		name     string
		recipe   []*tables.PizzaIngredient
		expected string
	}{
		{name: "base_only", recipe: nil, expected: "5.00"},
		{name: "rounds_half_up", recipe: recipe(tomato, 100, mozzarella, 150), expected: "8.99"},
		{name: "three_ingredients", recipe: recipe(tomato, 100, mozzarella, 150, pepperoni, 50), expected: "10.49"},
		{name: "fractional_grams", recipe: recipe(tomato, 33), expected: "5.33"},
		{name: "skips_unloaded_ingredient", recipe: []*tables.PizzaIngredient{{Grams: 100}, nil}, expected: "5.00"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			price := PizzaPrice(dec("5.00"), testCase.recipe)
			assert.Equal(t, testCase.expected, price.StringFixed(2))
		})
	}
}

func TestPizzaPrice_IsDeterministic(t *testing.T) {
	r := recipe(tomato, 120, mozzarella, 175, pepperoni, 60)
	first := PizzaPrice(dec("5.00"), r)
	for range 50 {
		assert.True(t, first.Equal(PizzaPrice(dec("5.00"), r)))
	}
}

func TestDietaryFlags(t *testing.T) {
	margherita := recipe(tomato, 100, mozzarella, 150)
	assert.True(t, IsVegetarian(margherita))
	assert.False(t, IsVegan(margherita))

	meaty := recipe(tomato, 100, pepperoni, 50)
	assert.False(t, IsVegetarian(meaty))
	assert.False(t, IsVegan(meaty))

	marinara := recipe(tomato, 100)
	assert.True(t, IsVegetarian(marinara))
	assert.True(t, IsVegan(marinara))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "3.00", lineTotal(dec("1.50"), 2).StringFixed(2))
	assert.Equal(t, "26.97", lineTotal(dec("8.99"), 3).StringFixed(2))
}
