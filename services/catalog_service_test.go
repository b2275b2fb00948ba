package services

import (
	"context"
	"errors"
	"pizzeria_server/structs"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_GetMenu(t *testing.T) {
	cache, _ := newTestCache(t)
	store := newMemoryStore()
	seedCatalog(store)
	catalog := NewCatalogService(gecho.NewDefaultLogger(), testConfig(), store, cache)
	ctx := context.Background()

	menu, err := catalog.GetMenu(ctx, structs.MenuOptions{})
	require.NoError(t, err)
	require.Len(t, menu.Pizzas, 2)
	assert.Len(t, menu.Products, 3)

	margherita := menu.Pizzas[0]
	assert.Equal(t, "Margherita", margherita.Name)
	assert.Equal(t, "8.99", margherita.Price.StringFixed(2))
	assert.True(t, margherita.Vegetarian)
	assert.False(t, margherita.Vegan)
	assert.Equal(t, []string{"Mozzarella", "Tomato sauce"}, margherita.Ingredients)

	pepperoni := menu.Pizzas[1]
	assert.Equal(t, "10.49", pepperoni.Price.StringFixed(2))
	assert.False(t, pepperoni.Vegetarian)

	// Served from cache once built.
	store.failOn["ListActivePizzas"] = errors.New("database down")
	cached, err := catalog.GetMenu(ctx, structs.MenuOptions{})
	require.NoError(t, err)
	assert.Len(t, cached.Pizzas, 2)

	require.NoError(t, catalog.InvalidateMenu(ctx))
	_, err = catalog.GetMenu(ctx, structs.MenuOptions{})
	assert.Error(t, err)
}

func TestFilterMenu(t *testing.T) {
	store := newMemoryStore()
	seedCatalog(store)
	pizzas, _ := store.ListActivePizzas(context.Background())
	products, _ := store.ListActiveProducts(context.Background())
	menu := BuildMenu(dec("5.00"), pizzas, products)

	vegetarian := FilterMenu(menu, structs.MenuOptions{VegetarianOnly: true})
	require.Len(t, vegetarian.Pizzas, 1)
	assert.Equal(t, "Margherita", vegetarian.Pizzas[0].Name)
	assert.Len(t, vegetarian.Products, 3)

	vegan := FilterMenu(menu, structs.MenuOptions{VeganOnly: true})
	assert.Empty(t, vegan.Pizzas)
	assert.NotNil(t, vegan.Pizzas)

	drinks := FilterMenu(menu, structs.MenuOptions{Category: "DRINK"})
	assert.Len(t, drinks.Products, 2)
	assert.Len(t, drinks.Pizzas, 2)

	search := FilterMenu(menu, structs.MenuOptions{Search: "pepp"})
	require.Len(t, search.Pizzas, 1)
	assert.Equal(t, "Pepperoni", search.Pizzas[0].Name)
	assert.Empty(t, search.Products)
}

func TestCatalogService_GetPizzaReportsInactive(t *testing.T) {
	store := newMemoryStore()
	seedCatalog(store)
	catalog := NewCatalogService(gecho.NewDefaultLogger(), testConfig(), store, nil)

	pizza, active, err := catalog.GetPizza(context.Background(), retiredID)
	require.NoError(t, err)
	require.NotNil(t, pizza)
	assert.False(t, active)
	assert.Equal(t, "6.00", pizza.Price.StringFixed(2))

	product, active, err := catalog.GetProduct(context.Background(), cokeID)
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, "1.50", product.Price.StringFixed(2))
}
