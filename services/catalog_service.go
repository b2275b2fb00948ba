package services

import (
	"context"
	"fmt"
	"pizzeria_server/database"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"slices"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogService struct {
	logger       *gecho.Logger
	repo         database.CatalogRepository
	cacheService *CacheService
	basePrice    decimal.Decimal
}

func NewCatalogService(logger *gecho.Logger, cfg *structs.Config, repo database.CatalogRepository, cacheService *CacheService) *CatalogService {
	return &CatalogService{
		logger:       logger,
		repo:         repo,
		cacheService: cacheService,
		basePrice:    cfg.Order.BasePrice,
	}
}

// GetMenu returns the active menu with computed prices, filtered by opts.
// The unfiltered menu is cached; a cache failure falls back to the database.
func (cs *CatalogService) GetMenu(ctx context.Context, opts structs.MenuOptions) (*structs.Menu, error) {
	menu, err := cs.loadMenu(ctx)
	if err != nil {
		return nil, err
	}
	return FilterMenu(menu, opts), nil
}

func (cs *CatalogService) loadMenu(ctx context.Context) (*structs.Menu, error) {
	if cs.cacheService != nil {
		if cached, err := cs.cacheService.GetMenu(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	startTime := time.Now()

	pizzas, err := cs.repo.ListActivePizzas(ctx)
	if err != nil {
		cs.logger.Error("Failed to fetch pizzas", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to fetch pizzas: %w", err)
	}
	products, err := cs.repo.ListActiveProducts(ctx)
	if err != nil {
		cs.logger.Error("Failed to fetch products", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	menu := BuildMenu(cs.basePrice, pizzas, products)

	cs.logger.Debug("Menu built",
		gecho.Field("pizzas", len(menu.Pizzas)),
		gecho.Field("products", len(menu.Products)),
		gecho.Field("duration", time.Since(startTime)))

	if cs.cacheService != nil {
		if err := cs.cacheService.SetMenu(ctx, menu); err != nil {
			cs.logger.Warn("Failed to cache menu", gecho.Field("error", err))
		}
	}

	return menu, nil
}

// BuildMenu prices every pizza from its recipe and derives the dietary flags.
func BuildMenu(base decimal.Decimal, pizzas []tables.Pizza, products []tables.Product) *structs.Menu {
	menu := &structs.Menu{
		Pizzas:   make([]structs.MenuPizza, 0, len(pizzas)),
		Products: make([]structs.MenuProduct, 0, len(products)),
	}

	for _, pizza := range pizzas {
		menu.Pizzas = append(menu.Pizzas, menuPizza(base, &pizza))
	}
	for _, product := range products {
		menu.Products = append(menu.Products, structs.MenuProduct{
			Id:       product.Id,
			Name:     product.Name,
			Category: product.Category,
			Price:    ProductPrice(&product),
		})
	}

	return menu
}

func menuPizza(base decimal.Decimal, pizza *tables.Pizza) structs.MenuPizza {
	ingredients := make([]string, 0, len(pizza.Recipe))
	for _, item := range pizza.Recipe {
		if item != nil && item.Ingredient != nil {
			ingredients = append(ingredients, item.Ingredient.Name)
		}
	}
	slices.Sort(ingredients)

	return structs.MenuPizza{
		Id:          pizza.Id,
		Name:        pizza.Name,
		Price:       PizzaPrice(base, pizza.Recipe),
		Vegetarian:  IsVegetarian(pizza.Recipe),
		Vegan:       IsVegan(pizza.Recipe),
		Ingredients: ingredients,
	}
}

// FilterMenu returns a copy of menu with only the entries matching opts.
func FilterMenu(menu *structs.Menu, opts structs.MenuOptions) *structs.Menu {
	search := strings.ToLower(strings.TrimSpace(opts.Search))
	filtered := &structs.Menu{
		Pizzas:   []structs.MenuPizza{},
		Products: []structs.MenuProduct{},
	}

	for _, pizza := range menu.Pizzas {
		if opts.VeganOnly && !pizza.Vegan {
			continue
		}
		if opts.VegetarianOnly && !pizza.Vegetarian {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(pizza.Name), search) {
			continue
		}
		filtered.Pizzas = append(filtered.Pizzas, pizza)
	}

	// Dietary filters only concern pizzas.
	for _, product := range menu.Products {
		if opts.Category != "" && !strings.EqualFold(product.Category, opts.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(product.Name), search) {
			continue
		}
		filtered.Products = append(filtered.Products, product)
	}

	return filtered
}

// GetPizza returns a single pizza as it appears on the menu, active or not.
func (cs *CatalogService) GetPizza(ctx context.Context, id uuid.UUID) (*structs.MenuPizza, bool, error) {
	pizzas, err := cs.repo.GetPizzas(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, false, err
	}
	if len(pizzas) == 0 {
		return nil, false, nil
	}
	pizza := menuPizza(cs.basePrice, &pizzas[0])
	return &pizza, pizzas[0].IsActive, nil
}

// GetProduct returns a single product with its price, active or not.
func (cs *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*structs.MenuProduct, bool, error) {
	products, err := cs.repo.GetProducts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, false, err
	}
	if len(products) == 0 {
		return nil, false, nil
	}
	product := &products[0]
	return &structs.MenuProduct{
		Id:       product.Id,
		Name:     product.Name,
		Category: product.Category,
		Price:    ProductPrice(product),
	}, product.IsActive, nil
}

// InvalidateMenu drops the cached menu.
func (cs *CatalogService) InvalidateMenu(ctx context.Context) error {
	if cs.cacheService == nil {
		return nil
	}
	return cs.cacheService.InvalidateMenu(ctx)
}
