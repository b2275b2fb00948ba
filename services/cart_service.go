package services

import (
	"context"
	"fmt"
	"pizzeria_server/lib"
	"pizzeria_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// CartService keeps one cart per customer in Redis. Price hints are refreshed
// on every change; checkout reprices regardless.
type CartService struct {
	logger  *gecho.Logger
	cache   *CacheService
	catalog *CatalogService
}

func NewCartService(logger *gecho.Logger, cache *CacheService, catalog *CatalogService) *CartService {
	return &CartService{
		logger:  logger,
		cache:   cache,
		catalog: catalog,
	}
}

// GetCart returns the stored cart, or an empty one.
func (cs *CartService) GetCart(ctx context.Context, customerID uuid.UUID) (*structs.Cart, error) {
	cart, err := cs.cache.GetCart(ctx, customerID)
	if err != nil {
		cs.logger.Error("Failed to load cart", gecho.Field("error", err), gecho.Field("customer_id", customerID))
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		empty := structs.NewCart(customerID)
		return &empty, nil
	}
	if cart.Lines == nil {
		cart.Lines = []structs.CartLine{}
	}
	return cart, nil
}

// AddLine adds an active pizza or product to the cart, merging with an
// existing line for the same item.
func (cs *CartService) AddLine(ctx context.Context, customerID uuid.UUID, line structs.CartLine) (*structs.Cart, error) {
	if !line.Kind.Valid() || line.ItemId == uuid.Nil {
		return nil, lib.ErrInvalidCartLine
	}
	if line.Quantity < 1 || line.Quantity > structs.MaxLineQuantity {
		return nil, lib.ErrInvalidQuantity
	}

	if err := cs.describe(ctx, &line); err != nil {
		return nil, err
	}

	cart, err := cs.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	cart.Add(line)
	return cart, cs.save(ctx, cart)
}

// describe fills in name and price hint, rejecting unknown or inactive items.
func (cs *CartService) describe(ctx context.Context, line *structs.CartLine) error {
	switch line.Kind {
	case structs.LinePizza:
		pizza, active, err := cs.catalog.GetPizza(ctx, line.ItemId)
		if err != nil {
			return err
		}
		if pizza == nil {
			return fmt.Errorf("pizza %s: %w", line.ItemId, lib.ErrNotFound)
		}
		if !active {
			return lib.Wrap(lib.ErrItemUnavailable, fmt.Errorf("pizza %s is not on the menu", pizza.Name))
		}
		line.Name, line.UnitPriceHint = pizza.Name, pizza.Price
	case structs.LineProduct:
		product, active, err := cs.catalog.GetProduct(ctx, line.ItemId)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("product %s: %w", line.ItemId, lib.ErrNotFound)
		}
		if !active {
			return lib.Wrap(lib.ErrItemUnavailable, fmt.Errorf("product %s is not available", product.Name))
		}
		line.Name, line.UnitPriceHint = product.Name, product.Price
	}
	return nil
}

// UpdateLine sets the quantity of the line at index; zero removes it.
func (cs *CartService) UpdateLine(ctx context.Context, customerID uuid.UUID, index, quantity int) (*structs.Cart, error) {
	if quantity < 0 || quantity > structs.MaxLineQuantity {
		return nil, lib.ErrInvalidQuantity
	}

	cart, err := cs.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(index, quantity) {
		return nil, fmt.Errorf("cart line %d: %w", index, lib.ErrNotFound)
	}
	return cart, cs.save(ctx, cart)
}

func (cs *CartService) RemoveLine(ctx context.Context, customerID uuid.UUID, index int) (*structs.Cart, error) {
	cart, err := cs.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !cart.Remove(index) {
		return nil, fmt.Errorf("cart line %d: %w", index, lib.ErrNotFound)
	}
	return cart, cs.save(ctx, cart)
}

func (cs *CartService) Clear(ctx context.Context, customerID uuid.UUID) error {
	if err := cs.cache.DeleteCart(ctx, customerID); err != nil {
		cs.logger.Error("Failed to clear cart", gecho.Field("error", err), gecho.Field("customer_id", customerID))
		return err
	}
	return nil
}

func (cs *CartService) save(ctx context.Context, cart *structs.Cart) error {
	cart.UpdatedAt = time.Now()
	if err := cs.cache.SaveCart(ctx, cart); err != nil {
		cs.logger.Error("Failed to save cart", gecho.Field("error", err), gecho.Field("customer_id", cart.CustomerId))
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
