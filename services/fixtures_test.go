package services

import (
	"context"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testConfig() *structs.Config {
	return &structs.Config{
		Order: &structs.OrderConfig{
			BasePrice:         dec("5.00"),
			DrinkCategory:     tables.CategoryDrink,
			LoyaltyPercent:    decimal.NewFromInt(10),
			LoyaltyEvery:      10,
			DeliveryCooldown:  30 * time.Minute,
			CancelWindow:      5 * time.Minute,
			OnUnavailableItem: structs.UnavailableSkip,
			TrackingURL:       "https://pizza.example/orders/%s",
		},
		Cache: &structs.CacheConfig{
			MenuTTL: time.Minute,
			CartTTL: time.Hour,
		},
		Auth: &structs.AuthConfig{
			AccessTokenSecret:  "access-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenSecret: "refresh-secret",
			RefreshTokenExpiry: 24 * time.Hour,
			BlacklistCacheTTL:  time.Hour,
			CacheCustomerTTL:   time.Minute,
		},
	}
}

// catalog ids
var (
	margheritaID = uuid.MustParse("6f1b6f5e-0d4c-4a52-9a57-1d7c1b3c0001")
	pepperoniID  = uuid.MustParse("6f1b6f5e-0d4c-4a52-9a57-1d7c1b3c0002")
	retiredID    = uuid.MustParse("6f1b6f5e-0d4c-4a52-9a57-1d7c1b3c0003")
	cokeID       = uuid.MustParse("6f1b6f5e-0d4c-4a52-9a57-1d7c1b3c0101")
	waterID      = uuid.MustParse("6f1b6f5e-0d4c-4a52-9a57-1d7c1b3c0102")
	tiramisuID   = uuid.MustParse("6f1b6f5e-0d4c-4a52-9a57-1d7c1b3c0103")
)

var (
	tomato     = &tables.Ingredient{Id: uuid.New(), Name: "Tomato sauce", Cost: dec("1.00")}
	mozzarella = &tables.Ingredient{Id: uuid.New(), Name: "Mozzarella", Cost: dec("1.99"), IsAnimalProduct: true}
	pepperoni  = &tables.Ingredient{Id: uuid.New(), Name: "Pepperoni", Cost: dec("3.00"), IsMeat: true}
)

func recipe(items ...any) []*tables.PizzaIngredient {
	var out []*tables.PizzaIngredient
	for i := 0; i < len(items); i += 2 {
		ingredient := items[i].(*tables.Ingredient)
		out = append(out, &tables.PizzaIngredient{IngredientId: ingredient.Id, Grams: items[i+1].(int), Ingredient: ingredient})
	}
	return out
}

// seedCatalog adds a Margherita at 8.99 (5.00 + 1.00 + 2.985), a Pepperoni at
// 10.49, a retired pizza, Coke 1.50, Water 1.00 and a dessert.
func seedCatalog(s *memoryStore) {
	s.data.pizzas[margheritaID] = tables.Pizza{Id: margheritaID, Name: "Margherita", IsActive: true, Recipe: recipe(tomato, 100, mozzarella, 150)}
	s.data.pizzas[pepperoniID] = tables.Pizza{Id: pepperoniID, Name: "Pepperoni", IsActive: true, Recipe: recipe(tomato, 100, mozzarella, 150, pepperoni, 50)}
	s.data.pizzas[retiredID] = tables.Pizza{Id: retiredID, Name: "Hawaii", IsActive: false, Recipe: recipe(tomato, 100)}

	s.data.products[cokeID] = tables.Product{Id: cokeID, Name: "Coke", Category: tables.CategoryDrink, Cost: dec("1.50"), IsActive: true}
	s.data.products[waterID] = tables.Product{Id: waterID, Name: "Water", Category: tables.CategoryDrink, Cost: dec("1.00"), IsActive: true}
	s.data.products[tiramisuID] = tables.Product{Id: tiramisuID, Name: "Tiramisu", Category: "dessert", Cost: dec("4.50"), IsActive: true}
}

func seedCustomer(s *memoryStore, postcode string, birth time.Time) *tables.Customer {
	customer := tables.Customer{
		Id:        uuid.New(),
		FirstName: "Mario",
		LastName:  "Rossi",
		Email:     uuid.NewString() + "@example.com",
		BirthDate: birth,
		Postcode:  postcode,
		Role:      tables.RoleCustomer,
	}
	s.data.customers[customer.Id] = customer
	return &customer
}

func seedDriver(s *memoryStore, postcode string, lastDelivery *time.Time) *tables.DeliveryPerson {
	person := tables.DeliveryPerson{
		Id:             uuid.New(),
		FullName:       "Luigi " + postcode,
		Phone:          uuid.NewString(),
		Postcode:       postcode,
		LastDeliveryAt: lastDelivery,
	}
	s.data.drivers[person.Id] = person
	return &person
}

// seedPastOrder records an earlier order with quantity pizzas.
func seedPastOrder(s *memoryStore, customerID uuid.UUID, quantity int, status tables.OrderStatus) {
	order := tables.Order{
		Id:          uuid.New(),
		OrderNumber: "PZ-OLD" + uuid.NewString()[:4],
		CustomerId:  customerID,
		Status:      status,
		CreatedAt:   testNow.Add(-48 * time.Hour),
	}
	s.data.orders[order.Id] = order
	s.data.orderPizzas = append(s.data.orderPizzas, tables.OrderPizza{Id: uuid.New(), OrderId: order.Id, PizzaId: margheritaID, Quantity: quantity})
}

func notBirthday() time.Time {
	return time.Date(1990, time.June, 12, 0, 0, 0, 0, time.UTC)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderEvent(ctx context.Context, event structs.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendOrderConfirmation(ctx context.Context, customer *tables.Customer, result *structs.OrderResult) error {
	args := m.Called(ctx, customer, result)
	return args.Error(0)
}

// newTestOrderService wires an order service on a seeded store with
// publisher and notifier that accept everything.
func newTestOrderService(store *memoryStore) (*OrderService, *mockPublisher, *mockNotifier) {
	publisher := &mockPublisher{}
	publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Maybe()
	notifier := &mockNotifier{}
	notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	os := NewOrderService(gecho.NewDefaultLogger(), testConfig(), store, publisher, notifier)
	os.now = func() time.Time { return testNow }
	return os, publisher, notifier
}

func cartOf(customerID uuid.UUID, lines ...structs.CartLine) structs.Cart {
	cart := structs.NewCart(customerID)
	for _, line := range lines {
		cart.Add(line)
	}
	return cart
}
