package database

import (
	"context"
	"pizzeria_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

// Lookups by id return an error matching lib.ErrNotFound when the row is missing.

type CustomerRepository interface {
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*tables.Customer, error)
	// LockCustomer loads the customer locked FOR UPDATE. Checkouts of one
	// customer serialize on it.
	LockCustomer(ctx context.Context, id uuid.UUID) (*tables.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*tables.Customer, error)
	InsertCustomer(ctx context.Context, customer *tables.Customer) error
}

type CatalogRepository interface {
	// GetPizzas loads pizzas with their recipe, active or not.
	GetPizzas(ctx context.Context, ids []uuid.UUID) ([]tables.Pizza, error)
	GetProducts(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error)
	ListActivePizzas(ctx context.Context) ([]tables.Pizza, error)
	ListActiveProducts(ctx context.Context) ([]tables.Product, error)
}

type DiscountRepository interface {
	GetDiscountCode(ctx context.Context, code string) (*tables.DiscountCode, error)
	ListDiscountCodes(ctx context.Context) ([]tables.DiscountCode, error)
	InsertDiscountCode(ctx context.Context, code *tables.DiscountCode) error
	HasUsedDiscountCode(ctx context.Context, customerID uuid.UUID, code string) (bool, error)
	// InsertUsedDiscountCode fails with lib.ErrConflict when the customer already redeemed the code.
	InsertUsedDiscountCode(ctx context.Context, used *tables.UsedDiscountCode) error
	// CountPizzasBought sums pizza quantities over the customer's non-cancelled orders.
	CountPizzasBought(ctx context.Context, customerID uuid.UUID) (int, error)
	// CountLoyaltyRewards counts loyalty discounts on the customer's non-cancelled orders.
	CountLoyaltyRewards(ctx context.Context, customerID uuid.UUID) (int, error)
	// HasBirthdayDiscountOn ignores discounts of cancelled orders.
	HasBirthdayDiscountOn(ctx context.Context, customerID uuid.UUID, day time.Time) (bool, error)
}

type OrderRepository interface {
	InsertOrder(ctx context.Context, order *tables.Order) error
	UpdateOrder(ctx context.Context, order *tables.Order, columns ...string) error
	InsertOrderPizzas(ctx context.Context, lines []*tables.OrderPizza) error
	InsertOrderProducts(ctx context.Context, lines []*tables.OrderProduct) error
	InsertOrderDiscounts(ctx context.Context, discounts []*tables.OrderDiscount) error
	// GetOrder loads the header with line snapshots and discounts.
	GetOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error)
	// LockOrder loads the header only, locked FOR UPDATE.
	LockOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) (*PaginationResult[tables.Order], error)
	ListUndeliveredOrders(ctx context.Context) ([]tables.Order, error)
}

type DeliveryRepository interface {
	// LockDeliveryPeopleByPostcode returns drivers for the postcode, longest idle first, locked FOR UPDATE.
	LockDeliveryPeopleByPostcode(ctx context.Context, postcode string) ([]tables.DeliveryPerson, error)
	ListDeliveryPeople(ctx context.Context, postcode string) ([]tables.DeliveryPerson, error)
	GetDeliveryPerson(ctx context.Context, id uuid.UUID) (*tables.DeliveryPerson, error)
	InsertDeliveryPerson(ctx context.Context, person *tables.DeliveryPerson) error
	UpdateDeliveryPerson(ctx context.Context, person *tables.DeliveryPerson, columns ...string) error
	ListDeliveriesByPerson(ctx context.Context, personID uuid.UUID, page, pageSize int) (*PaginationResult[tables.Order], error)
}

type Repository interface {
	CustomerRepository
	CatalogRepository
	DiscountRepository
	OrderRepository
	DeliveryRepository
}

// Store is a Repository that can open a transaction. fn receives a
// Repository bound to the transaction; returning an error or panicking
// rolls it back.
type Store interface {
	Repository
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error
	Ping(ctx context.Context) error
}
