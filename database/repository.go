package database

import (
	"context"
	"database/sql"
	"fmt"
	"pizzeria_server/lib"
	"pizzeria_server/structs/tables"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type repository struct {
	db bun.IDB
}

// BunStore implements Store on top of bun.
type BunStore struct {
	repository
	root *bun.DB
}

func NewStore(db *bun.DB) *BunStore {
	return &BunStore{repository: repository{db: db}, root: db}
}

func (s *BunStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	return s.root.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &repository{db: tx})
	})
}

func (s *BunStore) Ping(ctx context.Context) error {
	return s.root.PingContext(ctx)
}

// found turns the (nil, nil) of a missing row into lib.ErrNotFound.
func found[T any](row *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%T: %w", row, lib.ErrNotFound)
	}
	return row, nil
}

// Customers

func (r *repository) GetCustomerByID(ctx context.Context, id uuid.UUID) (*tables.Customer, error) {
	row, err := Query[tables.Customer](r.db).Where("id", id).First(ctx)
	return found(row, err)
}

func (r *repository) LockCustomer(ctx context.Context, id uuid.UUID) (*tables.Customer, error) {
	row, err := Query[tables.Customer](r.db).Where("id", id).ForUpdate().First(ctx)
	return found(row, err)
}

func (r *repository) GetCustomerByEmail(ctx context.Context, email string) (*tables.Customer, error) {
	row, err := Query[tables.Customer](r.db).Where("email", email).First(ctx)
	return found(row, err)
}

func (r *repository) InsertCustomer(ctx context.Context, customer *tables.Customer) error {
	_, err := Query[tables.Customer](r.db).Insert(ctx, customer)
	return err
}

// Catalog

func (r *repository) GetPizzas(ctx context.Context, ids []uuid.UUID) ([]tables.Pizza, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return Query[tables.Pizza](r.db).
		WhereIn("id", ids).
		Relation("Recipe.Ingredient").
		All(ctx)
}

func (r *repository) GetProducts(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return Query[tables.Product](r.db).WhereIn("id", ids).All(ctx)
}

func (r *repository) ListActivePizzas(ctx context.Context) ([]tables.Pizza, error) {
	return Query[tables.Pizza](r.db).
		Where("is_active", true).
		Relation("Recipe.Ingredient").
		OrderBy("name", ASC).
		All(ctx)
}

func (r *repository) ListActiveProducts(ctx context.Context) ([]tables.Product, error) {
	return Query[tables.Product](r.db).
		Where("is_active", true).
		OrderBy("category", ASC).
		OrderBy("name", ASC).
		All(ctx)
}

// Discounts

func (r *repository) GetDiscountCode(ctx context.Context, code string) (*tables.DiscountCode, error) {
	row, err := Query[tables.DiscountCode](r.db).Where("code", code).First(ctx)
	return found(row, err)
}

func (r *repository) ListDiscountCodes(ctx context.Context) ([]tables.DiscountCode, error) {
	return Query[tables.DiscountCode](r.db).OrderBy("created_at", DESC).All(ctx)
}

func (r *repository) InsertDiscountCode(ctx context.Context, code *tables.DiscountCode) error {
	_, err := Query[tables.DiscountCode](r.db).Insert(ctx, code)
	return err
}

func (r *repository) HasUsedDiscountCode(ctx context.Context, customerID uuid.UUID, code string) (bool, error) {
	return Query[tables.UsedDiscountCode](r.db).
		Where("customer_id", customerID).
		Where("code", code).
		Exists(ctx)
}

func (r *repository) InsertUsedDiscountCode(ctx context.Context, used *tables.UsedDiscountCode) error {
	_, err := Query[tables.UsedDiscountCode](r.db).Insert(ctx, used)
	return err
}

func (r *repository) CountPizzasBought(ctx context.Context, customerID uuid.UUID) (int, error) {
	var total int
	err := r.db.NewSelect().
		TableExpr("order_pizzas AS op").
		Join("JOIN orders AS o ON o.id = op.order_id").
		ColumnExpr("COALESCE(SUM(op.quantity), 0)").
		Where("o.customer_id = ?", customerID).
		Where("o.status <> ?", tables.OrderStatusCancelled).
		Scan(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("failed to count pizzas bought: %w", lib.MapPgError(err))
	}
	return total, nil
}

// liveOrder keeps discount rows whose order was not cancelled.
const liveOrder = "EXISTS (SELECT 1 FROM orders AS o WHERE o.id = ?TableAlias.order_id AND o.status <> ?)"

func (r *repository) CountLoyaltyRewards(ctx context.Context, customerID uuid.UUID) (int, error) {
	return Query[tables.OrderDiscount](r.db).
		Where("customer_id", customerID).
		Where("kind", tables.DiscountLoyalty).
		WhereRaw(liveOrder, tables.OrderStatusCancelled).
		Count(ctx)
}

func (r *repository) HasBirthdayDiscountOn(ctx context.Context, customerID uuid.UUID, day time.Time) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return Query[tables.OrderDiscount](r.db).
		Where("customer_id", customerID).
		Where("kind", tables.DiscountBirthday).
		WhereOp("created_at", ">=", start).
		WhereOp("created_at", "<", start.AddDate(0, 0, 1)).
		WhereRaw(liveOrder, tables.OrderStatusCancelled).
		Exists(ctx)
}

// Orders

func (r *repository) InsertOrder(ctx context.Context, order *tables.Order) error {
	_, err := Query[tables.Order](r.db).Insert(ctx, order)
	return err
}

func (r *repository) UpdateOrder(ctx context.Context, order *tables.Order, columns ...string) error {
	n, err := Query[tables.Order](r.db).UpdateColumns(ctx, order, columns...)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", order.Id, lib.ErrNotFound)
	}
	return nil
}

func (r *repository) InsertOrderPizzas(ctx context.Context, lines []*tables.OrderPizza) error {
	return Query[tables.OrderPizza](r.db).InsertMany(ctx, lines)
}

func (r *repository) InsertOrderProducts(ctx context.Context, lines []*tables.OrderProduct) error {
	return Query[tables.OrderProduct](r.db).InsertMany(ctx, lines)
}

func (r *repository) InsertOrderDiscounts(ctx context.Context, discounts []*tables.OrderDiscount) error {
	return Query[tables.OrderDiscount](r.db).InsertMany(ctx, discounts)
}

func (r *repository) GetOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	row, err := Query[tables.Order](r.db).
		Where("id", id).
		Relation("Pizzas").
		Relation("Products").
		Relation("Discounts").
		First(ctx)
	return found(row, err)
}

func (r *repository) LockOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	row, err := Query[tables.Order](r.db).Where("id", id).ForUpdate().First(ctx)
	return found(row, err)
}

func (r *repository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) (*PaginationResult[tables.Order], error) {
	q := Query[tables.Order](r.db).
		Where("customer_id", customerID).
		OrderBy("created_at", DESC)
	return Paginate(ctx, q, page, pageSize)
}

func (r *repository) ListUndeliveredOrders(ctx context.Context) ([]tables.Order, error) {
	return Query[tables.Order](r.db).
		WhereIn("status", []tables.OrderStatus{tables.OrderStatusPending, tables.OrderStatusPreparing}).
		OrderBy("created_at", ASC).
		All(ctx)
}

// Delivery

func (r *repository) LockDeliveryPeopleByPostcode(ctx context.Context, postcode string) ([]tables.DeliveryPerson, error) {
	return Query[tables.DeliveryPerson](r.db).
		Where("postcode", postcode).
		OrderByRaw("dp.last_delivery_at ASC NULLS FIRST").
		OrderBy("id", ASC).
		ForUpdate().
		All(ctx)
}

func (r *repository) ListDeliveryPeople(ctx context.Context, postcode string) ([]tables.DeliveryPerson, error) {
	q := Query[tables.DeliveryPerson](r.db)
	if postcode != "" {
		q = q.Where("postcode", postcode)
	}
	return q.OrderByRaw("dp.last_delivery_at ASC NULLS FIRST").OrderBy("full_name", ASC).All(ctx)
}

func (r *repository) GetDeliveryPerson(ctx context.Context, id uuid.UUID) (*tables.DeliveryPerson, error) {
	row, err := FindByID[tables.DeliveryPerson](ctx, r.db, id)
	return found(row, err)
}

func (r *repository) InsertDeliveryPerson(ctx context.Context, person *tables.DeliveryPerson) error {
	_, err := Query[tables.DeliveryPerson](r.db).Insert(ctx, person)
	return err
}

func (r *repository) UpdateDeliveryPerson(ctx context.Context, person *tables.DeliveryPerson, columns ...string) error {
	n, err := Query[tables.DeliveryPerson](r.db).UpdateColumns(ctx, person, columns...)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delivery person %s: %w", person.Id, lib.ErrNotFound)
	}
	return nil
}

func (r *repository) ListDeliveriesByPerson(ctx context.Context, personID uuid.UUID, page, pageSize int) (*PaginationResult[tables.Order], error) {
	q := Query[tables.Order](r.db).
		Where("delivery_person_id", personID).
		OrderBy("created_at", DESC)
	return Paginate(ctx, q, page, pageSize)
}
