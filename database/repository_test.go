package database

import (
	"context"
	"errors"
	"pizzeria_server/lib"
	"pizzeria_server/structs/tables"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func newMockStore(t *testing.T) (*BunStore, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })

	return NewStore(db), mock
}

func TestGetCustomerByEmail(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	birth := time.Date(1990, time.June, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM "customers" AS "c"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "birth_date", "postcode", "role"}).
			AddRow(id.String(), "Mario", "Rossi", "mario@example.com", birth, "12345", "customer"))

	customer, err := store.GetCustomerByEmail(context.Background(), "mario@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, customer.Id)
	assert.Equal(t, "Mario", customer.FirstName)
	assert.Equal(t, "12345", customer.Postcode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerByID_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM "customers" AS "c"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	customer, err := store.GetCustomerByID(context.Background(), uuid.New())
	assert.Nil(t, customer)
	assert.ErrorIs(t, err, lib.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertUsedDiscountCode_UniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "used_discount_codes"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := store.InsertUsedDiscountCode(context.Background(), &tables.UsedDiscountCode{
		CustomerId: uuid.New(),
		Code:       "WELCOME10",
		OrderId:    uuid.New(),
	})
	assert.ErrorIs(t, err, lib.ErrConflict)
	assert.True(t, lib.IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasUsedDiscountCode(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`used_discount_codes`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	used, err := store.HasUsedDiscountCode(context.Background(), uuid.New(), "WELCOME10")
	require.NoError(t, err)
	assert.True(t, used)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountPizzasBought(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`COALESCE\(SUM\(op.quantity\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(20))

	total, err := store.CountPizzasBought(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 20, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockCustomer(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM "customers" AS "c".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "postcode"}).
			AddRow(id.String(), "mario@example.com", "12345"))

	customer, err := store.LockCustomer(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, customer.Id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountLoyaltyRewards_SkipsCancelledOrders(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "order_discounts" AS "od".*'loyalty'.*o.status <> 'cancelled'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rewarded, err := store.CountLoyaltyRewards(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, rewarded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasBirthdayDiscountOn_SkipsCancelledOrders(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM "order_discounts" AS "od".*'birthday'.*o.status <> 'cancelled'`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	used, err := store.HasBirthdayDiscountOn(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.False(t, used)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockDeliveryPeopleByPostcode(t *testing.T) {
	store, mock := newMockStore(t)
	idle, busy := uuid.New(), uuid.New()
	last := time.Now().Add(-10 * time.Minute).UTC()

	mock.ExpectQuery(`FROM "delivery_people" AS "dp".*NULLS FIRST.*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "phone", "postcode", "last_delivery_at"}).
			AddRow(idle.String(), "Luigi", "0600000001", "12345", nil).
			AddRow(busy.String(), "Peach", "0600000002", "12345", last))

	people, err := store.LockDeliveryPeopleByPostcode(context.Background(), "12345")
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, idle, people[0].Id)
	assert.Nil(t, people[0].LastDeliveryAt)
	require.NotNil(t, people[1].LastDeliveryAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByCustomer_Paginates(t *testing.T) {
	store, mock := newMockStore(t)
	customerID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM "orders" AS "o".*LIMIT 2 OFFSET 2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "customer_id", "status"}).
			AddRow(uuid.New().String(), "PZ-ABC234", customerID.String(), "delivered"))

	result, err := store.ListOrdersByCustomer(context.Background(), customerID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.Page)
	require.Len(t, result.Data, 1)
	assert.Equal(t, tables.OrderStatusDelivered, result.Data[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_RetriesTransientErrorsOutsideTx(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM "discount_codes" AS "dc"`).
		WillReturnError(errors.New("read: connection reset by peer"))
	mock.ExpectQuery(`FROM "discount_codes" AS "dc"`).
		WillReturnRows(sqlmock.NewRows([]string{"code", "description", "is_active", "single_use"}).
			AddRow("WELCOME10", "Welcome", true, true))

	code, err := store.GetDiscountCode(context.Background(), "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", code.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollsBackWithoutRetry(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnError(errors.New("read: connection reset by peer"))
	mock.ExpectRollback()

	err := store.RunInTx(context.Background(), func(ctx context.Context, tx Repository) error {
		return tx.InsertOrder(ctx, &tables.Order{Id: uuid.New(), OrderNumber: "PZ-ABC234"})
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_Commits(t *testing.T) {
	store, mock := newMockStore(t)
	person := &tables.DeliveryPerson{Id: uuid.New()}
	now := time.Now()
	person.LastDeliveryAt = &now

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "delivery_people" AS "dp"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.RunInTx(context.Background(), func(ctx context.Context, tx Repository) error {
		return tx.UpdateDeliveryPerson(ctx, person, "last_delivery_at")
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
