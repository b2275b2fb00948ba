package services

import (
	"context"
	"pizzeria_server/lib"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStaffService(store *memoryStore) *StaffService {
	orders, _, _ := newTestOrderService(store)
	return NewStaffService(gecho.NewDefaultLogger(), store, orders)
}

func TestStaffService_CreateDiscountCode(t *testing.T) {
	store := newMemoryStore()
	staff := newTestStaffService(store)
	ctx := context.Background()
	ten := dec("10")
	five := dec("5")
	tooMuch := dec("150")
	past := time.Now().Add(-time.Hour)

	created, err := staff.CreateDiscountCode(ctx, &structs.CreateDiscountCodeRequest{Code: "welcome10", Description: "Welcome", PercentOff: &ten})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", created.Code)
	assert.True(t, created.SingleUse)
	assert.True(t, created.IsActive)
	assert.True(t, created.PercentOff.Valid)
	assert.False(t, created.AmountOff.Valid)

	multi := false
	generated, err := staff.CreateDiscountCode(ctx, &structs.CreateDiscountCodeRequest{Prefix: "summer", Description: "Summer", AmountOff: &five, SingleUse: &multi})
	require.NoError(t, err)
	assert.Regexp(t, `^SUMMER[A-Z2-9]{6}$`, generated.Code)
	assert.False(t, generated.SingleUse)

	_, err = staff.CreateDiscountCode(ctx, &structs.CreateDiscountCodeRequest{Code: "WELCOME10", Description: "Again", PercentOff: &ten})
	assert.ErrorIs(t, err, lib.ErrConflict)

	invalid := []*structs.CreateDiscountCodeRequest{
		{Code: "NONE", Description: "neither"},
		{Code: "BOTH", Description: "both", PercentOff: &ten, AmountOff: &five},
		{Code: "HUGE", Description: "over 100", PercentOff: &tooMuch},
		{Code: "PAST", Description: "expired", PercentOff: &ten, ExpiresAt: &past},
	}
	for _, req := range invalid {
		_, err := staff.CreateDiscountCode(ctx, req)
		assert.ErrorIs(t, err, lib.ErrInvalidDiscount, req.Code)
	}

	codes, err := staff.ListDiscountCodes(ctx)
	require.NoError(t, err)
	assert.Len(t, codes, 2)
}

func TestStaffService_DeliveryPeople(t *testing.T) {
	store := newMemoryStore()
	staff := newTestStaffService(store)
	ctx := context.Background()

	person, err := staff.CreateDeliveryPerson(ctx, &structs.CreateDeliveryPersonRequest{FullName: " Luigi ", Phone: "0612345678", Postcode: "12345"})
	require.NoError(t, err)
	assert.Equal(t, "Luigi", person.FullName)

	_, err = staff.CreateDeliveryPerson(ctx, &structs.CreateDeliveryPersonRequest{FullName: "Copy", Phone: "0612345678", Postcode: "12345"})
	assert.ErrorIs(t, err, lib.ErrConflict)

	_, err = staff.CreateDeliveryPerson(ctx, &structs.CreateDeliveryPersonRequest{FullName: "Peach", Phone: "0687654321", Postcode: "54321"})
	require.NoError(t, err)

	all, err := staff.ListDeliveryPeople(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	local, err := staff.ListDeliveryPeople(ctx, "12345")
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Equal(t, person.Id, local[0].Id)
}

func TestStaffService_OrderQueueAndHistory(t *testing.T) {
	store := newMemoryStore()
	seedCatalog(store)
	customer := seedCustomer(store, "12345", notBirthday())
	driver := seedDriver(store, "12345", nil)
	staff := newTestStaffService(store)
	ctx := context.Background()

	result := placeSimpleOrder(t, staff.orders, customer.Id)

	queue, err := staff.ListUndeliveredOrders(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, result.OrderId, queue[0].Id)

	order, err := staff.GetOrder(ctx, result.OrderId)
	require.NoError(t, err)
	assert.Equal(t, customer.Id, order.CustomerId)

	delivered, err := staff.MarkDelivered(ctx, result.OrderId)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusDelivered, delivered.Status)

	queue, err = staff.ListUndeliveredOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue)

	history, err := staff.DeliveryHistory(ctx, driver.Id, 1, 10)
	require.NoError(t, err)
	require.Len(t, history.Data, 1)
	assert.Equal(t, result.OrderId, history.Data[0].Id)

	_, err = staff.DeliveryHistory(ctx, uuid.New(), 1, 10)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestValidateDiscountValue(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	zero := decimal.Zero
	assert.NoError(t, validateDiscountValue(&hundred, nil))
	assert.Error(t, validateDiscountValue(&zero, nil))
	assert.Error(t, validateDiscountValue(nil, &zero))
}
