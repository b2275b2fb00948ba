package services

import (
	"context"
	"errors"
	"pizzeria_server/database"
	"pizzeria_server/lib"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const generatedCodeSuffixLength = 6

type StaffService struct {
	logger *gecho.Logger
	store  database.Store
	orders *OrderService
}

func NewStaffService(logger *gecho.Logger, store database.Store, orders *OrderService) *StaffService {
	return &StaffService{
		logger: logger,
		store:  store,
		orders: orders,
	}
}

// CreateDiscountCode stores a new code. Exactly one of percent or amount must
// be set. Without an explicit code one is generated from the prefix.
func (ss *StaffService) CreateDiscountCode(ctx context.Context, req *structs.CreateDiscountCodeRequest) (*tables.DiscountCode, error) {
	if err := validateDiscountValue(req.PercentOff, req.AmountOff); err != nil {
		return nil, err
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		return nil, lib.Wrap(lib.ErrInvalidDiscount, errors.New("expiry must be in the future"))
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		generated, err := lib.GenerateDiscountCode(req.Prefix, generatedCodeSuffixLength)
		if err != nil {
			ss.logger.Error("Failed to generate discount code", gecho.Field("error", err))
			return nil, err
		}
		code = generated
	}

	singleUse := true
	if req.SingleUse != nil {
		singleUse = *req.SingleUse
	}

	discountCode := &tables.DiscountCode{
		Code:        code,
		Description: strings.TrimSpace(req.Description),
		SingleUse:   singleUse,
		IsActive:    true,
		ExpiresAt:   req.ExpiresAt,
		CreatedAt:   time.Now(),
	}
	if req.PercentOff != nil {
		discountCode.PercentOff = decimal.NewNullDecimal(*req.PercentOff)
	}
	if req.AmountOff != nil {
		discountCode.AmountOff = decimal.NewNullDecimal(*req.AmountOff)
	}

	if err := ss.store.InsertDiscountCode(ctx, discountCode); err != nil {
		if lib.IsUniqueViolation(err) {
			ss.logger.Warn("Discount code already exists", gecho.Field("code", code))
		} else {
			ss.logger.Error("Failed to create discount code", gecho.Field("error", err), gecho.Field("code", code))
		}
		return nil, err
	}

	ss.logger.Info("Discount code created", gecho.Field("code", code), gecho.Field("single_use", singleUse))
	return discountCode, nil
}

func validateDiscountValue(percent, amount *decimal.Decimal) error {
	switch {
	case percent == nil && amount == nil:
		return lib.Wrap(lib.ErrInvalidDiscount, errors.New("either percent_off or amount_off is required"))
	case percent != nil && amount != nil:
		return lib.Wrap(lib.ErrInvalidDiscount, errors.New("percent_off and amount_off are mutually exclusive"))
	case percent != nil && (!percent.IsPositive() || percent.GreaterThan(hundredPercent)):
		return lib.Wrap(lib.ErrInvalidDiscount, errors.New("percent_off must be between 0 and 100"))
	case amount != nil && !amount.IsPositive():
		return lib.Wrap(lib.ErrInvalidDiscount, errors.New("amount_off must be positive"))
	}
	return nil
}

func (ss *StaffService) ListDiscountCodes(ctx context.Context) ([]tables.DiscountCode, error) {
	return ss.store.ListDiscountCodes(ctx)
}

func (ss *StaffService) CreateDeliveryPerson(ctx context.Context, req *structs.CreateDeliveryPersonRequest) (*tables.DeliveryPerson, error) {
	person := &tables.DeliveryPerson{
		Id:       uuid.New(),
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
		Postcode: req.Postcode,
	}

	if err := ss.store.InsertDeliveryPerson(ctx, person); err != nil {
		if !lib.IsUniqueViolation(err) {
			ss.logger.Error("Failed to create delivery person", gecho.Field("error", err))
		}
		return nil, err
	}

	ss.logger.Info("Delivery person created", gecho.Field("id", person.Id), gecho.Field("postcode", person.Postcode))
	return person, nil
}

func (ss *StaffService) ListDeliveryPeople(ctx context.Context, postcode string) ([]tables.DeliveryPerson, error) {
	return ss.store.ListDeliveryPeople(ctx, postcode)
}

// ListUndeliveredOrders returns pending and preparing orders, oldest first.
func (ss *StaffService) ListUndeliveredOrders(ctx context.Context) ([]tables.Order, error) {
	return ss.store.ListUndeliveredOrders(ctx)
}

func (ss *StaffService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*tables.Order, error) {
	return ss.orders.MarkDelivered(ctx, orderID)
}

func (ss *StaffService) GetOrder(ctx context.Context, orderID uuid.UUID) (*tables.Order, error) {
	return ss.orders.GetOrderDetails(ctx, orderID, nil)
}

// DeliveryHistory lists the orders a driver was assigned, newest first.
func (ss *StaffService) DeliveryHistory(ctx context.Context, personID uuid.UUID, page, pageSize int) (*database.PaginationResult[tables.Order], error) {
	if _, err := ss.store.GetDeliveryPerson(ctx, personID); err != nil {
		return nil, err
	}
	return ss.store.ListDeliveriesByPerson(ctx, personID, page, pageSize)
}
