package services

import (
	"context"
	"errors"
	"fmt"
	"pizzeria_server/database"
	"pizzeria_server/lib"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event structs.OrderEvent) error
}

// OrderNotifier tells the customer about a placed order.
type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, customer *tables.Customer, result *structs.OrderResult) error
}

type OrderService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	store     database.Store
	policy    DiscountPolicy
	publisher EventPublisher
	notifier  OrderNotifier
	now       func() time.Time
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	store database.Store,
	publisher EventPublisher,
	notifier OrderNotifier,
) *OrderService {
	return &OrderService{
		logger:    logger,
		cfg:       cfg,
		store:     store,
		policy:    NewDiscountPolicy(cfg.Order),
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
	}
}

// ValidateCart runs the checks that need no storage.
func ValidateCart(cart structs.Cart) error {
	if cart.IsEmpty() {
		return lib.ErrEmptyCart
	}
	for _, line := range cart.Lines {
		if !line.Kind.Valid() || line.ItemId == uuid.Nil {
			return lib.ErrInvalidCartLine
		}
		if line.Quantity < 1 || line.Quantity > structs.MaxLineQuantity {
			return lib.ErrInvalidQuantity
		}
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PlaceOrder turns a cart into a committed order. Prices are recomputed from
// the catalog, discounts are applied, a driver is assigned and everything is
// written in one transaction. Confirmation email, events and metrics follow
// the commit and never fail the order.
func (os *OrderService) PlaceOrder(ctx context.Context, cart structs.Cart, customerID *uuid.UUID, code string) (*structs.OrderResult, error) {
	if customerID == nil {
		return nil, os.reject(lib.ErrNotAuthenticated)
	}
	if err := ValidateCart(cart); err != nil {
		return nil, os.reject(err)
	}

	code = normalizeCode(code)
	now := os.now()

	var (
		result   *structs.OrderResult
		customer *tables.Customer
	)

	err := os.store.RunInTx(ctx, func(ctx context.Context, tx database.Repository) (txErr error) {
		defer func() {
			if p := recover(); p != nil {
				os.logger.Error(fmt.Sprintf("PANIC RECOVERED: %v", p),
					gecho.Field("panic_value", p),
					gecho.Field("stack_trace", string(debug.Stack())))
				txErr = fmt.Errorf("panic recovered: %v", p)
			}
		}()

		result, customer, txErr = os.commitOrder(ctx, tx, cart, *customerID, code, now)
		return txErr
	})
	if err != nil {
		return nil, os.classify(err, *customerID)
	}

	os.logger.Info("Order placed",
		gecho.Field("order_id", result.OrderId),
		gecho.Field("order_number", result.OrderNumber),
		gecho.Field("status", result.Status),
		gecho.Field("total", result.Total.StringFixed(2)))

	os.afterCommit(ctx, customer, result)
	return result, nil
}

func (os *OrderService) commitOrder(
	ctx context.Context,
	tx database.Repository,
	cart structs.Cart,
	customerID uuid.UUID,
	code string,
	now time.Time,
) (*structs.OrderResult, *tables.Customer, error) {
	customer, err := tx.LockCustomer(ctx, customerID)
	if err != nil {
		if lib.IsNotFound(err) {
			return nil, nil, lib.ErrNotAuthenticated
		}
		return nil, nil, err
	}

	order := &tables.Order{
		Id:             uuid.New(),
		OrderNumber:    lib.GenerateOrderNumber(),
		CustomerId:     customer.Id,
		Postcode:       customer.Postcode,
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TotalAmount:    decimal.Zero,
		Status:         tables.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.InsertOrder(ctx, order); err != nil {
		return nil, nil, err
	}

	lines, skipped, err := os.priceCart(ctx, tx, cart)
	if err != nil {
		return nil, nil, err
	}

	// Loyalty is computed before this order's lines exist, so it counts earlier orders only.
	breakdown, discountCode, err := os.calculateDiscounts(ctx, tx, customer, lines, code, now)
	if err != nil {
		return nil, nil, err
	}

	if err := os.insertSnapshots(ctx, tx, order.Id, lines); err != nil {
		return nil, nil, err
	}

	if len(breakdown.Entries) > 0 {
		rows := make([]*tables.OrderDiscount, 0, len(breakdown.Entries))
		for _, entry := range breakdown.Entries {
			rows = append(rows, &tables.OrderDiscount{
				Id:          uuid.New(),
				OrderId:     order.Id,
				CustomerId:  customer.Id,
				Kind:        entry.Kind,
				Description: entry.Description,
				Amount:      entry.Amount,
				CreatedAt:   now,
			})
		}
		if err := tx.InsertOrderDiscounts(ctx, rows); err != nil {
			return nil, nil, err
		}
	}

	if discountCode != nil {
		order.DiscountCode = &discountCode.Code
		if discountCode.SingleUse {
			err := tx.InsertUsedDiscountCode(ctx, &tables.UsedDiscountCode{
				CustomerId: customer.Id,
				Code:       discountCode.Code,
				OrderId:    order.Id,
				UsedAt:     now,
			})
			if err != nil {
				if lib.IsUniqueViolation(err) {
					return nil, nil, lib.Wrap(lib.ErrDiscountCodeUsed, err)
				}
				return nil, nil, err
			}
		}
	}

	assignment, err := os.assignDeliveryPerson(ctx, tx, order.Postcode, now)
	if err != nil {
		return nil, nil, err
	}

	order.Subtotal = breakdown.Subtotal
	order.DiscountAmount = breakdown.Applied
	order.TotalAmount = breakdown.Total
	order.DeliveryPersonId = assignment.DeliveryPersonId
	order.EstimatedDelay = int64(assignment.Delay / time.Second)
	if assignment.Assigned() {
		order.Status = tables.OrderStatusPreparing
	}

	err = tx.UpdateOrder(ctx, order,
		"subtotal", "discount_amount", "total_amount", "discount_code",
		"delivery_person_id", "estimated_delay_seconds", "status", "updated_at")
	if err != nil {
		return nil, nil, err
	}

	result := &structs.OrderResult{
		OrderId:               order.Id,
		OrderNumber:           order.OrderNumber,
		Status:                order.Status,
		Lines:                 lines,
		Subtotal:              breakdown.Subtotal,
		DiscountTotal:         breakdown.Applied,
		Total:                 breakdown.Total,
		Discounts:             breakdown.Entries,
		DeliveryPersonId:      assignment.DeliveryPersonId,
		EstimatedDelaySeconds: order.EstimatedDelay,
		SkippedItems:          skipped,
		CreatedAt:             order.CreatedAt,
	}
	if assignment.Warning != "" {
		result.Warnings = append(result.Warnings, assignment.Warning)
	}

	return result, customer, nil
}

// priceCart reprices every line from the catalog. Inactive or missing items
// are skipped or rejected depending on configuration.
func (os *OrderService) priceCart(ctx context.Context, repo database.CatalogRepository, cart structs.Cart) ([]structs.PricedLine, []structs.SkippedLine, error) {
	var pizzaIDs, productIDs []uuid.UUID
	for _, line := range cart.Lines {
		switch line.Kind {
		case structs.LinePizza:
			pizzaIDs = append(pizzaIDs, line.ItemId)
		case structs.LineProduct:
			productIDs = append(productIDs, line.ItemId)
		}
	}

	pizzas, err := repo.GetPizzas(ctx, pizzaIDs)
	if err != nil {
		return nil, nil, err
	}
	products, err := repo.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}

	pizzaByID := make(map[uuid.UUID]*tables.Pizza, len(pizzas))
	for i := range pizzas {
		pizzaByID[pizzas[i].Id] = &pizzas[i]
	}
	productByID := make(map[uuid.UUID]*tables.Product, len(products))
	for i := range products {
		productByID[products[i].Id] = &products[i]
	}

	lines := make([]structs.PricedLine, 0, len(cart.Lines))
	var skipped []structs.SkippedLine

	for _, line := range cart.Lines {
		var (
			priced structs.PricedLine
			reason string
		)

		switch line.Kind {
		case structs.LinePizza:
			pizza, ok := pizzaByID[line.ItemId]
			switch {
			case !ok:
				reason = "pizza not found"
			case !pizza.IsActive:
				reason = "pizza is no longer on the menu"
			default:
				unit := PizzaPrice(os.cfg.Order.BasePrice, pizza.Recipe)
				priced = structs.PricedLine{Kind: line.Kind, ItemId: pizza.Id, Name: pizza.Name, Quantity: line.Quantity, UnitPrice: unit, LineTotal: lineTotal(unit, line.Quantity)}
			}
		case structs.LineProduct:
			product, ok := productByID[line.ItemId]
			switch {
			case !ok:
				reason = "product not found"
			case !product.IsActive:
				reason = "product is no longer available"
			default:
				unit := ProductPrice(product)
				priced = structs.PricedLine{Kind: line.Kind, ItemId: product.Id, Name: product.Name, Category: product.Category, Quantity: line.Quantity, UnitPrice: unit, LineTotal: lineTotal(unit, line.Quantity)}
			}
		}

		if reason != "" {
			if os.cfg.Order.OnUnavailableItem == structs.UnavailableReject {
				return nil, nil, lib.Wrap(lib.ErrItemUnavailable, fmt.Errorf("%s %s: %s", line.Kind, line.ItemId, reason))
			}
			skipped = append(skipped, structs.SkippedLine{Kind: line.Kind, ItemId: line.ItemId, Reason: reason})
			continue
		}
		lines = append(lines, priced)
	}

	if len(lines) == 0 {
		return nil, nil, lib.Wrap(lib.ErrItemUnavailable, errors.New("no orderable items left in cart"))
	}

	return lines, skipped, nil
}

func (os *OrderService) calculateDiscounts(
	ctx context.Context,
	repo database.DiscountRepository,
	customer *tables.Customer,
	lines []structs.PricedLine,
	code string,
	now time.Time,
) (*structs.DiscountBreakdown, *tables.DiscountCode, error) {
	input := DiscountInput{Lines: lines, Customer: customer, Now: now}

	if customer.HasBirthdayOn(now) {
		used, err := repo.HasBirthdayDiscountOn(ctx, customer.Id, now)
		if err != nil {
			return nil, nil, err
		}
		input.BirthdayUsed = used
	}

	loyalty, err := os.loyaltyStats(ctx, repo, customer.Id)
	if err != nil {
		return nil, nil, err
	}
	input.Loyalty = loyalty

	if code != "" {
		discountCode, err := repo.GetDiscountCode(ctx, code)
		if err != nil {
			if lib.IsNotFound(err) {
				return nil, nil, lib.ErrDiscountCodeInvalid
			}
			return nil, nil, err
		}
		if discountCode.SingleUse {
			used, err := repo.HasUsedDiscountCode(ctx, customer.Id, discountCode.Code)
			if err != nil {
				return nil, nil, err
			}
			input.CodeAlreadyUsed = used
		}
		input.Code = discountCode
	}

	breakdown, err := os.policy.CalculateDiscounts(input)
	if err != nil {
		return nil, nil, err
	}
	return breakdown, input.Code, nil
}

func (os *OrderService) insertSnapshots(ctx context.Context, tx database.OrderRepository, orderID uuid.UUID, lines []structs.PricedLine) error {
	var pizzas []*tables.OrderPizza
	var products []*tables.OrderProduct

	for _, line := range lines {
		switch line.Kind {
		case structs.LinePizza:
			pizzas = append(pizzas, &tables.OrderPizza{
				Id:        uuid.New(),
				OrderId:   orderID,
				PizzaId:   line.ItemId,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal,
				Name:      line.Name,
			})
		case structs.LineProduct:
			products = append(products, &tables.OrderProduct{
				Id:        uuid.New(),
				OrderId:   orderID,
				ProductId: line.ItemId,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal,
				Name:      line.Name,
				Category:  line.Category,
			})
		}
	}

	if len(pizzas) > 0 {
		if err := tx.InsertOrderPizzas(ctx, pizzas); err != nil {
			return err
		}
	}
	if len(products) > 0 {
		if err := tx.InsertOrderProducts(ctx, products); err != nil {
			return err
		}
	}
	return nil
}

func (os *OrderService) assignDeliveryPerson(ctx context.Context, tx database.DeliveryRepository, postcode string, now time.Time) (structs.DeliveryAssignment, error) {
	candidates, err := tx.LockDeliveryPeopleByPostcode(ctx, postcode)
	if err != nil {
		return structs.DeliveryAssignment{}, err
	}

	driver, assignment := PickDeliveryPerson(candidates, now, os.cfg.Order.DeliveryCooldown)
	if driver == nil {
		os.logger.Warn("No delivery person available", gecho.Field("postcode", postcode))
		return assignment, nil
	}

	if err := tx.UpdateDeliveryPerson(ctx, driver, "last_delivery_at"); err != nil {
		return structs.DeliveryAssignment{}, err
	}
	return assignment, nil
}

// reject counts and returns a checkout error raised before any storage access.
func (os *OrderService) reject(err error) error {
	kind, _ := lib.KindOf(err)
	OrderFailures.WithLabelValues(string(kind)).Inc()
	return err
}

// classify keeps validation and business errors as they are and hides every
// other failure behind a generic transaction error.
func (os *OrderService) classify(err error, customerID uuid.UUID) error {
	kind, ok := lib.KindOf(err)
	if ok && (kind == lib.KindValidation || kind == lib.KindBusinessRule) {
		OrderFailures.WithLabelValues(string(kind)).Inc()
		os.logger.Warn("Order rejected",
			gecho.Field("customer_id", customerID),
			gecho.Field("reason", err.Error()))
		return err
	}

	OrderFailures.WithLabelValues(string(lib.KindTransaction)).Inc()
	os.logger.Error("Order transaction failed",
		gecho.Field("customer_id", customerID),
		gecho.Field("error", lib.GetDetailForLogging(err)))
	return lib.TransactionFailure(err)
}

func (os *OrderService) afterCommit(ctx context.Context, customer *tables.Customer, result *structs.OrderResult) {
	OrdersPlaced.WithLabelValues(string(result.Status)).Inc()
	for _, entry := range result.Discounts {
		OrderDiscounts.WithLabelValues(string(entry.Kind)).Inc()
	}

	os.publish(ctx, structs.OrderEvent{
		Type:        structs.EventOrderPlaced,
		OrderId:     result.OrderId,
		OrderNumber: result.OrderNumber,
		CustomerId:  customer.Id,
		Status:      result.Status,
		Total:       result.Total,
		OccurredAt:  result.CreatedAt,
	})

	if os.notifier != nil {
		if err := os.notifier.SendOrderConfirmation(ctx, customer, result); err != nil {
			os.logger.Error("Failed to send order confirmation email",
				gecho.Field("error", err),
				gecho.Field("order_id", result.OrderId))
		}
	}
}

func (os *OrderService) publish(ctx context.Context, event structs.OrderEvent) {
	if os.publisher == nil {
		return
	}
	if err := os.publisher.PublishOrderEvent(ctx, event); err != nil {
		os.logger.Warn("Failed to publish order event",
			gecho.Field("error", err),
			gecho.Field("type", event.Type),
			gecho.Field("order_id", event.OrderId))
	}
}

// PreviewCheckout prices the cart and calculates discounts without writing anything.
func (os *OrderService) PreviewCheckout(ctx context.Context, cart structs.Cart, customerID *uuid.UUID, code string) (*structs.CheckoutPreview, error) {
	if customerID == nil {
		return nil, lib.ErrNotAuthenticated
	}
	if err := ValidateCart(cart); err != nil {
		return nil, err
	}

	customer, err := os.store.GetCustomerByID(ctx, *customerID)
	if err != nil {
		if lib.IsNotFound(err) {
			return nil, lib.ErrNotAuthenticated
		}
		return nil, err
	}

	lines, skipped, err := os.priceCart(ctx, os.store, cart)
	if err != nil {
		return nil, err
	}

	breakdown, _, err := os.calculateDiscounts(ctx, os.store, customer, lines, normalizeCode(code), os.now())
	if err != nil {
		return nil, err
	}

	return &structs.CheckoutPreview{
		Lines:        lines,
		Discounts:    *breakdown,
		SkippedItems: skipped,
	}, nil
}

// LoyaltyStats reports the customer's pizza count and loyalty eligibility.
func (os *OrderService) LoyaltyStats(ctx context.Context, customerID uuid.UUID) (structs.LoyaltyStats, error) {
	return os.loyaltyStats(ctx, os.store, customerID)
}

func (os *OrderService) loyaltyStats(ctx context.Context, repo database.DiscountRepository, customerID uuid.UUID) (structs.LoyaltyStats, error) {
	bought, err := repo.CountPizzasBought(ctx, customerID)
	if err != nil {
		return structs.LoyaltyStats{}, err
	}
	rewarded, err := repo.CountLoyaltyRewards(ctx, customerID)
	if err != nil {
		return structs.LoyaltyStats{}, err
	}
	return os.policy.LoyaltyStatsFor(bought, rewarded), nil
}

// isValidStatusTransition validates if a status transition is allowed
func isValidStatusTransition(current, next tables.OrderStatus) bool {
	transitions := map[tables.OrderStatus][]tables.OrderStatus{
		tables.OrderStatusPending: {
			tables.OrderStatusPreparing,
			tables.OrderStatusCancelled,
		},
		tables.OrderStatusPreparing: {
			tables.OrderStatusDelivered,
			tables.OrderStatusCancelled,
		},
		tables.OrderStatusDelivered: {},
		tables.OrderStatusCancelled: {},
	}

	return slices.Contains(transitions[current], next)
}

// CancelOrder cancels an undelivered order of the customer within the cancel window.
func (os *OrderService) CancelOrder(ctx context.Context, orderID, customerID uuid.UUID) (*tables.Order, error) {
	var order *tables.Order
	now := os.now()

	err := os.store.RunInTx(ctx, func(ctx context.Context, tx database.Repository) error {
		var err error
		order, err = tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.CustomerId != customerID {
			return fmt.Errorf("order %s: %w", orderID, lib.ErrNotFound)
		}
		if !isValidStatusTransition(order.Status, tables.OrderStatusCancelled) {
			return lib.ErrInvalidStatusTransition
		}
		if now.Sub(order.CreatedAt) > os.cfg.Order.CancelWindow {
			return lib.ErrCancelWindowClosed
		}

		order.Status = tables.OrderStatusCancelled
		order.CancelledAt = &now
		order.UpdatedAt = now
		return tx.UpdateOrder(ctx, order, "status", "cancelled_at", "updated_at")
	})
	if err != nil {
		return nil, err
	}

	os.logger.Info("Order cancelled",
		gecho.Field("order_id", order.Id),
		gecho.Field("customer_id", customerID))

	os.publish(ctx, statusEvent(order, now))
	return order, nil
}

// MarkDelivered moves a preparing order to delivered.
func (os *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*tables.Order, error) {
	var order *tables.Order
	now := os.now()

	err := os.store.RunInTx(ctx, func(ctx context.Context, tx database.Repository) error {
		var err error
		order, err = tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !isValidStatusTransition(order.Status, tables.OrderStatusDelivered) {
			return lib.ErrInvalidStatusTransition
		}

		order.Status = tables.OrderStatusDelivered
		order.DeliveredAt = &now
		order.UpdatedAt = now
		return tx.UpdateOrder(ctx, order, "status", "delivered_at", "updated_at")
	})
	if err != nil {
		return nil, err
	}

	os.logger.Info("Order delivered", gecho.Field("order_id", order.Id))

	os.publish(ctx, statusEvent(order, now))
	return order, nil
}

func statusEvent(order *tables.Order, at time.Time) structs.OrderEvent {
	return structs.OrderEvent{
		Type:        structs.EventOrderStatusChanged,
		OrderId:     order.Id,
		OrderNumber: order.OrderNumber,
		CustomerId:  order.CustomerId,
		Status:      order.Status,
		Total:       order.TotalAmount,
		OccurredAt:  at,
	}
}

// GetOrderDetails returns the order with its snapshots and discounts. A nil
// customerID skips the ownership check (staff access).
func (os *OrderService) GetOrderDetails(ctx context.Context, orderID uuid.UUID, customerID *uuid.UUID) (*tables.Order, error) {
	order, err := os.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if customerID != nil && order.CustomerId != *customerID {
		return nil, fmt.Errorf("order %s: %w", orderID, lib.ErrNotFound)
	}
	return order, nil
}

func (os *OrderService) GetOrderStatus(ctx context.Context, orderID, customerID uuid.UUID) (tables.OrderStatus, error) {
	order, err := os.GetOrderDetails(ctx, orderID, &customerID)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

func (os *OrderService) GetOrdersByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) (*database.PaginationResult[tables.Order], error) {
	return os.store.ListOrdersByCustomer(ctx, customerID, page, pageSize)
}

// TrackingQRCode renders a PNG QR code pointing at the order's tracking page.
func (os *OrderService) TrackingQRCode(ctx context.Context, orderID, customerID uuid.UUID) ([]byte, error) {
	order, err := os.GetOrderDetails(ctx, orderID, &customerID)
	if err != nil {
		return nil, err
	}
	return lib.EncodeQRCode(fmt.Sprintf(os.cfg.Order.TrackingURL, order.Id), 256)
}
