package structs

import (
	"pizzeria_server/structs/tables"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutRequest struct {
	DiscountCode string `json:"discount_code" validate:"omitempty,max=50"`
}

// PricedLine is a cart line after server-side repricing.
type PricedLine struct {
	Kind      LineKind        `json:"kind"`
	ItemId    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type DiscountEntry struct {
	Kind        tables.DiscountKind `json:"kind"`
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount"`
}

// DiscountBreakdown is the outcome of discount calculation. Applied never
// exceeds Subtotal and Total = Subtotal - Applied.
type DiscountBreakdown struct {
	Entries  []DiscountEntry `json:"entries"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Applied  decimal.Decimal `json:"applied"`
	Total    decimal.Decimal `json:"total"`
}

// LoyaltyStats is the loyalty aggregate for a customer.
type LoyaltyStats struct {
	TotalPizzasBought int  `json:"total_pizzas_bought"`
	RewardsGranted    int  `json:"rewards_granted"`
	NextRewardAt      int  `json:"next_reward_at,omitempty"`
	Eligible          bool `json:"eligible_for_loyalty_discount"`
}

type DeliveryAssignment struct {
	DeliveryPersonId *uuid.UUID    `json:"delivery_person_id,omitempty"`
	DeliveryPerson   string        `json:"delivery_person,omitempty"`
	Delay            time.Duration `json:"-"`
	DispatchAt       time.Time     `json:"dispatch_at"`
	Warning          string        `json:"warning,omitempty"`
}

func (a DeliveryAssignment) Assigned() bool {
	return a.DeliveryPersonId != nil
}

type SkippedLine struct {
	Kind   LineKind  `json:"kind"`
	ItemId uuid.UUID `json:"item_id"`
	Reason string    `json:"reason"`
}

type OrderResult struct {
	OrderId               uuid.UUID          `json:"order_id"`
	OrderNumber           string             `json:"order_number"`
	Status                tables.OrderStatus `json:"status"`
	Lines                 []PricedLine       `json:"lines"`
	Subtotal              decimal.Decimal    `json:"subtotal"`
	DiscountTotal         decimal.Decimal    `json:"discount_total"`
	Total                 decimal.Decimal    `json:"total"`
	Discounts             []DiscountEntry    `json:"discounts"`
	DeliveryPersonId      *uuid.UUID         `json:"delivery_person_id,omitempty"`
	EstimatedDelaySeconds int64              `json:"estimated_delay_seconds"`
	Warnings              []string           `json:"warnings,omitempty"`
	SkippedItems          []SkippedLine      `json:"skipped_items,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
}

// CheckoutPreview is a dry run of checkout. Nothing is written.
type CheckoutPreview struct {
	Lines        []PricedLine      `json:"lines"`
	Discounts    DiscountBreakdown `json:"discounts"`
	SkippedItems []SkippedLine     `json:"skipped_items,omitempty"`
}

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
)

type OrderEvent struct {
	Type        string             `json:"type"`
	OrderId     uuid.UUID          `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	CustomerId  uuid.UUID          `json:"customer_id"`
	Status      tables.OrderStatus `json:"status"`
	Total       decimal.Decimal    `json:"total"`
	OccurredAt  time.Time          `json:"occurred_at"`
}
