package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Order struct {
	// Table Name and identifiers
	bun.BaseModel `bun:"table:orders,alias:o"`
	Id            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderNumber   string    `bun:"order_number,notnull,unique" json:"order_number"`
	CustomerId    uuid.UUID `bun:"customer_id,notnull,type:uuid" json:"customer_id"`

	// Snapshot of the delivery postcode at checkout
	Postcode string `bun:"postcode,notnull" json:"postcode"`

	// Money
	Subtotal       decimal.Decimal `bun:"subtotal,type:numeric(10,2),notnull" json:"subtotal"`
	DiscountAmount decimal.Decimal `bun:"discount_amount,type:numeric(10,2),notnull" json:"discount_amount"`
	TotalAmount    decimal.Decimal `bun:"total_amount,type:numeric(10,2),notnull" json:"total_amount"`
	DiscountCode   *string         `bun:"discount_code" json:"discount_code,omitempty"`

	// Delivery
	DeliveryPersonId *uuid.UUID `bun:"delivery_person_id,type:uuid" json:"delivery_person_id,omitempty"`
	EstimatedDelay   int64      `bun:"estimated_delay_seconds,notnull,default:0" json:"estimated_delay_seconds"`

	// Order Data
	Status      OrderStatus `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt   time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time   `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	DeliveredAt *time.Time  `bun:"delivered_at,nullzero" json:"delivered_at,omitempty"`
	CancelledAt *time.Time  `bun:"cancelled_at,nullzero" json:"cancelled_at,omitempty"`

	Pizzas    []*OrderPizza    `bun:"rel:has-many,join:id=order_id" json:"pizzas,omitempty"`
	Products  []*OrderProduct  `bun:"rel:has-many,join:id=order_id" json:"products,omitempty"`
	Discounts []*OrderDiscount `bun:"rel:has-many,join:id=order_id" json:"discounts,omitempty"`
}

type OrderPizza struct {
	bun.BaseModel `bun:"table:order_pizzas,alias:op"`
	Id            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderId       uuid.UUID `bun:"order_id,notnull,type:uuid" json:"order_id"`
	PizzaId       uuid.UUID `bun:"pizza_id,notnull,type:uuid" json:"pizza_id"`
	Quantity      int       `bun:"quantity,notnull" json:"quantity"`

	// Snapshot of pricing at time of order
	UnitPrice decimal.Decimal `bun:"unit_price,type:numeric(10,2),notnull" json:"unit_price"`
	LineTotal decimal.Decimal `bun:"line_total,type:numeric(10,2),notnull" json:"line_total"`
	Name      string          `bun:"name_snapshot,notnull" json:"name"`
}

type OrderProduct struct {
	bun.BaseModel `bun:"table:order_products,alias:opr"`
	Id            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderId       uuid.UUID `bun:"order_id,notnull,type:uuid" json:"order_id"`
	ProductId     uuid.UUID `bun:"product_id,notnull,type:uuid" json:"product_id"`
	Quantity      int       `bun:"quantity,notnull" json:"quantity"`

	UnitPrice decimal.Decimal `bun:"unit_price,type:numeric(10,2),notnull" json:"unit_price"`
	LineTotal decimal.Decimal `bun:"line_total,type:numeric(10,2),notnull" json:"line_total"`
	Name      string          `bun:"name_snapshot,notnull" json:"name"`
	Category  string          `bun:"category_snapshot,notnull" json:"category"`
}

type DiscountKind string

const (
	DiscountBirthday DiscountKind = "birthday"
	DiscountLoyalty  DiscountKind = "loyalty"
	DiscountCodeKind DiscountKind = "code"
)

type OrderDiscount struct {
	bun.BaseModel `bun:"table:order_discounts,alias:od"`
	Id            uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderId       uuid.UUID       `bun:"order_id,notnull,type:uuid" json:"order_id"`
	CustomerId    uuid.UUID       `bun:"customer_id,notnull,type:uuid" json:"customer_id"`
	Kind          DiscountKind    `bun:"kind,notnull" json:"kind"`
	Description   string          `bun:"description,notnull" json:"description"`
	Amount        decimal.Decimal `bun:"amount,type:numeric(10,2),notnull" json:"amount"`
	CreatedAt     time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Undelivered reports whether the order still waits on the kitchen or a driver.
func (s OrderStatus) Undelivered() bool {
	return s == OrderStatusPending || s == OrderStatusPreparing
}
