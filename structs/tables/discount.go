package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type DiscountCode struct {
	bun.BaseModel `bun:"table:discount_codes,alias:dc"`
	Code          string              `json:"code" bun:"code,pk"`
	Description   string              `json:"description" bun:"description,notnull"`
	PercentOff    decimal.NullDecimal `json:"percent_off" bun:"percent_off,type:numeric(5,2)"`
	AmountOff     decimal.NullDecimal `json:"amount_off" bun:"amount_off,type:numeric(10,2)"`
	SingleUse     bool                `json:"single_use" bun:"single_use,notnull,default:true"`
	IsActive      bool                `json:"is_active" bun:"is_active,notnull,default:true"`
	ExpiresAt     *time.Time          `json:"expires_at,omitempty" bun:"expires_at,nullzero"`
	CreatedAt     time.Time           `json:"created_at" bun:"created_at,notnull,default:current_timestamp"`
}

// UsedDiscountCode records a single-use code redemption. The composite primary
// key makes a second redemption by the same customer fail at the storage level.
type UsedDiscountCode struct {
	bun.BaseModel `bun:"table:used_discount_codes,alias:udc"`
	CustomerId    uuid.UUID `json:"customer_id" bun:"customer_id,pk,type:uuid"`
	Code          string    `json:"code" bun:"code,pk"`
	OrderId       uuid.UUID `json:"order_id" bun:"order_id,notnull,type:uuid"`
	UsedAt        time.Time `json:"used_at" bun:"used_at,notnull,default:current_timestamp"`
}
