package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateDiscountCodeRequest struct {
	Code        string           `json:"code" validate:"omitempty,min=3,max=50,alphanum"`
	Prefix      string           `json:"prefix" validate:"omitempty,max=12,alphanum"` // used to generate Code when it is empty
	Description string           `json:"description" validate:"required,max=255"`
	PercentOff  *decimal.Decimal `json:"percent_off"`
	AmountOff   *decimal.Decimal `json:"amount_off"`
	SingleUse   *bool            `json:"single_use"`
	ExpiresAt   *time.Time       `json:"expires_at"`
}

type CreateDeliveryPersonRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,min=6,max=20"`
	Postcode string `json:"postcode" validate:"required,len=5,numeric"`
}
