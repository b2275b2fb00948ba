package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type DeliveryPerson struct {
	bun.BaseModel  `bun:"table:delivery_people,alias:dp"`
	Id             uuid.UUID  `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	FullName       string     `json:"full_name" bun:"full_name,notnull"`
	Phone          string     `json:"phone" bun:"phone,unique,notnull"`
	Postcode       string     `json:"postcode" bun:"postcode,notnull"`
	LastDeliveryAt *time.Time `json:"last_delivery_at,omitempty" bun:"last_delivery_at,nullzero"`
}

// AvailableAt reports when the driver is free to leave with a new order.
// A driver who never delivered is available immediately.
func (d *DeliveryPerson) AvailableAt(cooldown time.Duration) time.Time {
	if d.LastDeliveryAt == nil {
		return time.Time{}
	}
	return d.LastDeliveryAt.Add(cooldown)
}
