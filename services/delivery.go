package services

import (
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"time"
)

const warningNoDriver = "no delivery person available for postcode"

// PickDeliveryPerson chooses the driver who can leave soonest. candidates
// must already be filtered on postcode. A driver still in cooldown is
// assigned anyway; the remaining cooldown becomes the order's delay and the
// driver's stamp moves to the moment they leave, so later orders queue behind.
// The chosen driver is updated in place.
func PickDeliveryPerson(candidates []tables.DeliveryPerson, now time.Time, cooldown time.Duration) (*tables.DeliveryPerson, structs.DeliveryAssignment) {
	if len(candidates) == 0 {
		return nil, structs.DeliveryAssignment{DispatchAt: now, Warning: warningNoDriver}
	}

	best := &candidates[0]
	for i := 1; i < len(candidates); i++ {
		if candidates[i].AvailableAt(cooldown).Before(best.AvailableAt(cooldown)) {
			best = &candidates[i]
		}
	}

	dispatchAt := now
	if availableAt := best.AvailableAt(cooldown); availableAt.After(now) {
		dispatchAt = availableAt
	}
	stamp := dispatchAt
	best.LastDeliveryAt = &stamp

	id := best.Id
	return best, structs.DeliveryAssignment{
		DeliveryPersonId: &id,
		DeliveryPerson:   best.FullName,
		Delay:            dispatchAt.Sub(now),
		DispatchAt:       dispatchAt,
	}
}
