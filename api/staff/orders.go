package staff

import (
	"net/http"
	"pizzeria_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (srm *StaffRoutesManager) ListUndeliveredOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := srm.staffService.ListUndeliveredOrders(r.Context())
	if err != nil {
		handling.RespondError(err, srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(orders),
		gecho.Send(),
	)
}

func (srm *StaffRoutesManager) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := handling.ParseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		gecho.BadRequest(w, gecho.WithMessage("error.order.invalidId"), gecho.Send())
		return
	}

	order, err := srm.staffService.GetOrder(r.Context(), orderID)
	if err != nil {
		handling.RespondError(err, srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(order),
		gecho.Send(),
	)
}

func (srm *StaffRoutesManager) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	orderID, ok := handling.ParseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		gecho.BadRequest(w, gecho.WithMessage("error.order.invalidId"), gecho.Send())
		return
	}

	order, err := srm.staffService.MarkDelivered(r.Context(), orderID)
	if err != nil {
		handling.RespondError(err, srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.delivered"),
		gecho.WithData(order),
		gecho.Send(),
	)
}
