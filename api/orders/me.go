package orders

import (
	"net/http"
	"pizzeria_server/api/middleware"
	"pizzeria_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (orm *OrderRoutesManager) orderParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, ok := handling.ParseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		gecho.BadRequest(w, gecho.WithMessage("error.order.invalidId"), gecho.Send())
	}
	return orderID, ok
}

func (orm *OrderRoutesManager) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)
	page, pageSize := handling.ParsePagination(r)

	orders, err := orm.orderService.GetOrdersByCustomer(r.Context(), customerID, page, pageSize)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(orders),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) GetOrder(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)
	orderID, ok := orm.orderParam(w, r)
	if !ok {
		return
	}

	order, err := orm.orderService.GetOrderDetails(r.Context(), orderID, &customerID)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(order),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)
	orderID, ok := orm.orderParam(w, r)
	if !ok {
		return
	}

	status, err := orm.orderService.GetOrderStatus(r.Context(), orderID, customerID)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"order_id": orderID,
			"status":   status,
		}),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) CancelOrder(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)
	orderID, ok := orm.orderParam(w, r)
	if !ok {
		return
	}

	order, err := orm.orderService.CancelOrder(r.Context(), orderID, customerID)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.cancelled"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// GetTrackingQRCode serves the order tracking link as a PNG.
func (orm *OrderRoutesManager) GetTrackingQRCode(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)
	orderID, ok := orm.orderParam(w, r)
	if !ok {
		return
	}

	png, err := orm.orderService.TrackingQRCode(r.Context(), orderID, customerID)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		orm.logger.Warn("Failed to write QR code", gecho.Field("error", err), gecho.Field("order_id", orderID))
	}
}

func (orm *OrderRoutesManager) GetLoyalty(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)

	stats, err := orm.orderService.LoyaltyStats(r.Context(), customerID)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(stats),
		gecho.Send(),
	)
}
