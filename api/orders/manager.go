package orders

import (
	"pizzeria_server/api/middleware"
	"pizzeria_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	cartService  *services.CartService
	orderService *services.OrderService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(logger *gecho.Logger, cartService *services.CartService, orderService *services.OrderService, mw *middleware.Middleware) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		cartService:  cartService,
		orderService: orderService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(orm.mw.CustomerAuthMiddleware)
		r.Use(orm.mw.CSRFMiddleware())

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", orm.Checkout)
			r.Post("/preview", orm.PreviewCheckout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orm.ListMyOrders)
			r.Get("/loyalty", orm.GetLoyalty)
			r.Get("/{id}", orm.GetOrder)
			r.Get("/{id}/status", orm.GetOrderStatus)
			r.Get("/{id}/qrcode", orm.GetTrackingQRCode)
			r.Post("/{id}/cancel", orm.CancelOrder)
		})
	})
}
