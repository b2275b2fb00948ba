package staff

import (
	"pizzeria_server/api/middleware"
	"pizzeria_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type StaffRoutesManager struct {
	logger         *gecho.Logger
	staffService   *services.StaffService
	catalogService *services.CatalogService
	mw             *middleware.Middleware
}

func NewStaffRoutesManager(logger *gecho.Logger, staffService *services.StaffService, catalogService *services.CatalogService, mw *middleware.Middleware) *StaffRoutesManager {
	return &StaffRoutesManager{
		logger:         logger,
		staffService:   staffService,
		catalogService: catalogService,
		mw:             mw,
	}
}

func (srm *StaffRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/staff", func(r chi.Router) {
		r.Use(srm.mw.CustomerAuthMiddleware)
		r.Use(srm.mw.StaffAuthMiddleware)
		r.Use(srm.mw.CSRFMiddleware())

		r.Get("/discount-codes", srm.ListDiscountCodes)
		r.Post("/discount-codes", srm.CreateDiscountCode)

		r.Get("/delivery-people", srm.ListDeliveryPeople)
		r.Post("/delivery-people", srm.CreateDeliveryPerson)
		r.Get("/delivery-people/{id}/history", srm.DeliveryHistory)

		r.Get("/orders/undelivered", srm.ListUndeliveredOrders)
		r.Get("/orders/{id}", srm.GetOrder)
		r.Post("/orders/{id}/delivered", srm.MarkDelivered)

		r.Post("/menu/invalidate", srm.InvalidateMenu)
	})
}
