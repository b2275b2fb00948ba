package cart

import (
	"pizzeria_server/api/middleware"
	"pizzeria_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CartRoutesManager struct {
	logger      *gecho.Logger
	cartService *services.CartService
	mw          *middleware.Middleware
}

func NewCartRoutesManager(logger *gecho.Logger, cartService *services.CartService, mw *middleware.Middleware) *CartRoutesManager {
	return &CartRoutesManager{
		logger:      logger,
		cartService: cartService,
		mw:          mw,
	}
}

func (crm *CartRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(crm.mw.CustomerAuthMiddleware)
		r.Use(crm.mw.CSRFMiddleware())

		r.Get("/", crm.GetCart)
		r.Delete("/", crm.ClearCart)
		r.Post("/items", crm.AddItem)
		r.Patch("/items/{index}", crm.UpdateItem)
		r.Delete("/items/{index}", crm.RemoveItem)
	})
}
