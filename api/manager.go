package api

import (
	"pizzeria_server/api/auth"
	"pizzeria_server/api/cart"
	"pizzeria_server/api/debug"
	"pizzeria_server/api/health"
	"pizzeria_server/api/menu"
	"pizzeria_server/api/middleware"
	"pizzeria_server/api/orders"
	"pizzeria_server/api/staff"
	"pizzeria_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	healthRoutes *health.HealthRoutesManager
	authRoutes   *auth.AuthRoutesManager
	menuRoutes   *menu.MenuRoutesManager
	cartRoutes   *cart.CartRoutesManager
	orderRoutes  *orders.OrderRoutesManager
	staffRoutes  *staff.StaffRoutesManager
	debugRoutes  *debug.DebugRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		healthRoutes: health.NewHealthRoutesManager(logger, sm.HealthService),
		authRoutes:   auth.NewAuthRoutesManager(logger, sm.AuthService, mw),
		menuRoutes:   menu.NewMenuRoutesManager(logger, sm.CatalogService),
		cartRoutes:   cart.NewCartRoutesManager(logger, sm.CartService, mw),
		orderRoutes:  orders.NewOrderRoutesManager(logger, sm.CartService, sm.OrderService, mw),
		staffRoutes:  staff.NewStaffRoutesManager(logger, sm.StaffService, sm.CatalogService, mw),
		debugRoutes:  debug.NewDebugRoutesManager(logger, sm.CacheService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.menuRoutes.RegisterRoutes(r)
	rm.cartRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
	rm.staffRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
