package services

import (
	"pizzeria_server/database"
	"pizzeria_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService    *AuthService
	EmailService   *EmailService
	EventService   *EventService
	CacheService   *CacheService
	HealthService  *HealthService
	CatalogService *CatalogService
	CartService    *CartService
	OrderService   *OrderService
	StaffService   *StaffService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, store database.Store) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	authService := NewAuthService(cfg, logger, store, cacheService)
	emailService := NewEmailService(logger, cfg)
	eventService := NewEventService(logger, cfg.Kafka)
	healthService := NewHealthService(logger, store, cacheService)
	catalogService := NewCatalogService(logger, cfg, store, cacheService)
	cartService := NewCartService(logger, cacheService, catalogService)
	orderService := NewOrderService(logger, cfg, store, eventService, emailService)
	staffService := NewStaffService(logger, store, orderService)

	return &ServiceManager{
		AuthService:    authService,
		EmailService:   emailService,
		EventService:   eventService,
		CacheService:   cacheService,
		HealthService:  healthService,
		CatalogService: catalogService,
		CartService:    cartService,
		OrderService:   orderService,
		StaffService:   staffService,
	}
}

// Close releases the connections the services hold.
func (sm *ServiceManager) Close() error {
	if err := sm.EventService.Close(); err != nil {
		return err
	}
	return sm.CacheService.Close()
}
