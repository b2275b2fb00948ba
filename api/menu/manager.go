package menu

import (
	"pizzeria_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type MenuRoutesManager struct {
	logger         *gecho.Logger
	catalogService *services.CatalogService
}

func NewMenuRoutesManager(logger *gecho.Logger, catalogService *services.CatalogService) *MenuRoutesManager {
	return &MenuRoutesManager{
		logger:         logger,
		catalogService: catalogService,
	}
}

func (mrm *MenuRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", mrm.GetMenu)
		r.Get("/pizzas/{id}", mrm.GetPizza)
	})
}
