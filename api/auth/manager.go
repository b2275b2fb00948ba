package auth

import (
	"pizzeria_server/api/middleware"
	"pizzeria_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(logger *gecho.Logger, authService *services.AuthService, mw *middleware.Middleware) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		mw:          mw,
	}
}

func (arm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", arm.HandleSignup)
		r.Post("/signin", arm.HandleSignin)
		r.Post("/refresh", arm.HandleRefresh)
		r.Post("/signout", arm.HandleSignout)
		r.Get("/csrf", arm.HandleCSRF)

		r.Group(func(r chi.Router) {
			r.Use(arm.mw.CustomerAuthMiddleware)
			r.Get("/me", arm.HandleMe)
		})
	})
}
