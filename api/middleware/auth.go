package middleware

import (
	"context"
	"net/http"
	"pizzeria_server/lib"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// Context keys for storing customer data in request context
type contextKey string

const (
	ClaimsContextKey contextKey = "claims"
)

// CustomerAuthMiddleware protects routes to only signed-in customers.
// Tokens revoked by signout are rejected.
func (mw *Middleware) CustomerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.authService.AccessTokenSecret())
		if err != nil {
			mw.logger.Debug("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
			return
		}

		revoked, err := mw.authService.IsTokenRevoked(r.Context(), claims.Jti)
		if err != nil {
			mw.logger.Error("Failed to check token blacklist", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
			gecho.ServiceUnavailable(w, gecho.WithMessage("error.auth.unavailable"), gecho.Send())
			return
		}
		if revoked {
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffAuthMiddleware protects routes to only staff accounts.
// Must be used after CustomerAuthMiddleware
func (mw *Middleware) StaffAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaimsFromContext(r.Context())
		if !ok {
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidToken"), gecho.Send())
			return
		}

		if claims.Role != tables.RoleStaff {
			mw.logger.Warn("Non-staff account attempted to access staff route", gecho.Field("customer_id", claims.Sub), gecho.Field("role", claims.Role))
			gecho.Forbidden(w, gecho.WithMessage("error.auth.accessDenied"), gecho.Send())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}

// CustomerID returns the id of the signed-in customer.
func CustomerID(r *http.Request) (uuid.UUID, bool) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	return claims.Sub, true
}
