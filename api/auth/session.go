package auth

import (
	"net/http"
	"pizzeria_server/api/middleware"
	"pizzeria_server/handling"
	"pizzeria_server/lib"
	"time"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := lib.GetCookieValue(lib.RefreshCookieName, r)
	if err != nil {
		gecho.Unauthorized(w, gecho.WithMessage("error.auth.refreshMissing"), gecho.Send())
		return
	}

	session, err := arm.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		arm.logger.Debug("Failed to refresh session", gecho.Field("error", err))
		handling.RespondError(err, arm.logger, w)
		return
	}

	arm.setSessionCookies(w, session)

	gecho.Success(w,
		gecho.WithMessage("success.auth.refreshed"),
		gecho.WithData(session.Customer),
		gecho.Send(),
	)
}

func (arm *AuthRoutesManager) HandleSignout(w http.ResponseWriter, r *http.Request) {
	accessToken, _ := lib.GetCookieValue(lib.AccessCookieName, r)
	refreshToken, _ := lib.GetCookieValue(lib.RefreshCookieName, r)
	arm.authService.Signout(r.Context(), accessToken, refreshToken)

	lib.ClearCookie(lib.AccessCookieName, w)
	lib.ClearCookie(lib.RefreshCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("success.auth.signedOut"),
		gecho.Send(),
	)
}

func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)

	customer, err := arm.authService.GetCustomerByID(r.Context(), customerID)
	if err != nil {
		handling.RespondError(err, arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(customer),
		gecho.Send(),
	)
}

// HandleCSRF issues a CSRF token in a JS-readable cookie and in the body.
func (arm *AuthRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := lib.GenerateRandomToken()
	if err != nil {
		handling.HandleError(err, "error.csrf.generateFailed", arm.logger, w)
		return
	}

	lib.SetCSRFCookie(token, time.Now().Add(24*time.Hour), w)

	gecho.Success(w,
		gecho.WithData(map[string]string{
			"csrf_token": token,
		}),
		gecho.Send(),
	)
}
