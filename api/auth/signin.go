package auth

import (
	"net/http"
	"pizzeria_server/handling"
	"pizzeria_server/lib"
	"pizzeria_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) setSessionCookies(w http.ResponseWriter, session *structs.AuthResponse) {
	lib.SetCookie(lib.AccessCookieName, session.AccessToken, arm.authService.AccessTokenExpiration(), w)
	lib.SetCookie(lib.RefreshCookieName, session.RefreshToken, arm.authService.RefreshTokenExpiration(), w)
}

func (arm *AuthRoutesManager) HandleSignin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SigninRequest](r)
	if err != nil {
		arm.logger.Debug("Invalid signin body", gecho.Field("error", err))
		handling.RespondBadBody(err, "error.auth.invalidBody", w)
		return
	}

	session, err := arm.authService.Signin(r.Context(), body)
	if err != nil {
		handling.RespondError(err, arm.logger, w)
		return
	}

	arm.setSessionCookies(w, session)

	gecho.Success(w,
		gecho.WithMessage("success.auth.signedIn"),
		gecho.WithData(session.Customer),
		gecho.Send(),
	)
}

func (arm *AuthRoutesManager) HandleSignup(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SignupRequest](r)
	if err != nil {
		arm.logger.Debug("Invalid signup body", gecho.Field("error", err))
		handling.RespondBadBody(err, "error.auth.invalidBody", w)
		return
	}

	session, err := arm.authService.Signup(r.Context(), body)
	if err != nil {
		if lib.IsUniqueViolation(err) {
			gecho.Conflict(w, gecho.WithMessage("error.auth.emailTaken"), gecho.Send())
			return
		}
		handling.RespondError(err, arm.logger, w)
		return
	}

	arm.setSessionCookies(w, session)

	gecho.Success(w,
		gecho.WithMessage("success.auth.signedUp"),
		gecho.WithData(session.Customer),
		gecho.Send(),
	)
}
