package handling

import (
	"errors"
	"net/http"
	"pizzeria_server/lib"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
}

// RespondError writes the response for an error returned by a service.
// Anything without a kind is logged and reported as a failed transaction.
func RespondError(err error, logger *gecho.Logger, w http.ResponseWriter) {
	var validationErr *lib.ValidationError
	if errors.As(err, &validationErr) {
		gecho.BadRequest(w,
			gecho.WithMessage("error.request.invalid"),
			gecho.WithData(validationErr.Errors),
			gecho.Send(),
		)
		return
	}

	var appErr *lib.AppError
	if !errors.As(err, &appErr) {
		HandleError(err, lib.ErrTransactionFailed.Code, logger, w)
		return
	}

	switch appErr.Kind {
	case lib.KindValidation:
		if errors.Is(err, lib.ErrNotAuthenticated) {
			gecho.Unauthorized(w, gecho.WithMessage(appErr.Code), gecho.Send())
			return
		}
		gecho.BadRequest(w, gecho.WithMessage(appErr.Code), gecho.Send())
	case lib.KindAuth:
		gecho.Unauthorized(w, gecho.WithMessage(appErr.Code), gecho.Send())
	case lib.KindForbidden:
		gecho.Forbidden(w, gecho.WithMessage(appErr.Code), gecho.Send())
	case lib.KindNotFound:
		gecho.NotFound(w, gecho.WithMessage(appErr.Code), gecho.Send())
	case lib.KindBusinessRule, lib.KindConflict:
		gecho.Conflict(w, gecho.WithMessage(appErr.Code), gecho.Send())
	default:
		HandleError(err, lib.ErrTransactionFailed.Code, logger, w)
	}
}

// RespondBadBody reports a request body that failed to decode or validate.
func RespondBadBody(err error, msg string, w http.ResponseWriter) {
	var validationErr *lib.ValidationError
	if errors.As(err, &validationErr) {
		gecho.BadRequest(w, gecho.WithMessage(msg), gecho.WithData(validationErr.Errors), gecho.Send())
		return
	}
	gecho.BadRequest(w, gecho.WithMessage(msg), gecho.Send())
}
