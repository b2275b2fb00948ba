package staff

import (
	"net/http"
	"pizzeria_server/handling"
	"pizzeria_server/lib"
	"pizzeria_server/structs"

	"github.com/MonkyMars/gecho"
)

func (srm *StaffRoutesManager) CreateDiscountCode(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateDiscountCodeRequest](r)
	if err != nil {
		handling.RespondBadBody(err, "error.discount.invalidBody", w)
		return
	}

	code, err := srm.staffService.CreateDiscountCode(r.Context(), body)
	if err != nil {
		handling.RespondError(err, srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.discount.created"),
		gecho.WithData(code),
		gecho.Send(),
	)
}

func (srm *StaffRoutesManager) ListDiscountCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := srm.staffService.ListDiscountCodes(r.Context())
	if err != nil {
		handling.RespondError(err, srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(codes),
		gecho.Send(),
	)
}

// InvalidateMenu drops the cached menu after catalog changes made directly in the database.
func (srm *StaffRoutesManager) InvalidateMenu(w http.ResponseWriter, r *http.Request) {
	if err := srm.catalogService.InvalidateMenu(r.Context()); err != nil {
		handling.HandleError(err, "error.cache.clearFailed", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.menu.invalidated"),
		gecho.Send(),
	)
}
