package staff

import (
	"net/http"
	"pizzeria_server/handling"
	"pizzeria_server/lib"
	"pizzeria_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (srm *StaffRoutesManager) CreateDeliveryPerson(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateDeliveryPersonRequest](r)
	if err != nil {
		handling.RespondBadBody(err, "error.delivery.invalidBody", w)
		return
	}

	person, err := srm.staffService.CreateDeliveryPerson(r.Context(), body)
	if err != nil {
		handling.RespondError(err, srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.delivery.personCreated"),
		gecho.WithData(person),
		gecho.Send(),
	)
}

func (srm *StaffRoutesManager) ListDeliveryPeople(w http.ResponseWriter, r *http.Request) {
	people, err := srm.staffService.ListDeliveryPeople(r.Context(), r.URL.Query().Get("postcode"))
	if err != nil {
		handling.RespondError(err, srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(people),
		gecho.Send(),
	)
}

func (srm *StaffRoutesManager) DeliveryHistory(w http.ResponseWriter, r *http.Request) {
	personID, ok := handling.ParseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		gecho.BadRequest(w, gecho.WithMessage("error.delivery.invalidId"), gecho.Send())
		return
	}
	page, pageSize := handling.ParsePagination(r)

	history, err := srm.staffService.DeliveryHistory(r.Context(), personID, page, pageSize)
	if err != nil {
		handling.RespondError(err, srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(history),
		gecho.Send(),
	)
}
