package menu

import (
	"net/http"
	"pizzeria_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (mrm *MenuRoutesManager) GetMenu(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseMenuOptions(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.menu.invalidQuery"),
			gecho.Send(),
		)
		return
	}

	menu, err := mrm.catalogService.GetMenu(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "error.menu.fetchFailed", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(menu),
		gecho.Send(),
	)
}

// GetPizza returns an active pizza with its computed price and ingredients.
func (mrm *MenuRoutesManager) GetPizza(w http.ResponseWriter, r *http.Request) {
	id, ok := handling.ParseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		gecho.BadRequest(w, gecho.WithMessage("error.menu.invalidId"), gecho.Send())
		return
	}

	pizza, active, err := mrm.catalogService.GetPizza(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "error.menu.fetchFailed", mrm.logger, w)
		return
	}
	if pizza == nil || !active {
		gecho.NotFound(w, gecho.WithMessage("error.menu.pizzaNotFound"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(pizza),
		gecho.Send(),
	)
}
