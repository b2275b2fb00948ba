package cart

import (
	"net/http"
	"pizzeria_server/api/middleware"
	"pizzeria_server/handling"
	"pizzeria_server/lib"
	"pizzeria_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// cartView adds the display totals to the stored cart.
type cartView struct {
	*structs.Cart
	ItemCount int    `json:"item_count"`
	HintTotal string `json:"hint_total"`
}

func (crm *CartRoutesManager) respondCart(w http.ResponseWriter, cart *structs.Cart) {
	gecho.Success(w,
		gecho.WithData(cartView{
			Cart:      cart,
			ItemCount: cart.ItemCount(),
			HintTotal: cart.HintTotal().StringFixed(2),
		}),
		gecho.Send(),
	)
}

func (crm *CartRoutesManager) GetCart(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)

	cart, err := crm.cartService.GetCart(r.Context(), customerID)
	if err != nil {
		handling.RespondError(err, crm.logger, w)
		return
	}
	crm.respondCart(w, cart)
}

func (crm *CartRoutesManager) AddItem(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)

	body, err := lib.ExtractAndValidateBody[structs.AddCartLineRequest](r)
	if err != nil {
		handling.RespondBadBody(err, "error.cart.invalidBody", w)
		return
	}

	line := structs.CartLine{
		Kind:     structs.LineKind(body.Kind),
		ItemId:   uuid.MustParse(body.ItemId),
		Quantity: body.Quantity,
	}

	cart, err := crm.cartService.AddLine(r.Context(), customerID, line)
	if err != nil {
		handling.RespondError(err, crm.logger, w)
		return
	}
	crm.respondCart(w, cart)
}

func (crm *CartRoutesManager) UpdateItem(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)

	index, ok := handling.ParseIndexParam(chi.URLParam(r, "index"))
	if !ok {
		gecho.BadRequest(w, gecho.WithMessage("error.cart.invalidIndex"), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateCartLineRequest](r)
	if err != nil {
		handling.RespondBadBody(err, "error.cart.invalidBody", w)
		return
	}

	cart, err := crm.cartService.UpdateLine(r.Context(), customerID, index, body.Quantity)
	if err != nil {
		handling.RespondError(err, crm.logger, w)
		return
	}
	crm.respondCart(w, cart)
}

func (crm *CartRoutesManager) RemoveItem(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)

	index, ok := handling.ParseIndexParam(chi.URLParam(r, "index"))
	if !ok {
		gecho.BadRequest(w, gecho.WithMessage("error.cart.invalidIndex"), gecho.Send())
		return
	}

	cart, err := crm.cartService.RemoveLine(r.Context(), customerID, index)
	if err != nil {
		handling.RespondError(err, crm.logger, w)
		return
	}
	crm.respondCart(w, cart)
}

func (crm *CartRoutesManager) ClearCart(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)

	if err := crm.cartService.Clear(r.Context(), customerID); err != nil {
		handling.RespondError(err, crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cart.cleared"),
		gecho.Send(),
	)
}
