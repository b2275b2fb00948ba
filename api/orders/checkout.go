package orders

import (
	"errors"
	"io"
	"net/http"
	"pizzeria_server/api/middleware"
	"pizzeria_server/handling"
	"pizzeria_server/lib"
	"pizzeria_server/structs"

	"github.com/MonkyMars/gecho"
)

// checkoutBody reads the optional checkout body. An empty body means no code.
func checkoutBody(r *http.Request) (*structs.CheckoutRequest, error) {
	body, err := lib.ExtractAndValidateBody[structs.CheckoutRequest](r)
	if errors.Is(err, io.EOF) {
		return &structs.CheckoutRequest{}, nil
	}
	return body, err
}

// Checkout places an order from the customer's stored cart. The cart is
// cleared once the order is committed.
func (orm *OrderRoutesManager) Checkout(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)

	body, err := checkoutBody(r)
	if err != nil {
		handling.RespondBadBody(err, "error.order.invalidRequestBody", w)
		return
	}

	cart, err := orm.cartService.GetCart(r.Context(), customerID)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	result, err := orm.orderService.PlaceOrder(r.Context(), *cart, &customerID, body.DiscountCode)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	if err := orm.cartService.Clear(r.Context(), customerID); err != nil {
		orm.logger.Warn("Failed to clear cart after checkout",
			gecho.Field("error", err),
			gecho.Field("customer_id", customerID),
			gecho.Field("order_id", result.OrderId),
		)
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.created"),
		gecho.WithData(result),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) PreviewCheckout(w http.ResponseWriter, r *http.Request) {
	customerID, _ := middleware.CustomerID(r)

	body, err := checkoutBody(r)
	if err != nil {
		handling.RespondBadBody(err, "error.order.invalidRequestBody", w)
		return
	}

	cart, err := orm.cartService.GetCart(r.Context(), customerID)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	preview, err := orm.orderService.PreviewCheckout(r.Context(), *cart, &customerID, body.DiscountCode)
	if err != nil {
		handling.RespondError(err, orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(preview),
		gecho.Send(),
	)
}
