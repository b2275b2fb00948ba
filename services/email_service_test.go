package services

import (
	"context"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderConfirmationBody(t *testing.T) {
	driver := uuid.New()
	result := &structs.OrderResult{
		OrderNumber: "PZ-ABC234",
		Lines: []structs.PricedLine{
			{Name: "Margherita", Quantity: 1, LineTotal: dec("8.99")},
			{Name: "Coke", Quantity: 2, LineTotal: dec("3.00")},
		},
		Discounts:             []structs.DiscountEntry{{Kind: tables.DiscountCodeKind, Description: "Code WELCOME10: <b>10%</b>", Amount: dec("1.20")}},
		Subtotal:              dec("11.99"),
		Total:                 dec("10.79"),
		DeliveryPersonId:      &driver,
		EstimatedDelaySeconds: 1200,
	}

	body := OrderConfirmationBody("Mario & Co", result, "https://pizza.example/orders/1")

	assert.Contains(t, body, "Mario &amp; Co")
	assert.Contains(t, body, "PZ-ABC234")
	assert.Contains(t, body, "2x Coke - €3.00")
	assert.Contains(t, body, "&lt;b&gt;10%&lt;/b&gt;")
	assert.Contains(t, body, "Total: €10.79")
	assert.Contains(t, body, "extra 20 minutes")
	assert.Contains(t, body, "https://pizza.example/orders/1")
}

func TestOrderConfirmationBody_NoDriver(t *testing.T) {
	body := OrderConfirmationBody("Mario", &structs.OrderResult{Subtotal: dec("1"), Total: dec("1")}, "link")
	assert.Contains(t, body, "looking for a driver")
}

func TestEmailService_DisabledWithoutApiKey(t *testing.T) {
	cfg := testConfig()
	cfg.Email = &structs.EmailConfig{}
	es := NewEmailService(gecho.NewDefaultLogger(), cfg)

	assert.False(t, es.Enabled())
	err := es.SendOrderConfirmation(context.Background(), &tables.Customer{Email: "mario@example.com"}, &structs.OrderResult{OrderId: uuid.New()})
	assert.NoError(t, err)
}
