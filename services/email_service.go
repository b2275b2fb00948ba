package services

import (
	"context"
	"fmt"
	"html"
	"pizzeria_server/structs"
	"pizzeria_server/structs/tables"
	"strings"
	"sync"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	es := &EmailService{
		logger: logger,
		cfg:    cfg,
	}
	if cfg.Email.ApiKey != "" {
		es.client = getEmailClient(cfg.Email.ApiKey)
	}
	return es
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

// Enabled reports whether an API key was configured.
func (es *EmailService) Enabled() bool {
	return es.client != nil
}

func (es *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	if !es.Enabled() {
		es.logger.Debug("Email disabled, not sending", gecho.Field("to", to), gecho.Field("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	_, err := es.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// SendOrderConfirmation mails the customer a summary of a committed order.
func (es *EmailService) SendOrderConfirmation(ctx context.Context, customer *tables.Customer, result *structs.OrderResult) error {
	trackingLink := fmt.Sprintf(es.cfg.Order.TrackingURL, result.OrderId)
	body := OrderConfirmationBody(customer.FirstName, result, trackingLink)
	subject := fmt.Sprintf("Order confirmation %s", result.OrderNumber)

	return es.SendEmail(ctx, []string{customer.Email}, subject, body)
}

// OrderConfirmationBody renders the confirmation email.
func OrderConfirmationBody(name string, result *structs.OrderResult, trackingLink string) string {
	var items strings.Builder
	for _, line := range result.Lines {
		fmt.Fprintf(&items, "<li>%dx %s - €%s</li>", line.Quantity, html.EscapeString(line.Name), line.LineTotal.StringFixed(2))
	}

	var discounts strings.Builder
	for _, entry := range result.Discounts {
		fmt.Fprintf(&discounts, "<li>%s - €%s</li>", html.EscapeString(entry.Description), entry.Amount.StringFixed(2))
	}

	delivery := "We are looking for a driver for your order. We will let you know when it is on its way."
	if result.DeliveryPersonId != nil {
		delivery = "Your pizza is being prepared."
		if result.EstimatedDelaySeconds > 0 {
			delivery += fmt.Sprintf(" Our drivers are busy, expect an extra %d minutes.", (result.EstimatedDelaySeconds+59)/60)
		}
	}

	return fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #C0392B; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				ul { list-style-type: none; padding: 0; }
				li { padding: 5px 0; border-bottom: 1px solid #eee; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>Thanks for your order, %s!</h1>
				</div>
				<div class="content">
					<p>Order number: <strong>%s</strong></p>
					<ul>%s</ul>
					<p>Subtotal: €%s</p>
					<ul>%s</ul>
					<p><strong>Total: €%s</strong></p>
					<p>%s</p>
					<p><a href="%s">Track your order</a></p>
				</div>
			</div>
		</body>
		</html>
	`, html.EscapeString(name), result.OrderNumber, items.String(), result.Subtotal.StringFixed(2),
		discounts.String(), result.Total.StringFixed(2), delivery, trackingLink)
}
