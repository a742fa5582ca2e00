package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

// StripeGateway maps gateway orders onto PaymentIntents.
type StripeGateway struct {
	api        *client.API
	webhookKey string
}

func NewStripeGateway(secretKey, webhookKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookKey: webhookKey}
}

func (g *StripeGateway) Name() string { return ProviderStripe }

func (g *StripeGateway) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.GatewayOrder, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(strings.ToLower(req.Currency)),
	}
	params.Context = ctx
	params.AddMetadata("receipt", req.Receipt)
	for k, v := range req.Notes {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent create: %w", err)
	}
	return &models.GatewayOrder{
		ID:           pi.ID,
		Amount:       pi.Amount,
		Currency:     strings.ToUpper(string(pi.Currency)),
		Receipt:      req.Receipt,
		Status:       string(pi.Status),
		Provider:     ProviderStripe,
		ClientSecret: pi.ClientSecret,
	}, nil
}

// VerifyPayment asks Stripe whether the intent succeeded. Stripe has no
// client-side signature, so signature is ignored.
func (g *StripeGateway) VerifyPayment(ctx context.Context, orderID, paymentID, _ string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(orderID, params)
	if err != nil {
		return fmt.Errorf("stripe payment intent get: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return ErrNotCaptured
	}
	if paymentID != "" && pi.LatestCharge != nil && pi.LatestCharge.ID != paymentID {
		return ErrSignatureMismatch
	}
	return nil
}

// SucceededIntent is the part of a payment_intent.succeeded event the order
// flow needs.
type SucceededIntent struct {
	IntentID string
	ChargeID string
}

// ParseWebhook verifies the Stripe-Signature header. It returns nil with no
// error for event types the shop does not act on.
func (g *StripeGateway) ParseWebhook(payload []byte, sigHeader string) (*SucceededIntent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, g.webhookKey, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe webhook: %w", err)
	}
	if event.Type != stripe.EventTypePaymentIntentSucceeded {
		return nil, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("stripe webhook payload: %w", err)
	}
	out := &SucceededIntent{IntentID: pi.ID}
	if pi.LatestCharge != nil {
		out.ChargeID = pi.LatestCharge.ID
	}
	return out, nil
}
