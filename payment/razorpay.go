package payment

import (
	"context"
	"fmt"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	razorpay "github.com/razorpay/razorpay-go"
)

// OrderCreator is the part of the Razorpay SDK used here.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type RazorpayGateway struct {
	orders OrderCreator
	secret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayGateway{orders: client.Order, secret: keySecret}
}

// NewRazorpayGatewayWithClient is used by tests.
func NewRazorpayGatewayWithClient(orders OrderCreator, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{orders: orders, secret: keySecret}
}

func (g *RazorpayGateway) Name() string { return ProviderRazorpay }

// CreateOrder does not honour ctx cancellation; the SDK has no context
// support.
func (g *RazorpayGateway) CreateOrder(_ context.Context, req CreateOrderRequest) (*models.GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	body, err := g.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order create: response has no id")
	}

	order := &models.GatewayOrder{
		ID:       id,
		Amount:   req.AmountMinor,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Provider: ProviderRazorpay,
	}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok && currency != "" {
		order.Currency = currency
	}
	if status, ok := body["status"].(string); ok {
		order.Status = status
	}
	return order, nil
}

func (g *RazorpayGateway) VerifyPayment(_ context.Context, orderID, paymentID, signature string) error {
	if !VerifySignature(orderID, paymentID, signature, g.secret) {
		return ErrSignatureMismatch
	}
	return nil
}
