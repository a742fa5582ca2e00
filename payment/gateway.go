// Package payment talks to the hosted payment providers.
package payment

import (
	"context"
	"errors"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
)

const (
	ProviderRazorpay = "razorpay"
	ProviderStripe   = "stripe"
)

var (
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrNotCaptured       = errors.New("payment not completed")
)

type CreateOrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Gateway creates remote orders and checks proof of payment for them.
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.GatewayOrder, error)
	// VerifyPayment returns nil only when paymentID settles orderID.
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error
}
