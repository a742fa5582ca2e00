package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CheckoutSourceBuyNow = "buyNow"
	CheckoutSourceCart   = "cart"
)

// CheckoutSnapshot is the server-side record of what a gateway order is for.
// Verification compares against it instead of trusting the client body.
type CheckoutSnapshot struct {
	GatewayOrderID string             `json:"gatewayOrderId"`
	UserID         primitive.ObjectID `json:"userId"`
	Lines          []OrderLine        `json:"lines"`
	Amount         float64            `json:"amount"`
	AmountMinor    int64              `json:"amountMinor"`
	Currency       string             `json:"currency"`
	Source         string             `json:"source"`
	Provider       string             `json:"provider"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// GatewayOrder is what the client needs to open the payment widget.
type GatewayOrder struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Receipt      string `json:"receipt"`
	Status       string `json:"status,omitempty"`
	Provider     string `json:"provider"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

type CheckoutResult struct {
	Order          *GatewayOrder `json:"order"`
	Product        *Product      `json:"product,omitempty"`
	ProductDetails []OrderLine   `json:"productDetails,omitempty"`
	TotalPrice     float64       `json:"totalPrice"`
}
