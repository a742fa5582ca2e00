package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const OrderStatusPaid = "Paid"

type OrderLine struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Price     float64            `bson:"price,omitempty" json:"price,omitempty"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Subtotal  float64            `bson:"subtotal,omitempty" json:"subtotal,omitempty"`
}

// Order is written once, after the payment proof checks out.
type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Products          []OrderLine        `bson:"products" json:"products"`
	Amount            float64            `bson:"amount" json:"amount"`
	Currency          string             `bson:"currency" json:"currency"`
	Provider          string             `bson:"provider" json:"provider"`
	RazorpayOrderID   string             `bson:"razorpay_order_id" json:"razorpay_order_id"`
	RazorpayPaymentID string             `bson:"razorpay_payment_id" json:"razorpay_payment_id"`
	RazorpaySignature string             `bson:"razorpay_signature" json:"razorpay_signature"`
	Status            string             `bson:"status" json:"status"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderView is an order with user and product references populated.
type OrderView struct {
	ID                primitive.ObjectID `json:"_id"`
	User              *UserSummary       `json:"userId"`
	Products          []OrderLineView    `json:"products"`
	Amount            float64            `json:"amount"`
	Currency          string             `json:"currency"`
	RazorpayOrderID   string             `json:"razorpay_order_id"`
	RazorpayPaymentID string             `json:"razorpay_payment_id"`
	Status            string             `json:"status"`
	CreatedAt         time.Time          `json:"createdAt"`
}

type OrderLineView struct {
	Product  *ProductSummary `json:"productId"`
	Quantity int             `json:"quantity"`
}
