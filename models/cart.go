package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart is at most one per user. Version guards concurrent writers.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Items      []CartItem         `bson:"items" json:"items"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	Version    int64              `bson:"version" json:"-"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Find returns the index of productID in the cart or -1.
func (c *Cart) Find(productID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.Product == productID {
			return i
		}
	}
	return -1
}

// CartLineView is a cart line with its product populated.
type CartLineView struct {
	Product  ProductSummary `json:"product"`
	Quantity int            `json:"quantity"`
}

type CartView struct {
	ID         primitive.ObjectID `json:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId,omitempty"`
	Items      []CartLineView     `json:"items"`
	TotalPrice float64            `json:"totalPrice"`
	CreatedAt  *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time         `json:"updatedAt,omitempty"`
}

// EmptyCartView is returned when the user has no cart.
func EmptyCartView() *CartView {
	return &CartView{Items: []CartLineView{}, TotalPrice: 0}
}
