package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultWishListName = "favorites"

type WishListItem struct {
	Product primitive.ObjectID `bson:"product" json:"product"`
	AddedAt time.Time          `bson:"addedAt" json:"addedAt"`
}

// WishList is keyed by (UserID, Name).
type WishList struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Products  []WishListItem     `bson:"products" json:"products"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (w *WishList) Contains(productID primitive.ObjectID) bool {
	for _, p := range w.Products {
		if p.Product == productID {
			return true
		}
	}
	return false
}

type WishListItemView struct {
	Product *ProductSummary `json:"product"`
	AddedAt time.Time       `json:"addedAt"`
}

// WishListView is a wishlist with its products populated. Products that no
// longer exist are left out.
type WishListView struct {
	ID        primitive.ObjectID `json:"_id"`
	Name      string             `json:"name"`
	UserID    primitive.ObjectID `json:"userId"`
	Products  []WishListItemView `json:"products"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
