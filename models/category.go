package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryActive   = "active"
	CategoryInactive = "inactive"
)

type Category struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name           string              `bson:"name" json:"name"`
	Slug           string              `bson:"slug" json:"slug"`
	Description    string              `bson:"description" json:"description"`
	ParentCategory *primitive.ObjectID `bson:"parentCategory" json:"parentCategory"`
	IsActive       string              `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// CategoryView is a category with its parent's name resolved.
type CategoryView struct {
	Category
	ParentName string `json:"parentCategoryName,omitempty"`
}

func ValidCategoryStatus(s string) bool {
	return s == CategoryActive || s == CategoryInactive
}
