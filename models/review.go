package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinStars = 1
	MaxStars = 5
)

type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Product     primitive.ObjectID `bson:"product" json:"product"`
	Stars       int                `bson:"stars" json:"stars"`
	ReviewTitle string             `bson:"reviewTitle" json:"reviewTitle"`
	Review      string             `bson:"review" json:"review"`
	Recommended bool               `bson:"recommended" json:"recommended"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ReviewView carries the author's public fields.
type ReviewView struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	User        *UserSummary       `bson:"user" json:"user"`
	Product     primitive.ObjectID `bson:"product" json:"product"`
	Stars       int                `bson:"stars" json:"stars"`
	ReviewTitle string             `bson:"reviewTitle" json:"reviewTitle"`
	Review      string             `bson:"review" json:"review"`
	Recommended bool               `bson:"recommended" json:"recommended"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type ProductReviews struct {
	TotalReviews int          `json:"totalReviews"`
	Reviews      []ReviewView `json:"reviews"`
}
