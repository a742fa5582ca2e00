package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Country   string             `bson:"country" json:"country"`
	FullName  string             `bson:"fullName" json:"fullName"`
	Address   string             `bson:"address" json:"address"`
	City      string             `bson:"city" json:"city"`
	PinCode   int64              `bson:"pinCode" json:"pinCode"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	IsDeleted bool               `bson:"isDeleted" json:"isDeleted"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type AddressStatus struct {
	HasAddress bool      `json:"hasAddress"`
	Addresses  []Address `json:"addresses"`
}
