package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. Password and RefreshToken never leave the server.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserName      string               `bson:"userName" json:"userName"`
	Email         string               `bson:"email" json:"email"`
	Phone         int64                `bson:"phone" json:"phone"`
	Password      string               `bson:"password" json:"-"`
	Role          string               `bson:"role" json:"role"`
	Addresses     []primitive.ObjectID `bson:"Address" json:"Address"`
	ReferralCode  string               `bson:"referralCode" json:"referralCode"`
	ReferredBy    *primitive.ObjectID  `bson:"referredBy,omitempty" json:"referredBy,omitempty"`
	ReferredUsers []primitive.ObjectID `bson:"referredUsers" json:"referredUsers"`
	RefreshToken  string               `bson:"refreshToken,omitempty" json:"-"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ReferredUser is the public view of an account someone referred.
type ReferredUser struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	UserName  string             `bson:"userName" json:"userName"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"createdAt" json:"joinedAt"`
}

// UserSummary is what populated user references expose.
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	UserName string             `bson:"userName" json:"userName"`
	Email    string             `bson:"email" json:"email"`
}
