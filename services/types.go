package services

import (
	"errors"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID converts a hex id, failing with a 400 carrying msg.
func ParseID(hex, msg string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.BadRequest(msg)
	}
	return id, nil
}

// notFoundOr maps repository.ErrNotFound to a 404 with msg and anything else
// to a 500 with internalMsg.
func notFoundOr(err error, msg, internalMsg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(msg)
	}
	return apperrors.Internal(internalMsg, err)
}
