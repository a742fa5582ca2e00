package services

import (
	"context"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AddressRequest struct {
	FullName string `json:"fullName"`
	Country  string `json:"country"`
	Address  string `json:"address"`
	City     string `json:"city"`
	PinCode  int64  `json:"pinCode"`
}

type AddressService struct {
	addresses repository.AddressRepo
	users     repository.UserRepo
}

func NewAddressService(addresses repository.AddressRepo, users repository.UserRepo) *AddressService {
	return &AddressService{addresses: addresses, users: users}
}

func (s *AddressService) Add(ctx context.Context, userID primitive.ObjectID, req AddressRequest) (*models.Address, error) {
	fields := []string{req.FullName, req.Country, req.Address, req.City}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return nil, apperrors.BadRequest("All fields are required")
		}
	}
	if req.PinCode == 0 {
		return nil, apperrors.BadRequest("pinCode required")
	}

	address := &models.Address{
		FullName: strings.TrimSpace(req.FullName),
		Country:  strings.TrimSpace(req.Country),
		Address:  strings.TrimSpace(req.Address),
		City:     strings.TrimSpace(req.City),
		PinCode:  req.PinCode,
		User:     userID,
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, apperrors.Internal("Something went wrong while adding address", err)
	}
	if err := s.users.AddAddress(ctx, userID, address.ID); err != nil {
		return nil, notFoundOr(err, "User Not Found", "Something went wrong while adding address")
	}
	return address, nil
}

func (s *AddressService) List(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	addresses, err := s.addresses.FindByUser(ctx, userID, false)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch addresses", err)
	}
	return addresses, nil
}

func (s *AddressService) Get(ctx context.Context, userID primitive.ObjectID, addressID string) (*models.Address, error) {
	id, err := ParseID(addressID, "Invalid Address ID")
	if err != nil {
		return nil, err
	}
	address, err := s.addresses.FindOwned(ctx, id, userID)
	if err != nil {
		return nil, notFoundOr(err, "Address not found", "failed to fetch address")
	}
	return address, nil
}

// Edit updates the non-empty fields of req on a live address.
func (s *AddressService) Edit(ctx context.Context, userID primitive.ObjectID, addressID string, req AddressRequest) (*models.Address, error) {
	id, err := ParseID(addressID, "Invalid Address ID")
	if err != nil {
		return nil, err
	}

	updates := bson.M{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			updates[key] = v
		}
	}
	set("fullName", req.FullName)
	set("country", req.Country)
	set("address", req.Address)
	set("city", req.City)
	if req.PinCode != 0 {
		updates["pinCode"] = req.PinCode
	}
	if len(updates) == 0 {
		return nil, apperrors.BadRequest("No fields to update")
	}

	address, err := s.addresses.UpdateOwned(ctx, id, userID, updates)
	if err != nil {
		return nil, notFoundOr(err, "Address not found", "Error while updating the address")
	}
	return address, nil
}

// Delete soft-deletes the address and unlinks it from the user.
func (s *AddressService) Delete(ctx context.Context, userID primitive.ObjectID, addressID string) error {
	id, err := ParseID(addressID, "Invalid Address ID")
	if err != nil {
		return err
	}
	if _, err := s.addresses.SetDeleted(ctx, id, userID, true); err != nil {
		return notFoundOr(err, "Address not found", "failed to delete address")
	}
	if err := s.users.RemoveAddress(ctx, userID, id); err != nil {
		zap.L().Warn("failed to unlink address", zap.Error(err), zap.String("address_id", addressID))
	}
	return nil
}

// HasAddress reports whether the user has any live address.
func (s *AddressService) HasAddress(ctx context.Context, userID primitive.ObjectID) (*models.AddressStatus, error) {
	addresses, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.AddressStatus{HasAddress: len(addresses) > 0, Addresses: addresses}, nil
}

func (s *AddressService) Restore(ctx context.Context, userID primitive.ObjectID, addressID string) (*models.Address, error) {
	id, err := ParseID(addressID, "Invalid Address ID")
	if err != nil {
		return nil, err
	}
	address, err := s.addresses.FindOwned(ctx, id, userID)
	if err != nil {
		return nil, notFoundOr(err, "Address not found", "failed to fetch address")
	}
	if !address.IsDeleted {
		return nil, apperrors.BadRequest("Address is not deleted")
	}

	address, err = s.addresses.SetDeleted(ctx, id, userID, false)
	if err != nil {
		// Restored concurrently.
		return nil, notFoundOr(err, "Address not found", "failed to restore address")
	}
	if err := s.users.AddAddress(ctx, userID, id); err != nil {
		zap.L().Warn("failed to relink address", zap.Error(err), zap.String("address_id", addressID))
	}
	return address, nil
}

func (s *AddressService) ListDeleted(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	addresses, err := s.addresses.FindByUser(ctx, userID, true)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch addresses", err)
	}
	if len(addresses) == 0 {
		return nil, apperrors.NotFound("No deleted addresses found")
	}
	return addresses, nil
}
