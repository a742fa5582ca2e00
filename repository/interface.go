package repository

import (
	"context"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByReferralCode(ctx context.Context, code string) (*models.User, error)
	ExistsByIdentity(ctx context.Context, userName, email string, phone int64) (bool, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	FindAll(ctx context.Context) ([]models.User, error)
	FindReferred(ctx context.Context, ids []primitive.ObjectID) ([]models.ReferredUser, error)
	FindSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	AddReferredUser(ctx context.Context, referrerID, referredID primitive.ObjectID) error
	AddAddress(ctx context.Context, userID, addressID primitive.ObjectID) error
	RemoveAddress(ctx context.Context, userID, addressID primitive.ObjectID) error
	SetRoleByEmail(ctx context.Context, email, role string) error
	EnsureIndexes(ctx context.Context) error
}

type ProductRepo interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByBarcode(ctx context.Context, barcode int64) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Product, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) (int64, error)
	// AdjustStock applies delta and appends a history entry. It returns the
	// document as it was before the change.
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int, reason string) (*models.Product, error)
	AddReview(ctx context.Context, productID, reviewID primitive.ObjectID) error
	RemoveReview(ctx context.Context, productID, reviewID primitive.ObjectID) error
	CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type CategoryRepo interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type CartRepo interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	// Save inserts a new cart or replaces the stored one if its version still
	// matches, bumping the version.
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, cart *models.Cart) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	EnsureIndexes(ctx context.Context) error
}

type WishListRepo interface {
	// AddProduct appends productID to the named list, creating the list if
	// needed. It returns ErrDuplicate when the product is already there.
	AddProduct(ctx context.Context, userID primitive.ObjectID, name string, productID primitive.ObjectID) (*models.WishList, error)
	Find(ctx context.Context, userID primitive.ObjectID, name string) (*models.WishList, error)
	FindAll(ctx context.Context, userID primitive.ObjectID) ([]models.WishList, error)
	RemoveProduct(ctx context.Context, userID primitive.ObjectID, name string, productID primitive.ObjectID) (*models.WishList, error)
	Delete(ctx context.Context, userID primitive.ObjectID, name string) error
	EnsureIndexes(ctx context.Context) error
}

type ReviewRepo interface {
	Create(ctx context.Context, review *models.Review) error
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, updates bson.M) (*models.Review, error)
	DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) (*models.Review, error)
	EnsureIndexes(ctx context.Context) error
}

type AddressRepo interface {
	Create(ctx context.Context, address *models.Address) error
	FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, deleted bool) ([]models.Address, error)
	UpdateOwned(ctx context.Context, id, userID primitive.ObjectID, updates bson.M) (*models.Address, error)
	// SetDeleted flips the soft-delete flag. It returns ErrNotFound when no
	// owned address is currently in the opposite state.
	SetDeleted(ctx context.Context, id, userID primitive.ObjectID, deleted bool) (*models.Address, error)
	EnsureIndexes(ctx context.Context) error
}

type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	EnsureIndexes(ctx context.Context) error
}

// CheckoutStore holds checkout snapshots between gateway order creation and
// payment verification.
type CheckoutStore interface {
	Save(ctx context.Context, snap *models.CheckoutSnapshot, ttl time.Duration) error
	Get(ctx context.Context, gatewayOrderID string) (*models.CheckoutSnapshot, error)
	Delete(ctx context.Context, gatewayOrderID string) error
}
