package controllers

import (
	"context"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The *ServiceAPI interfaces are what the handlers need from the services
// package. Tests substitute fakes.

type AuthServiceAPI interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.AuthResult, error)
	Logout(ctx context.Context, userID primitive.ObjectID) error
	ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetReferredUsers(ctx context.Context, userID primitive.ObjectID) ([]models.ReferredUser, error)
}

type ProductServiceAPI interface {
	List(ctx context.Context, page, perPage int) ([]models.Product, error)
	GetSingle(ctx context.Context, productID, barcode string) (*models.Product, error)
	SearchByName(ctx context.Context, name string) ([]models.Product, error)
	SearchByField(ctx context.Context, field string, value interface{}) ([]models.Product, error)
	Create(ctx context.Context, in services.CreateProductInput) (*models.Product, error)
	Edit(ctx context.Context, productID string, req services.EditProductRequest) (*models.Product, error)
	Delete(ctx context.Context, productID string) (*models.Product, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type CategoryServiceAPI interface {
	Create(ctx context.Context, req services.CreateCategoryRequest) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, categoryID string) (*models.CategoryView, error)
	UpdateStatus(ctx context.Context, categoryID, status string) (*models.Category, error)
	Delete(ctx context.Context, categoryID string) (*models.Category, error)
}

type CartServiceAPI interface {
	Add(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (*models.CartView, error)
	Get(ctx context.Context, userID primitive.ObjectID) (*models.CartView, bool, error)
	Update(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (*models.CartView, error)
	Remove(ctx context.Context, userID primitive.ObjectID, productID string) (*models.CartView, error)
	Clear(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
}

type WishListServiceAPI interface {
	Add(ctx context.Context, userID primitive.ObjectID, productID, name string) (*models.WishListView, bool, error)
	GetAll(ctx context.Context, userID primitive.ObjectID) ([]models.WishListView, error)
	Get(ctx context.Context, userID primitive.ObjectID, name string) (*models.WishListView, error)
	Remove(ctx context.Context, userID primitive.ObjectID, productID, name string) (*models.WishListView, error)
	Delete(ctx context.Context, userID primitive.ObjectID, name string) error
}

type OrderServiceAPI interface {
	BuyNow(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (*models.CheckoutResult, error)
	FromCart(ctx context.Context, userID primitive.ObjectID) (*models.CheckoutResult, error)
	Verify(ctx context.Context, userID primitive.ObjectID, req services.VerifyRequest) (*models.Order, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error
	GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.OrderView, error)
	GetAllOrders(ctx context.Context) ([]models.OrderView, error)
}

type InventoryServiceAPI interface {
	Restock(ctx context.Context, productID string, quantity int) (*models.RestockResult, error)
	CheckLowStock(ctx context.Context, productID string) (*services.LowStockReport, error)
	StockDetails(ctx context.Context) (*models.StockReport, error)
}

type ReviewServiceAPI interface {
	Add(ctx context.Context, userID primitive.ObjectID, req services.ReviewRequest) (*models.ReviewView, error)
	Edit(ctx context.Context, userID primitive.ObjectID, reviewID string, req services.ReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, userID primitive.ObjectID, reviewID string) error
	ProductReviews(ctx context.Context, productID string) (*models.ProductReviews, error)
}

type AddressServiceAPI interface {
	Add(ctx context.Context, userID primitive.ObjectID, req services.AddressRequest) (*models.Address, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	Get(ctx context.Context, userID primitive.ObjectID, addressID string) (*models.Address, error)
	Edit(ctx context.Context, userID primitive.ObjectID, addressID string, req services.AddressRequest) (*models.Address, error)
	Delete(ctx context.Context, userID primitive.ObjectID, addressID string) error
	HasAddress(ctx context.Context, userID primitive.ObjectID) (*models.AddressStatus, error)
	Restore(ctx context.Context, userID primitive.ObjectID, addressID string) (*models.Address, error)
	ListDeleted(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
}

type AssistantServiceAPI interface {
	Ask(ctx context.Context, req services.PromptRequest) (string, error)
}
