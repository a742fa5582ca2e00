package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxCartRetries = 5

var errCartBusy = apperrors.New(http.StatusConflict, "Cart was modified by another request, please retry", nil)

type CartService struct {
	carts    repository.CartRepo
	products repository.ProductRepo
}

func NewCartService(carts repository.CartRepo, products repository.ProductRepo) *CartService {
	return &CartService{carts: carts, products: products}
}

// cartMutation edits the cart in place. It runs again on every retry against a
// freshly loaded cart.
type cartMutation func(cart *models.Cart) error

// mutate loads, edits and conditionally saves the user's cart, retrying when
// another writer got in first. A cart left with no lines is deleted and nil
// is returned.
func (s *CartService) mutate(ctx context.Context, userID primitive.ObjectID, create bool, fn cartMutation) (*models.CartView, error) {
	for attempt := 0; attempt < maxCartRetries; attempt++ {
		cart, err := s.carts.FindByUser(ctx, userID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if !create {
				return nil, apperrors.NotFound("Cart not found")
			}
			cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
		case err != nil:
			return nil, apperrors.Internal("failed to load cart", err)
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		view, err := s.price(ctx, cart)
		if err != nil {
			return nil, err
		}

		if len(cart.Items) == 0 {
			if cart.ID.IsZero() {
				return nil, nil
			}
			err = s.carts.Delete(ctx, cart)
			if errors.Is(err, repository.ErrVersionConflict) {
				continue
			}
			if err != nil {
				return nil, apperrors.Internal("failed to delete cart", err)
			}
			return nil, nil
		}

		err = s.carts.Save(ctx, cart)
		if errors.Is(err, repository.ErrVersionConflict) {
			zap.L().Debug("cart version conflict, retrying", zap.String("user_id", userID.Hex()), zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, apperrors.Internal("failed to save cart", err)
		}
		view.ID, view.UserID = cart.ID, cart.UserID
		view.CreatedAt, view.UpdatedAt = &cart.CreatedAt, &cart.UpdatedAt
		return view, nil
	}
	return nil, errCartBusy
}

// price populates the cart's products and recomputes its total from each
// line's own price. Lines whose product no longer exists are dropped.
func (s *CartService) price(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.Product)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load cart products", err)
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	view := &models.CartView{Items: make([]models.CartLineView, 0, len(cart.Items))}
	kept := cart.Items[:0]
	total := decimal.Zero
	for _, item := range cart.Items {
		p, ok := byID[item.Product]
		if !ok {
			zap.L().Warn("dropping cart line for missing product", zap.String("product_id", item.Product.Hex()))
			continue
		}
		kept = append(kept, item)
		total = total.Add(lineTotal(p.Price, item.Quantity))
		view.Items = append(view.Items, models.CartLineView{Product: p.Summary(), Quantity: item.Quantity})
	}
	cart.Items = kept
	cart.TotalPrice = moneyFloat(total)
	view.TotalPrice = cart.TotalPrice
	return view, nil
}

// Add puts quantity of productID in the cart, summing with an existing line.
func (s *CartService) Add(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (*models.CartView, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil || quantity < 1 {
		return nil, apperrors.BadRequest("Invalid Product ID format or Quantity")
	}
	if _, err := s.products.FindByID(ctx, pid); err != nil {
		return nil, notFoundOr(err, "Product Not Found", "failed to fetch product")
	}

	return s.mutate(ctx, userID, true, func(cart *models.Cart) error {
		if i := cart.Find(pid); i >= 0 {
			cart.Items[i].Quantity += quantity
		} else {
			cart.Items = append(cart.Items, models.CartItem{Product: pid, Quantity: quantity})
		}
		return nil
	})
}

// Get returns the populated cart, or the empty shape when there is none.
// The total reflects current product prices.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.CartView, bool, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.EmptyCartView(), true, nil
	}
	if err != nil {
		return nil, false, apperrors.Internal("failed to load cart", err)
	}

	view, err := s.price(ctx, cart)
	if err != nil {
		return nil, false, err
	}
	view.ID, view.UserID = cart.ID, cart.UserID
	view.CreatedAt, view.UpdatedAt = &cart.CreatedAt, &cart.UpdatedAt
	return view, false, nil
}

// Update sets the quantity of a line already in the cart.
func (s *CartService) Update(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (*models.CartView, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil || quantity < 1 {
		return nil, apperrors.BadRequest("Invalid product ID or quantity")
	}
	return s.mutate(ctx, userID, false, func(cart *models.Cart) error {
		i := cart.Find(pid)
		if i < 0 {
			return apperrors.NotFound("Product not found in cart")
		}
		cart.Items[i].Quantity = quantity
		return nil
	})
}

// Remove drops a line. Removing the last line deletes the cart, reported by a
// nil view.
func (s *CartService) Remove(ctx context.Context, userID primitive.ObjectID, productID string) (*models.CartView, error) {
	pid, err := ParseID(productID, "Invalid Product ID format")
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, false, func(cart *models.Cart) error {
		i := cart.Find(pid)
		if i < 0 {
			return apperrors.NotFound("Product not found in cart")
		}
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		return nil
	})
}

// Clear deletes the cart outright.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.DeleteByUser(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Cart not found", "failed to clear cart")
	}
	return cart, nil
}
