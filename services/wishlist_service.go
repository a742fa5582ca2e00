package services

import (
	"context"
	"errors"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WishListService struct {
	lists    repository.WishListRepo
	products repository.ProductRepo
}

func NewWishListService(lists repository.WishListRepo, products repository.ProductRepo) *WishListService {
	return &WishListService{lists: lists, products: products}
}

func listName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return models.DefaultWishListName
	}
	return name
}

// Add puts productID on the named list, creating the list on first use.
// Adding a product that is already there returns the list unchanged and
// added=false.
func (s *WishListService) Add(ctx context.Context, userID primitive.ObjectID, productID, name string) (*models.WishListView, bool, error) {
	pid, err := ParseID(productID, "Error: productId is required")
	if err != nil {
		return nil, false, err
	}
	if _, err := s.products.FindByID(ctx, pid); err != nil {
		return nil, false, notFoundOr(err, "Product not found", "failed to fetch product")
	}

	name = listName(name)
	list, err := s.lists.AddProduct(ctx, userID, name, pid)
	added := true
	if errors.Is(err, repository.ErrDuplicate) {
		added = false
		list, err = s.lists.Find(ctx, userID, name)
	}
	if err != nil {
		return nil, false, apperrors.Internal("failed to update wishlist", err)
	}

	view, err := s.populate(ctx, []models.WishList{*list})
	if err != nil {
		return nil, false, err
	}
	return &view[0], added, nil
}

func (s *WishListService) GetAll(ctx context.Context, userID primitive.ObjectID) ([]models.WishListView, error) {
	lists, err := s.lists.FindAll(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch wishlists", err)
	}
	return s.populate(ctx, lists)
}

func (s *WishListService) Get(ctx context.Context, userID primitive.ObjectID, name string) (*models.WishListView, error) {
	list, err := s.lists.Find(ctx, userID, listName(name))
	if err != nil {
		return nil, notFoundOr(err, "No wishlist items found for this user and wishlist name", "failed to fetch wishlist")
	}
	views, err := s.populate(ctx, []models.WishList{*list})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *WishListService) Remove(ctx context.Context, userID primitive.ObjectID, productID, name string) (*models.WishListView, error) {
	pid, err := ParseID(productID, "Error: userId and productId are required")
	if err != nil {
		return nil, err
	}
	list, err := s.lists.RemoveProduct(ctx, userID, listName(name), pid)
	if err != nil {
		return nil, notFoundOr(err, "Wishlist not found", "failed to update wishlist")
	}
	views, err := s.populate(ctx, []models.WishList{*list})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *WishListService) Delete(ctx context.Context, userID primitive.ObjectID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.BadRequest("Error: userId and wishlist name are required")
	}
	if err := s.lists.Delete(ctx, userID, name); err != nil {
		return notFoundOr(err, "Wishlist not found", "Failed to delete wishlist")
	}
	return nil
}

// populate resolves every product referenced by lists in one query.
func (s *WishListService) populate(ctx context.Context, lists []models.WishList) ([]models.WishListView, error) {
	var ids []primitive.ObjectID
	for _, l := range lists {
		for _, item := range l.Products {
			ids = append(ids, item.Product)
		}
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load wishlist products", err)
	}
	byID := make(map[primitive.ObjectID]models.ProductSummary, len(products))
	for i := range products {
		byID[products[i].ID] = products[i].Summary()
	}

	views := make([]models.WishListView, 0, len(lists))
	for _, l := range lists {
		view := models.WishListView{
			ID:        l.ID,
			Name:      l.Name,
			UserID:    l.UserID,
			Products:  make([]models.WishListItemView, 0, len(l.Products)),
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
		}
		for _, item := range l.Products {
			summary, ok := byID[item.Product]
			if !ok {
				continue
			}
			view.Products = append(view.Products, models.WishListItemView{Product: &summary, AddedAt: item.AddedAt})
		}
		views = append(views, view)
	}
	return views, nil
}
