package services

import (
	"context"
	"errors"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"go.uber.org/zap"
)

type CreateCategoryRequest struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	ParentCategory string `json:"parentCategory"`
	IsActive       string `json:"isActive"`
}

type CategoryService struct {
	categories repository.CategoryRepo
	products   repository.ProductRepo
}

func NewCategoryService(categories repository.CategoryRepo, products repository.ProductRepo) *CategoryService {
	return &CategoryService{categories: categories, products: products}
}

func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("Category name is required")
	}

	status := strings.TrimSpace(req.IsActive)
	if status == "" {
		status = models.CategoryActive
	}
	if !models.ValidCategoryStatus(status) {
		return nil, apperrors.BadRequest("Invalid status. Status must be 'active' or 'inactive'")
	}

	category := &models.Category{
		Name:        name,
		Slug:        slugify(req.Slug),
		Description: req.Description,
		IsActive:    status,
	}
	if category.Slug == "" {
		category.Slug = slugify(name)
	}

	if req.ParentCategory != "" {
		parentID, err := ParseID(req.ParentCategory, "Parent category does not exist")
		if err != nil {
			return nil, err
		}
		if _, err := s.categories.FindByID(ctx, parentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.BadRequest("Parent category does not exist")
			}
			return nil, apperrors.Internal("failed to look up parent category", err)
		}
		category.ParentCategory = &parentID
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Category with this name already exists")
		}
		return nil, apperrors.Internal("category creation failed", err)
	}
	zap.L().Info("category created", zap.String("category_id", category.ID.Hex()), zap.String("name", category.Name))
	return category, nil
}

func (s *CategoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("No categories found", err)
	}
	return categories, nil
}

// Get returns the category with its parent's name filled in.
func (s *CategoryService) Get(ctx context.Context, categoryID string) (*models.CategoryView, error) {
	id, err := ParseID(categoryID, "Invalid category ID")
	if err != nil {
		return nil, err
	}
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category not found", "failed to fetch category")
	}

	view := &models.CategoryView{Category: *category}
	if category.ParentCategory != nil {
		parent, err := s.categories.FindByID(ctx, *category.ParentCategory)
		switch {
		case err == nil:
			view.ParentName = parent.Name
		case !errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.Internal("failed to fetch parent category", err)
		}
	}
	return view, nil
}

func (s *CategoryService) UpdateStatus(ctx context.Context, categoryID, status string) (*models.Category, error) {
	id, err := ParseID(categoryID, "Invalid category ID")
	if err != nil {
		return nil, err
	}
	if !models.ValidCategoryStatus(status) {
		return nil, apperrors.BadRequest("Invalid status. Status must be 'active' or 'inactive'")
	}
	category, err := s.categories.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, notFoundOr(err, "Category not found", "failed to update category")
	}
	return category, nil
}

// Delete refuses while any product still references the category.
func (s *CategoryService) Delete(ctx context.Context, categoryID string) (*models.Category, error) {
	id, err := ParseID(categoryID, "Invalid category ID")
	if err != nil {
		return nil, err
	}
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Category not found", "failed to fetch category")
	}

	inUse, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("failed to check category usage", err)
	}
	if inUse > 0 {
		return nil, apperrors.Conflict("Category is still assigned to products")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return nil, notFoundOr(err, "Category not found", "failed to delete category")
	}
	return category, nil
}

func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "-")
}
