package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReviewRequest struct {
	ProductID   string `json:"productId"`
	Stars       int    `json:"stars"`
	ReviewTitle string `json:"reviewTitle"`
	Review      string `json:"review"`
	Recommended *bool  `json:"recommended"`
}

type ReviewService struct {
	reviews  repository.ReviewRepo
	products repository.ProductRepo
	users    repository.UserRepo
	cache    *CacheManager
}

// NewReviewService invalidates cache whenever a product's review ids change.
func NewReviewService(reviews repository.ReviewRepo, products repository.ProductRepo, users repository.UserRepo, cache *CacheManager) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, users: users, cache: cache}
}

func validStars(stars int) error {
	if stars < models.MinStars || stars > models.MaxStars {
		return apperrors.BadRequest(fmt.Sprintf("stars must be between %d and %d", models.MinStars, models.MaxStars))
	}
	return nil
}

func (s *ReviewService) Add(ctx context.Context, userID primitive.ObjectID, req ReviewRequest) (*models.ReviewView, error) {
	pid, err := ParseID(req.ProductID, "Invalid Product ID")
	if err != nil {
		return nil, err
	}
	if err := validStars(req.Stars); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, pid); err != nil {
		return nil, notFoundOr(err, "Product not found", "failed to fetch product")
	}

	review := &models.Review{
		User:        userID,
		Product:     pid,
		Stars:       req.Stars,
		ReviewTitle: strings.TrimSpace(req.ReviewTitle),
		Review:      strings.TrimSpace(req.Review),
		Recommended: req.Recommended != nil && *req.Recommended,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, apperrors.Internal("Review creation failed", err)
	}
	if err := s.products.AddReview(ctx, pid, review.ID); err != nil {
		if _, derr := s.reviews.DeleteOwned(ctx, review.ID, userID); derr != nil {
			zap.L().Error("failed to remove unlinked review",
				zap.Error(derr),
				zap.String("review_id", review.ID.Hex()),
			)
		}
		return nil, apperrors.Internal("Review creation failed", err)
	}
	s.cache.Invalidate(ctx)

	views, err := s.populate(ctx, []models.Review{*review})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Edit applies the non-empty fields of req to a review the caller wrote.
func (s *ReviewService) Edit(ctx context.Context, userID primitive.ObjectID, reviewID string, req ReviewRequest) (*models.Review, error) {
	id, err := ParseID(reviewID, "Invalid Review ID")
	if err != nil {
		return nil, err
	}

	updates := bson.M{}
	if req.Stars != 0 {
		if err := validStars(req.Stars); err != nil {
			return nil, err
		}
		updates["stars"] = req.Stars
	}
	if t := strings.TrimSpace(req.ReviewTitle); t != "" {
		updates["reviewTitle"] = t
	}
	if r := strings.TrimSpace(req.Review); r != "" {
		updates["review"] = r
	}
	if req.Recommended != nil {
		updates["recommended"] = *req.Recommended
	}
	if len(updates) == 0 {
		return nil, apperrors.BadRequest("No fields to update")
	}

	review, err := s.reviews.UpdateOwned(ctx, id, userID, updates)
	if err != nil {
		return nil, notFoundOr(err, "Review not found or not authorized to edit", "failed to update review")
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, userID primitive.ObjectID, reviewID string) error {
	id, err := ParseID(reviewID, "Invalid Review ID")
	if err != nil {
		return err
	}
	review, err := s.reviews.DeleteOwned(ctx, id, userID)
	if err != nil {
		return notFoundOr(err, "Review not found or not authorized to delete", "failed to delete review")
	}
	if err := s.products.RemoveReview(ctx, review.Product, review.ID); err != nil {
		zap.L().Warn("failed to unlink review from product",
			zap.Error(err),
			zap.String("review_id", review.ID.Hex()),
			zap.String("product_id", review.Product.Hex()),
		)
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *ReviewService) ProductReviews(ctx context.Context, productID string) (*models.ProductReviews, error) {
	pid, err := ParseID(productID, "Invalid Product ID")
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, pid); err != nil {
		return nil, notFoundOr(err, "No product found", "failed to fetch product")
	}
	reviews, err := s.reviews.FindByProduct(ctx, pid)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch reviews", err)
	}
	views, err := s.populate(ctx, reviews)
	if err != nil {
		return nil, err
	}
	return &models.ProductReviews{TotalReviews: len(views), Reviews: views}, nil
}

func (s *ReviewService) populate(ctx context.Context, reviews []models.Review) ([]models.ReviewView, error) {
	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.User)
	}
	authors, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load review authors", err)
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		view := models.ReviewView{
			ID:          r.ID,
			Product:     r.Product,
			Stars:       r.Stars,
			ReviewTitle: r.ReviewTitle,
			Review:      r.Review,
			Recommended: r.Recommended,
			CreatedAt:   r.CreatedAt,
		}
		if a, ok := authors[r.User]; ok {
			view.User = &a
		}
		views = append(views, view)
	}
	return views, nil
}
