package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	aws_pkg "github.com/MdFaizanuddin1/Ecommerce-Full-stack/pkg/aws"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateProductInput is a parsed and validated product form.
type CreateProductInput struct {
	ProductName   string  `validate:"required"`
	Price         float64 `validate:"gt=0"`
	Description   string  `validate:"required"`
	Age           string  `validate:"required"`
	Gender        string  `validate:"required"`
	Stock         int     `validate:"gte=0"`
	BarcodeNumber int64   `validate:"gt=0"`
	Bestseller    bool
	Category      []primitive.ObjectID
	Images        []storage.File `validate:"min=1"`
}

// EditProductRequest is a partial update. Nil fields are left alone.
type EditProductRequest struct {
	ProductName *string  `json:"productName"`
	Price       *float64 `json:"price"`
	Category    []string `json:"category"`
	Bestseller  *bool    `json:"bestseller"`
	Description *string  `json:"description"`
	Age         *string  `json:"age"`
	Gender      *string  `json:"gender"`
	Stock       *int     `json:"stock"`
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
	kindBool
	kindObjectID
)

// searchableFields is the allow-list for SearchByField.
var searchableFields = map[string]fieldKind{
	"productName":   kindString,
	"barcodeNumber": kindInt,
	"price":         kindFloat,
	"category":      kindObjectID,
	"bestseller":    kindBool,
	"age":           kindString,
	"gender":        kindString,
	"stock":         kindInt,
}

type ProductService struct {
	products repository.ProductRepo
	images   storage.ImageStore
	cache    *CacheManager
	metrics  *aws_pkg.MetricsClient
}

func NewProductService(products repository.ProductRepo, images storage.ImageStore, cache *CacheManager, metrics *aws_pkg.MetricsClient) *ProductService {
	return &ProductService{products: products, images: images, cache: cache, metrics: metrics}
}

// List returns the catalog newest first. page 0 means everything.
func (s *ProductService) List(ctx context.Context, page, perPage int) ([]models.Product, error) {
	var products []models.Product
	version, hit := s.cache.GetProductList(ctx, page, perPage, &products)
	if hit {
		_ = s.metrics.RecordCount(ctx, aws_pkg.MetricCacheHits, map[string]string{"Cache": "products"})
		return products, nil
	}
	_ = s.metrics.RecordCount(ctx, aws_pkg.MetricCacheMisses, map[string]string{"Cache": "products"})

	var skip, limit int64
	if page > 0 && perPage > 0 {
		skip = int64((page - 1) * perPage)
		limit = int64(perPage)
	}
	products, err := s.products.Find(ctx, bson.M{}, skip, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch products", err)
	}

	s.cache.SetProductListAsync(version, page, perPage, products)
	return products, nil
}

// GetSingle looks a product up by id, or by barcode when no id is given.
func (s *ProductService) GetSingle(ctx context.Context, productID, barcode string) (*models.Product, error) {
	productID, barcode = strings.TrimSpace(productID), strings.TrimSpace(barcode)
	if productID == "" && barcode == "" {
		return nil, apperrors.BadRequest("please enter either barcode number or product id")
	}

	var (
		product *models.Product
		err     error
	)
	if productID != "" {
		id, perr := ParseID(productID, "Invalid Product ID format")
		if perr != nil {
			return nil, perr
		}
		product, err = s.products.FindByID(ctx, id)
	} else {
		code, perr := strconv.ParseInt(barcode, 10, 64)
		if perr != nil {
			return nil, apperrors.BadRequest("barcodeNumber must be a valid number")
		}
		product, err = s.products.FindByBarcode(ctx, code)
	}
	if err != nil {
		return nil, notFoundOr(err, "No product is found", "failed to fetch product")
	}
	return product, nil
}

// SearchByName is a case-insensitive substring match on productName.
func (s *ProductService) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.BadRequest("Search query is required")
	}
	filter := bson.M{"productName": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
	products, err := s.products.Find(ctx, filter, 0, 0)
	if err != nil {
		return nil, apperrors.Internal("Internal server Error", err)
	}
	return products, nil
}

// SearchByField matches one allow-listed field exactly. value is coerced to
// the field's stored type.
func (s *ProductService) SearchByField(ctx context.Context, field string, value interface{}) ([]models.Product, error) {
	raw := strings.TrimSpace(fmt.Sprint(value))
	if field == "" || value == nil || raw == "" {
		return nil, apperrors.BadRequest("Field and value are required")
	}
	kind, ok := searchableFields[field]
	if !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf("Searching by %q is not supported", field))
	}

	typed, err := coerce(kind, raw)
	if err != nil {
		return nil, apperrors.BadRequest(fmt.Sprintf("Invalid value for %s", field))
	}

	products, err := s.products.Find(ctx, bson.M{field: typed}, 0, 0)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch products", err)
	}
	if len(products) == 0 {
		return nil, apperrors.NotFound("There are no products")
	}
	return products, nil
}

func coerce(kind fieldKind, raw string) (interface{}, error) {
	switch kind {
	case kindInt:
		// JSON numbers arrive as float64 and print without a fraction when whole.
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f != float64(int64(f)) {
			return nil, fmt.Errorf("not an integer: %q", raw)
		}
		return int64(f), nil
	case kindFloat:
		return strconv.ParseFloat(raw, 64)
	case kindBool:
		return strconv.ParseBool(raw)
	case kindObjectID:
		return primitive.ObjectIDFromHex(raw)
	default:
		return raw, nil
	}
}

// Create uploads the images and persists the product. If anything fails
// after the upload the images are removed again.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if len(in.Images) == 0 {
		return nil, apperrors.BadRequest("NO product image is uploaded")
	}

	if _, err := s.products.FindByBarcode(ctx, in.BarcodeNumber); err == nil {
		return nil, apperrors.Conflict("Product with this barcode number already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("failed to check barcode", err)
	}

	urls, err := storage.UploadAll(ctx, s.images, in.Images)
	if err != nil {
		return nil, apperrors.Internal("Something went wrong while uploading images", err)
	}

	product := &models.Product{
		ProductName:       strings.TrimSpace(in.ProductName),
		BarcodeNumber:     in.BarcodeNumber,
		Price:             in.Price,
		Category:          in.Category,
		Bestseller:        in.Bestseller,
		Description:       strings.TrimSpace(in.Description),
		Images:            urls,
		Age:               in.Age,
		Gender:            in.Gender,
		Stock:             in.Stock,
		LowStockThreshold: models.DefaultLowStockThreshold,
	}

	if err := s.products.Create(ctx, product); err != nil {
		if cerr := storage.DeleteAll(context.WithoutCancel(ctx), s.images, urls); cerr != nil {
			zap.L().Warn("failed to remove images of unsaved product", zap.Error(cerr), zap.Strings("urls", urls))
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Product with this barcode number already exists")
		}
		return nil, apperrors.Internal("Something went wrong while adding the product", err)
	}

	s.cache.Invalidate(ctx)
	_ = s.metrics.RecordCount(ctx, aws_pkg.MetricProductsCreated, nil)
	zap.L().Info("product created", zap.String("product_id", product.ID.Hex()), zap.Int64("barcode", product.BarcodeNumber))
	return product, nil
}

func (s *ProductService) Edit(ctx context.Context, productID string, req EditProductRequest) (*models.Product, error) {
	id, err := ParseID(productID, "Invalid Product ID format")
	if err != nil {
		return nil, err
	}

	updates := bson.M{}
	if req.ProductName != nil && strings.TrimSpace(*req.ProductName) != "" {
		updates["productName"] = strings.TrimSpace(*req.ProductName)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperrors.BadRequest("price must be greater than 0")
		}
		updates["price"] = *req.Price
	}
	if len(req.Category) > 0 {
		categories := make([]primitive.ObjectID, 0, len(req.Category))
		for _, c := range req.Category {
			cid, err := ParseID(c, "Invalid Category ID format")
			if err != nil {
				return nil, err
			}
			categories = append(categories, cid)
		}
		updates["category"] = categories
	}
	if req.Bestseller != nil {
		updates["bestseller"] = *req.Bestseller
	}
	if req.Description != nil && *req.Description != "" {
		updates["description"] = *req.Description
	}
	if req.Age != nil && *req.Age != "" {
		updates["age"] = *req.Age
	}
	if req.Gender != nil && *req.Gender != "" {
		updates["gender"] = *req.Gender
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperrors.BadRequest("stock cannot be negative")
		}
		updates["stock"] = *req.Stock
	}
	if len(updates) == 0 {
		return nil, apperrors.BadRequest("No fields to update")
	}

	product, err := s.products.Update(ctx, id, updates)
	if err != nil {
		return nil, notFoundOr(err, "Product not found", "Error while updating the product")
	}
	s.cache.Invalidate(ctx)
	return product, nil
}

// Delete removes the product's images first; if that fails the product stays.
func (s *ProductService) Delete(ctx context.Context, productID string) (*models.Product, error) {
	id, err := ParseID(productID, "Invalid Product ID format")
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Product not found or already deleted", "failed to fetch product")
	}

	if err := storage.DeleteAll(ctx, s.images, product.Images); err != nil {
		return nil, apperrors.Internal("Error while deleting product images", err)
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return nil, notFoundOr(err, "product deletion failed", "product deletion failed")
	}
	s.cache.Invalidate(ctx)
	zap.L().Info("product deleted", zap.String("product_id", productID))
	return product, nil
}

// DeleteAll wipes the catalog and every stored image.
func (s *ProductService) DeleteAll(ctx context.Context) (int64, error) {
	products, err := s.products.Find(ctx, bson.M{}, 0, 0)
	if err != nil {
		return 0, apperrors.Internal("failed to fetch products", err)
	}
	if len(products) == 0 {
		return 0, apperrors.BadRequest("No products are there to delete")
	}

	var urls []string
	for _, p := range products {
		urls = append(urls, p.Images...)
	}
	if err := storage.DeleteAll(ctx, s.images, urls); err != nil {
		return 0, apperrors.Internal("Error while deleting product images", err)
	}

	deleted, err := s.products.DeleteAll(ctx)
	if err != nil {
		return 0, apperrors.Internal("failed to delete products", err)
	}
	if deleted == 0 {
		return 0, apperrors.BadRequest("No products are there to delete")
	}
	s.cache.Invalidate(ctx)
	zap.L().Warn("catalog wiped", zap.Int64("deleted", deleted))
	return deleted, nil
}
