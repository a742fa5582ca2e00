package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/events"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	aws_pkg "github.com/MdFaizanuddin1/Ecommerce-Full-stack/pkg/aws"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// InventoryService does stock bookkeeping on top of the product collection.
type InventoryService struct {
	products  repository.ProductRepo
	publisher *events.Publisher
	metrics   *aws_pkg.MetricsClient
	cache     *CacheManager
	currency  string
}

func NewInventoryService(products repository.ProductRepo, publisher *events.Publisher, metrics *aws_pkg.MetricsClient, cache *CacheManager, currency string) *InventoryService {
	return &InventoryService{
		products:  products,
		publisher: publisher,
		metrics:   metrics,
		cache:     cache,
		currency:  currency,
	}
}

// Restock adds quantity to the product's stock in one atomic update.
func (s *InventoryService) Restock(ctx context.Context, productID string, quantity int) (*models.RestockResult, error) {
	id, err := ParseID(productID, "Invalid Product ID format")
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, apperrors.BadRequest("quantity must be a positive number")
	}

	before, err := s.products.AdjustStock(ctx, id, quantity, models.StockReasonRestock)
	if err != nil {
		return nil, notFoundOr(err, "Product not found", "restock product failed")
	}

	s.cache.Invalidate(ctx)
	_ = s.metrics.RecordValue(ctx, aws_pkg.MetricInventoryRestocked, float64(quantity), map[string]string{"ProductId": productID})
	zap.L().Info("product restocked",
		zap.String("product_id", productID),
		zap.Int("before", before.Stock),
		zap.Int("added", quantity),
	)
	return &models.RestockResult{ProductStockBeforeAdd: before.Stock, Stock: before.Stock + quantity}, nil
}

// LowStockReport is the result of a single-product stock check.
type LowStockReport struct {
	Stock   int
	Low     bool
	Message string
}

// CheckLowStock compares the product's stock with its threshold. A low
// product also raises an inventory event.
func (s *InventoryService) CheckLowStock(ctx context.Context, productID string) (*LowStockReport, error) {
	if productID == "" {
		return nil, apperrors.BadRequest("product id is required")
	}
	id, err := ParseID(productID, "Invalid Product ID format")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product with the given id is not found", "failed to fetch product")
	}

	report := &LowStockReport{Stock: product.Stock, Low: product.IsLowStock()}
	if !report.Low {
		report.Message = fmt.Sprintf("Product %s stock is %d", product.ProductName, product.Stock)
		return report, nil
	}

	report.Message = fmt.Sprintf("Product %s is running low on stock!", product.ProductName)
	s.raiseLowStock(ctx, product)
	return report, nil
}

func (s *InventoryService) raiseLowStock(ctx context.Context, product *models.Product) {
	_ = s.metrics.RecordCount(ctx, aws_pkg.MetricInventoryLow, map[string]string{"ProductId": product.ID.Hex()})
	err := s.publisher.LowStock(ctx, models.LowStockEvent{
		ProductID:   product.ID.Hex(),
		ProductName: product.ProductName,
		Stock:       product.Stock,
		Threshold:   product.Threshold(),
		CheckedAt:   time.Now().UTC(),
	})
	if err != nil {
		zap.L().Warn("failed to publish low stock event", zap.Error(err), zap.String("product_id", product.ID.Hex()))
	}
}

// StockDetails values every product's stock at its current price.
func (s *InventoryService) StockDetails(ctx context.Context) (*models.StockReport, error) {
	products, err := s.products.Find(ctx, bson.M{}, 0, 0)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch products", err)
	}
	if len(products) == 0 {
		return nil, apperrors.NotFound("No products found")
	}

	report := &models.StockReport{StockDetails: make([]models.StockDetail, 0, len(products))}
	total := decimal.Zero
	for _, p := range products {
		value := lineTotal(p.Price, p.Stock)
		total = total.Add(value)
		report.StockDetails = append(report.StockDetails, models.StockDetail{
			ID:         p.ID,
			Name:       p.ProductName,
			Barcode:    p.BarcodeNumber,
			Price:      p.Price,
			Stock:      p.Stock,
			StockValue: moneyFloat(value),
		})
	}
	report.TotalStockValue = moneyFloat(total)
	report.TotalStockValueText = formatMoney(total, s.currency)
	report.TotalNumberOfProducts = len(report.StockDetails)
	return report, nil
}

// RecordSale books each line as a "Sold" stock change. Lines for products
// that have since been deleted are skipped.
func (s *InventoryService) RecordSale(ctx context.Context, lines []models.OrderLine) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		before, err := s.products.AdjustStock(ctx, line.ProductID, -line.Quantity, models.StockReasonSold)
		if errors.Is(err, repository.ErrNotFound) {
			zap.L().Warn("sold product no longer exists", zap.String("product_id", line.ProductID.Hex()))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to record sale of %s: %w", line.ProductID.Hex(), err)
		}

		after := *before
		after.Stock = before.Stock - line.Quantity
		if after.Stock < 0 {
			zap.L().Warn("stock went negative", zap.String("product_id", after.ID.Hex()), zap.Int("stock", after.Stock))
		}
		if after.IsLowStock() && !before.IsLowStock() {
			s.raiseLowStock(ctx, &after)
		}
	}
	s.cache.Invalidate(ctx)
	return nil
}
