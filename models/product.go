package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLowStockThreshold applies when a product has no threshold of its own.
const DefaultLowStockThreshold = 10

const (
	StockReasonRestock = "Restocked"
	StockReasonSold    = "Sold"
)

type StockChange struct {
	QuantityChanged int       `bson:"quantityChanged" json:"quantityChanged"`
	ChangeReason    string    `bson:"changeReason" json:"changeReason"`
	Date            time.Time `bson:"date" json:"date"`
}

type Product struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	ProductName       string               `bson:"productName" json:"productName"`
	BarcodeNumber     int64                `bson:"barcodeNumber" json:"barcodeNumber"`
	Price             float64              `bson:"price" json:"price"`
	Category          []primitive.ObjectID `bson:"category" json:"category"`
	Bestseller        bool                 `bson:"bestseller" json:"bestseller"`
	Description       string               `bson:"description" json:"description"`
	Images            []string             `bson:"image" json:"image"`
	Age               string               `bson:"age" json:"age"`
	Gender            string               `bson:"gender" json:"gender"`
	Stock             int                  `bson:"stock" json:"stock"`
	RestockedAt       *time.Time           `bson:"restockedAt,omitempty" json:"restockedAt,omitempty"`
	LowStockThreshold int                  `bson:"lowStockThreshold" json:"lowStockThreshold"`
	StockHistory      []StockChange        `bson:"stockHistory" json:"stockHistory"`
	Reviews           []primitive.ObjectID `bson:"reviews" json:"reviews"`

	// Optional attributes used by the assistant context.
	Color    string  `bson:"color,omitempty" json:"color,omitempty"`
	Brand    string  `bson:"brand,omitempty" json:"brand,omitempty"`
	Material string  `bson:"material,omitempty" json:"material,omitempty"`
	Rating   float64 `bson:"rating,omitempty" json:"rating,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Threshold returns the product's low-stock threshold or the default.
func (p *Product) Threshold() int {
	if p.LowStockThreshold > 0 {
		return p.LowStockThreshold
	}
	return DefaultLowStockThreshold
}

// IsLowStock reports whether stock is at or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.Threshold()
}

// ProductSummary is the populated view of a product inside carts, orders and
// wishlists.
type ProductSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	ProductName string             `bson:"productName" json:"productName"`
	Price       float64            `bson:"price" json:"price"`
	Images      []string           `bson:"image" json:"image"`
}

func (p *Product) Summary() ProductSummary {
	return ProductSummary{ID: p.ID, ProductName: p.ProductName, Price: p.Price, Images: p.Images}
}

// StockDetail is one row of the inventory valuation report.
type StockDetail struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Barcode    int64              `json:"barcode"`
	Price      float64            `json:"price"`
	Stock      int                `json:"stock"`
	StockValue float64            `json:"stockValue"`
}

type StockReport struct {
	StockDetails          []StockDetail `json:"stockDetails"`
	TotalStockValue       float64       `json:"totalStockValue"`
	TotalStockValueText   string        `json:"totalStockValueFormatted"`
	TotalNumberOfProducts int           `json:"totalNumberOfProducts"`
}

type RestockResult struct {
	ProductStockBeforeAdd int `json:"productStockBeforeAdd"`
	Stock                 int `json:"stock"`
}
