package models

import "time"

const (
	EventOrderPaid    = "order.paid"
	EventInventoryLow = "inventory.low_stock"
)

type OrderPaidEvent struct {
	OrderID        string      `json:"orderId"`
	UserID         string      `json:"userId"`
	GatewayOrderID string      `json:"gatewayOrderId"`
	Lines          []OrderLine `json:"lines"`
	Amount         float64     `json:"amount"`
	Currency       string      `json:"currency"`
	PaidAt         time.Time   `json:"paidAt"`
}

type LowStockEvent struct {
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Stock       int       `json:"stock"`
	Threshold   int       `json:"threshold"`
	CheckedAt   time.Time `json:"checkedAt"`
}
