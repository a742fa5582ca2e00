package controllers

import (
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/gin-gonic/gin"
)

type RestockRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type StockCheckRequest struct {
	ProductID string `json:"productId"`
}

type InventoryController struct {
	inventory InventoryServiceAPI
}

func NewInventoryController(inventory InventoryServiceAPI) *InventoryController {
	return &InventoryController{inventory: inventory}
}

func (ic *InventoryController) Restock(c *gin.Context) {
	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("productId and quantity are required"))
		return
	}
	result, err := ic.inventory.Restock(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, result, "Product restocked successfully")
}

func (ic *InventoryController) CheckLowStock(c *gin.Context) {
	var req StockCheckRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	report, err := ic.inventory.CheckLowStock(c.Request.Context(), req.ProductID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, report.Stock, report.Message)
}

func (ic *InventoryController) StockDetails(c *gin.Context) {
	report, err := ic.inventory.StockDetails(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, report, "Stock details fetched successfully")
}
