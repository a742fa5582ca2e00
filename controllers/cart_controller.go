package controllers

import (
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/gin-gonic/gin"
)

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CartController struct {
	carts CartServiceAPI
}

func NewCartController(carts CartServiceAPI) *CartController {
	return &CartController{carts: carts}
}

func (cc *CartController) Add(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Invalid Product ID format or Quantity"))
		return
	}
	cart, err := cc.carts.Add(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, cart, "Item added to cart")
}

func (cc *CartController) Get(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	cart, empty, err := cc.carts.Get(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	if empty {
		response.OK(c, cart, "Cart is empty")
		return
	}
	response.OK(c, cart, "Cart retrieved successfully")
}

func (cc *CartController) Update(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Invalid product ID or quantity"))
		return
	}
	cart, err := cc.carts.Update(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, cart, "Cart updated")
}

func (cc *CartController) Remove(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Invalid Product ID format"))
		return
	}
	cart, err := cc.carts.Remove(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		c.Error(err)
		return
	}
	if cart == nil {
		response.OK(c, nil, "Cart deleted")
		return
	}
	response.OK(c, cart, "Item removed from cart")
}

func (cc *CartController) Clear(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	cart, err := cc.carts.Clear(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, cart, "Cart cleared")
}
