package controllers

import (
	"io"
	"net/http"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/gin-gonic/gin"
)

// Stripe payloads are small; anything bigger is not a real event.
const maxWebhookBody = 64 * 1024

type BuyNowRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type OrderController struct {
	orders OrderServiceAPI
}

func NewOrderController(orders OrderServiceAPI) *OrderController {
	return &OrderController{orders: orders}
}

func (oc *OrderController) BuyNow(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Product ID is required"))
		return
	}
	result, err := oc.orders.BuyNow(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, result, "Order created successfully")
}

func (oc *OrderController) FromCart(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	result, err := oc.orders.FromCart(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, result, "Order created successfully from cart")
}

func (oc *OrderController) Verify(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req services.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Missing payment verification parameters"))
		return
	}
	order, err := oc.orders.Verify(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, order, "payment verified successfully!")
}

// StripeWebhook is unauthenticated; the signature header is the credential.
func (oc *OrderController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.Error(apperrors.BadRequest("could not read webhook body"))
		return
	}
	if err := oc.orders.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

func (oc *OrderController) GetUserOrders(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	orders, err := oc.orders.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, orders, "User orders fetched successfully")
}

func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.orders.GetAllOrders(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, orders, "All orders fetched successfully")
}
