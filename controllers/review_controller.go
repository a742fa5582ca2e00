package controllers

import (
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviews ReviewServiceAPI
}

func NewReviewController(reviews ReviewServiceAPI) *ReviewController {
	return &ReviewController{reviews: reviews}
}

func (rc *ReviewController) Add(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Invalid review body"))
		return
	}
	review, err := rc.reviews.Add(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Created(c, review, "Review created successfully")
}

func (rc *ReviewController) Edit(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Invalid review body"))
		return
	}
	review, err := rc.reviews.Edit(c.Request.Context(), userID, c.Param("reviewId"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, review, "Review updated successfully")
}

func (rc *ReviewController) Delete(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	if err := rc.reviews.Delete(c.Request.Context(), userID, c.Param("reviewId")); err != nil {
		c.Error(err)
		return
	}
	response.OK(c, nil, "Review deleted successfully")
}

func (rc *ReviewController) ProductReviews(c *gin.Context) {
	reviews, err := rc.reviews.ProductReviews(c.Request.Context(), c.Param("productId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, reviews, "Product reviews fetched successfully")
}
