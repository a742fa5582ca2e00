package controllers

import (
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/gin-gonic/gin"
)

type CategoryStatusRequest struct {
	IsActive string `json:"isActive"`
}

type CategoryController struct {
	categories CategoryServiceAPI
}

func NewCategoryController(categories CategoryServiceAPI) *CategoryController {
	return &CategoryController{categories: categories}
}

func (cc *CategoryController) Create(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Category name is required"))
		return
	}
	category, err := cc.categories.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Created(c, category, "Category created successfully")
}

func (cc *CategoryController) GetAll(c *gin.Context) {
	categories, err := cc.categories.GetAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, categories, "Categories fetched successfully")
}

func (cc *CategoryController) Get(c *gin.Context) {
	category, err := cc.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, category, "category fetched successfully")
}

func (cc *CategoryController) UpdateStatus(c *gin.Context) {
	var req CategoryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Invalid status. Status must be 'active' or 'inactive'"))
		return
	}
	category, err := cc.categories.UpdateStatus(c.Request.Context(), c.Param("id"), req.IsActive)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, category, "category updated successfully")
}

func (cc *CategoryController) Delete(c *gin.Context) {
	category, err := cc.categories.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, category, "Category deleted successfully")
}
