package controllers

import (
	"fmt"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FieldSearchRequest struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

type ProductController struct {
	products  ProductServiceAPI
	validator *RequestValidator
}

func NewProductController(products ProductServiceAPI, validator *RequestValidator) *ProductController {
	return &ProductController{products: products, validator: validator}
}

func (pc *ProductController) GetAll(c *gin.Context) {
	page, perPage, err := pc.validator.ParsePagination(c)
	if err != nil {
		c.Error(err)
		return
	}
	products, err := pc.products.List(c.Request.Context(), page, perPage)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, products, fmt.Sprintf("total %d products fetched successfully", len(products)))
}

func (pc *ProductController) GetSingle(c *gin.Context) {
	product, err := pc.products.GetSingle(c.Request.Context(), c.Query("productId"), c.Query("barcodeNumber"))
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, product, "product found successfully")
}

func (pc *ProductController) SearchByName(c *gin.Context) {
	products, err := pc.products.SearchByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, products, "Products fetched successfully")
}

func (pc *ProductController) SearchByField(c *gin.Context) {
	var req FieldSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Field and value are required"))
		return
	}
	products, err := pc.products.SearchByField(c.Request.Context(), req.Field, req.Value)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, products, fmt.Sprintf("Products with %s fetched successfully", req.Field))
}

func (pc *ProductController) Create(c *gin.Context) {
	in, err := pc.validator.ParseCreateProduct(c)
	if err != nil {
		zap.L().Debug("product form rejected", zap.Error(err))
		c.Error(err)
		return
	}
	product, err := pc.products.Create(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Created(c, product, "Product added successfully")
}

func (pc *ProductController) Edit(c *gin.Context) {
	var req services.EditProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("No fields to update"))
		return
	}
	product, err := pc.products.Edit(c.Request.Context(), c.Param("productId"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, product, "Product updated successfully")
}

func (pc *ProductController) Delete(c *gin.Context) {
	product, err := pc.products.Delete(c.Request.Context(), c.Param("productId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, product, "product deleted successfully")
}

func (pc *ProductController) DeleteAll(c *gin.Context) {
	count, err := pc.products.DeleteAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, gin.H{"deletedCount": count}, fmt.Sprintf("%d products deleted successfully", count))
}
