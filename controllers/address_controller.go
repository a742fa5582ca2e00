package controllers

import (
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/gin-gonic/gin"
)

type AddressController struct {
	addresses AddressServiceAPI
}

func NewAddressController(addresses AddressServiceAPI) *AddressController {
	return &AddressController{addresses: addresses}
}

func (ac *AddressController) Add(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req services.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("All fields are required"))
		return
	}
	address, err := ac.addresses.Add(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Created(c, address, "Address saved successfully")
}

func (ac *AddressController) List(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	addresses, err := ac.addresses.List(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, addresses, "Addresses fetched successfully")
}

func (ac *AddressController) Get(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	address, err := ac.addresses.Get(c.Request.Context(), userID, c.Param("addressId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, address, "Address fetched successfully")
}

func (ac *AddressController) Edit(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req services.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("Invalid address body"))
		return
	}
	address, err := ac.addresses.Edit(c.Request.Context(), userID, c.Param("addressId"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, address, "Address updated successfully")
}

func (ac *AddressController) Delete(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	if err := ac.addresses.Delete(c.Request.Context(), userID, c.Param("addressId")); err != nil {
		c.Error(err)
		return
	}
	response.OK(c, nil, "Address deleted successfully")
}

func (ac *AddressController) HasAddress(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	status, err := ac.addresses.HasAddress(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, status, "addresses fetched successfully")
}

func (ac *AddressController) Restore(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	address, err := ac.addresses.Restore(c.Request.Context(), userID, c.Param("addressId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, address, "Address restored successfully")
}

func (ac *AddressController) ListDeleted(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	addresses, err := ac.addresses.ListDeleted(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, addresses, "Deleted addresses fetched successfully")
}
