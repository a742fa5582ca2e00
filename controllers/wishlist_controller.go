package controllers

import (
	"net/http"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/gin-gonic/gin"
)

type WishListNameRequest struct {
	Name string `json:"name"`
}

type WishListController struct {
	lists WishListServiceAPI
}

func NewWishListController(lists WishListServiceAPI) *WishListController {
	return &WishListController{lists: lists}
}

func (wc *WishListController) Add(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req WishListNameRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	list, added, err := wc.lists.Add(c.Request.Context(), userID, c.Param("productId"), req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	if !added {
		response.OK(c, list, "Product already exists in wishlist")
		return
	}
	response.JSON(c, http.StatusCreated, list, "Item added to wishlist successfully")
}

func (wc *WishListController) GetAll(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	lists, err := wc.lists.GetAll(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, lists, "User wishlists fetched successfully")
}

func (wc *WishListController) Get(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	list, err := wc.lists.Get(c.Request.Context(), userID, c.Query("name"))
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, list, "Wishlist fetched successfully")
}

func (wc *WishListController) Remove(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req WishListNameRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	list, err := wc.lists.Remove(c.Request.Context(), userID, c.Param("productId"), req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, list, "Item removed from wishlist successfully")
}

func (wc *WishListController) Delete(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req WishListNameRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	if err := wc.lists.Delete(c.Request.Context(), userID, req.Name); err != nil {
		c.Error(err)
		return
	}
	response.OK(c, nil, "Wishlist deleted successfully")
}
