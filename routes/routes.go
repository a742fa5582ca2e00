package routes

import (
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/controllers"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every controller plus the two auth gates.
type Handlers struct {
	Auth      *controllers.AuthController
	Products  *controllers.ProductController
	Category  *controllers.CategoryController
	Cart      *controllers.CartController
	WishList  *controllers.WishListController
	Orders    *controllers.OrderController
	Inventory *controllers.InventoryController
	Reviews   *controllers.ReviewController
	Addresses *controllers.AddressController
	Assistant *controllers.AssistantController
	Health    *controllers.HealthController

	VerifyToken  gin.HandlerFunc
	RequireAdmin gin.HandlerFunc
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api/v1")
	auth := h.VerifyToken
	admin := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{h.VerifyToken, h.RequireAdmin, handler}
	}

	api.GET("/healthCheck", h.Health.Check)

	users := api.Group("/users")
	{
		users.POST("/register", h.Auth.Register)
		users.POST("/login", h.Auth.Login)
		users.POST("/refreshToken", h.Auth.Refresh)
		users.GET("/getAllUsers", admin(h.Auth.GetAllUsers)...)
		users.GET("/getUser", auth, h.Auth.GetUser)
		users.GET("/logout", auth, h.Auth.Logout)
		users.POST("/changePass", auth, h.Auth.ChangePassword)
		users.GET("/getReferred", auth, h.Auth.GetReferredUsers)
	}

	product := api.Group("/product")
	{
		product.GET("/getSingleProduct", h.Products.GetSingle)
		product.GET("/getAll", h.Products.GetAll)
		product.POST("/getField", h.Products.SearchByField)
		product.GET("/get", h.Products.SearchByName)
		product.POST("/addProduct", admin(h.Products.Create)...)
		product.DELETE("/delete/:productId", admin(h.Products.Delete)...)
		product.PATCH("/edit/:productId", admin(h.Products.Edit)...)
		product.DELETE("/deleteAllProducts", admin(h.Products.DeleteAll)...)
	}

	category := api.Group("/category")
	{
		category.POST("/create", admin(h.Category.Create)...)
		category.GET("/getAll", h.Category.GetAll)
		category.GET("/get/:id", h.Category.Get)
		category.PATCH("/update/:id", admin(h.Category.UpdateStatus)...)
		category.DELETE("/delete/:id", admin(h.Category.Delete)...)
	}

	cart := api.Group("/cart", auth)
	{
		cart.POST("/addToCart", h.Cart.Add)
		cart.GET("/getCartData", h.Cart.Get)
		cart.PUT("/update", h.Cart.Update)
		cart.DELETE("/removeCartItem", h.Cart.Remove)
		cart.DELETE("/clearCart", h.Cart.Clear)
	}

	wishList := api.Group("/wishList", auth)
	{
		wishList.POST("/add/:productId", h.WishList.Add)
		wishList.GET("/get", h.WishList.Get)
		wishList.DELETE("/delete", h.WishList.Delete)
		wishList.PATCH("/remove/:productId", h.WishList.Remove)
		wishList.GET("/getAll", h.WishList.GetAll)
	}

	review := api.Group("/review")
	{
		review.POST("/add", auth, h.Reviews.Add)
		review.GET("/getReviews/:productId", h.Reviews.ProductReviews)
		review.PATCH("/edit/:reviewId", auth, h.Reviews.Edit)
		review.DELETE("/delete/:reviewId", auth, h.Reviews.Delete)
	}

	address := api.Group("/address", auth)
	{
		address.POST("/add", h.Addresses.Add)
		address.GET("/get", h.Addresses.List)
		address.GET("/getSingle/:addressId", h.Addresses.Get)
		address.POST("/edit/:addressId", h.Addresses.Edit)
		address.DELETE("/delete/:addressId", h.Addresses.Delete)
		address.GET("/hasAddress", h.Addresses.HasAddress)
		address.PATCH("/restore/:addressId", h.Addresses.Restore)
		address.GET("/getDeletedAddresses", h.Addresses.ListDeleted)
	}

	order := api.Group("/order")
	{
		order.POST("/cartOrder", auth, h.Orders.FromCart)
		order.POST("/buyNowOrder", auth, h.Orders.BuyNow)
		order.POST("/verify", auth, h.Orders.Verify)
		order.GET("/get", auth, h.Orders.GetUserOrders)
		order.GET("/getAll", admin(h.Orders.GetAllOrders)...)
		order.POST("/webhook/stripe", h.Orders.StripeWebhook)
	}

	inventory := api.Group("/inventory", h.VerifyToken, h.RequireAdmin)
	{
		inventory.PUT("/restockProduct", h.Inventory.Restock)
		inventory.POST("/checkLowStock", h.Inventory.CheckLowStock)
		inventory.GET("/getStockDetails", h.Inventory.StockDetails)
	}

	api.POST("/ai/prompt", h.Assistant.Prompt)
}
