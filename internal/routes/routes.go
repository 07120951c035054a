package routes

import (
	"github.com/gin-gonic/gin"

	"ecom_back_end/internal/handlers/cart"
	"ecom_back_end/internal/handlers/order"
	"ecom_back_end/internal/handlers/product"
	"ecom_back_end/internal/handlers/user"
	"ecom_back_end/internal/handlers/wishlist"
	"ecom_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Users
	users := api.Group("/users")
	{
		users.POST("/register", user.Register)
		users.POST("/login", user.Login)
		users.POST("/admin/register", user.CreateAdmin)

		authed := users.Group("", middleware.Authenticate())
		{
			authed.GET("/logout", user.Logout)
			authed.GET("/getuser", user.GetUser)
			authed.POST("/changePassword", user.ChangePassword)
			authed.POST("/forcedLogout", user.ForcedLogout)
			authed.POST("/admin/register/manager", user.CreateManager)
			authed.GET("/admin/getAlluser", user.GetAllUsers)
			authed.GET("/admin/getAlluserWithLimt", user.GetAllUsersWithLimit)
		}
	}

	// Products — lecture publique, mutations réservées admin/manager
	products := api.Group("/products")
	{
		products.GET("/allProduct", product.GetAllProducts)
		products.GET("/getAllProductsWithLimits", product.GetAllProductsWithLimits)
		products.GET("/getProductByCategory", product.GetProductByCategory)
		products.GET("/getProductByCategoryWithLimit", product.GetProductByCategoryWithLimit)
		products.GET("/getAllCategoryName", product.GetAllCategoryNames)
		products.GET("/search", product.SearchProducts)

		authed := products.Group("", middleware.Authenticate())
		{
			authed.POST("/register", product.RegisterProduct)
			authed.PATCH("/update/:productId", product.UpdateProduct)
			authed.DELETE("/:productId", product.DeleteProduct)
		}

		// en dernier pour ne pas capturer les routes nommées
		products.GET("/:productId", product.GetSingleProduct)
	}

	// Cart
	carts := api.Group("/cart", middleware.Authenticate())
	{
		carts.GET("/getCart", cart.GetCart)
		carts.POST("/addCartProduct", cart.AddToCart)
		carts.POST("/updateCartProduct", cart.UpdateCartQuantity)
		carts.POST("/bulkAdd", cart.BulkAdd)
		carts.DELETE("/removeCartProduct/:productId", cart.RemoveFromCart)
		carts.DELETE("/clear", cart.ClearCart)
		carts.GET("/ws", cart.CartWebSocket)
	}

	// Orders — le suivi par tracking id est public
	orders := api.Group("/orders")
	{
		authed := orders.Group("", middleware.Authenticate())
		{
			authed.POST("/placeOrder", order.PlaceOrder)
			authed.POST("/updateOrderStatus", order.UpdateOrderStatus)
			authed.GET("/getAllOrder", order.GetAllOrder)
			authed.GET("/getAllOrderByLimitAndSkip", order.GetAllOrderByLimitAndSkip)
			authed.POST("/getGraphData", order.GetGraphData)
			authed.GET("/getOrder", order.GetOrderByUser)
			authed.POST("/getOrderByUserEmail/:customerEmail", order.GetOrderByUserEmail)
		}

		orders.GET("/:orderId", order.GetSingleOrder)
	}

	// Wishlist
	wish := api.Group("/wishList", middleware.Authenticate())
	{
		wish.POST("/addToWishlist/:productId", wishlist.AddToWishlist)
		wish.GET("/getWishlist", wishlist.GetWishlist)
		wish.DELETE("/removeWishlist/:productId", wishlist.RemoveFromWishlist)
	}
}
