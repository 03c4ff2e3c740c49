// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	store "github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires every API route group
func SetupRoutes(api *gin.RouterGroup, client *store.Client, redisClient *redis.Client,
	view *catalog.View, cfg *config.Config, logger *logrus.Logger) {

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(client, cfg, logger)
	productHandler := handlers.NewProductHandler(client, view, cfg)
	reviewHandler := handlers.NewReviewHandler(client, cfg, logger)
	cartHandler := handlers.NewCartHandler(client, redisClient, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(client, redisClient, view, cfg, logger)
	orderHandler := handlers.NewOrderHandler(client, cfg, logger)
	invoiceHandler := handlers.NewInvoiceHandler(client, cfg, logger)
	wishlistHandler := handlers.NewWishlistHandler(client, cfg)
	messageHandler := handlers.NewMessageHandler(client, cfg, logger)
	couponHandler := handlers.NewCouponHandler(client, cfg)
	profileHandler := handlers.NewUserProfileHandler(client, cfg, logger)
	addressHandler := handlers.NewUserAddressHandler(client, cfg)
	userAdminHandler := handlers.NewUserAdminHandler(client, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(client, cfg)
	inventoryHandler := handlers.NewInventoryHandler(client, cfg)

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	products := api.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/new-arrivals", productHandler.GetNewArrivals)
		products.GET("/best-sellers", productHandler.GetBestSellers)
		products.GET("/facets", productHandler.GetFacets)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/variants", productHandler.GetProductVariants)
		products.GET("/:id/reviews", reviewHandler.GetProductReviews)

		products.GET("/:id/reviews/eligibility", middleware.AuthMiddleware(cfg), reviewHandler.CanReview)
	}

	// Cart works for guests (X-Session-ID header) and logged-in users alike
	cart := api.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.GET("/count", cartHandler.GetCartItemCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:productId", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:productId", cartHandler.RemoveFromCart)
	}
	api.POST("/cart/merge", middleware.AuthMiddleware(cfg), cartHandler.MergeCart)

	// Authenticated customer routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		checkout := protected.Group("/checkout")
		{
			checkout.GET("/summary", checkoutHandler.GetSummary)
			checkout.POST("", checkoutHandler.PlaceOrder)
			checkout.POST("/coupon", checkoutHandler.ValidateCoupon)
		}

		orders := protected.Group("/orders")
		{
			orders.GET("", orderHandler.GetUserOrders)
			orders.GET("/returns", orderHandler.GetReturnRequests)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
			orders.POST("/:id/return", orderHandler.RequestReturn)
			orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
			orders.GET("/:id/invoice/data", invoiceHandler.GetInvoiceData)
		}

		protected.POST("/reviews", reviewHandler.CreateReview)

		wishlist := protected.Group("/wishlist")
		{
			wishlist.GET("", wishlistHandler.GetWishlist)
			wishlist.POST("", wishlistHandler.AddToWishlist)
			wishlist.GET("/count", wishlistHandler.GetWishlistCount)
			wishlist.GET("/:productId/status", wishlistHandler.CheckWishlist)
			wishlist.DELETE("/:productId", wishlistHandler.RemoveFromWishlist)
		}

		messages := protected.Group("/messages")
		{
			messages.POST("", messageHandler.SendMessage)
			messages.GET("/unread", messageHandler.GetUnreadCount)
			messages.GET("/orders/:orderId", messageHandler.GetThread)
			messages.POST("/orders/:orderId/read", messageHandler.MarkThreadRead)
		}

		users := protected.Group("/users")
		{
			users.GET("/profile", profileHandler.GetProfile)
			users.PUT("/profile", profileHandler.UpdateProfile)

			users.GET("/addresses", addressHandler.GetAddresses)
			users.POST("/addresses", addressHandler.CreateAddress)
			users.PUT("/addresses/:id", addressHandler.UpdateAddress)
			users.DELETE("/addresses/:id", addressHandler.DeleteAddress)
			users.POST("/addresses/:id/default", addressHandler.SetDefaultAddress)
		}
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		adminProducts := admin.Group("/products")
		{
			adminProducts.GET("", productHandler.GetAllProducts)
			adminProducts.POST("", productHandler.CreateProduct)
			adminProducts.PUT("/:id", productHandler.UpdateProduct)
			adminProducts.DELETE("/:id", productHandler.DeleteProduct)
		}

		adminOrders := admin.Group("/orders")
		{
			adminOrders.GET("", orderHandler.GetOrders)
			adminOrders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}

		adminReviews := admin.Group("/reviews")
		{
			adminReviews.GET("", reviewHandler.GetAllReviews)
			adminReviews.POST("/:id/reply", reviewHandler.ReplyToReview)
			adminReviews.DELETE("/:id", reviewHandler.DeleteReview)
		}

		adminCoupons := admin.Group("/coupons")
		{
			adminCoupons.GET("", couponHandler.GetCoupons)
			adminCoupons.POST("", couponHandler.CreateCoupon)
			adminCoupons.DELETE("/:id", couponHandler.DeleteCoupon)
		}

		adminUsers := admin.Group("/users")
		{
			adminUsers.GET("", userAdminHandler.GetUsers)
			adminUsers.GET("/:id", userAdminHandler.GetUser)
			adminUsers.PUT("/:id/status", userAdminHandler.UpdateUserStatus)
		}

		adminAnalytics := admin.Group("/analytics")
		{
			adminAnalytics.GET("/dashboard", analyticsHandler.GetDashboardStats)
			adminAnalytics.GET("/top-products", analyticsHandler.GetTopProducts)
		}

		adminInventory := admin.Group("/inventory")
		{
			adminInventory.GET("/report", inventoryHandler.GetStockReport)
			adminInventory.GET("/low-stock", inventoryHandler.GetLowStockProducts)
		}
	}
}
