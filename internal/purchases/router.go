package purchases

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPurchaseRoutes(router *gin.RouterGroup, controller Controller) {
	// Payment method catalog is public - the checkout screen loads it
	// before any authentication decision.
	router.GET("/payment-methods", controller.ListPaymentMethods)

	// Checkout: anonymous sessions finalize too
	purchaseRoutes := router.Group("/purchases")
	purchaseRoutes.Use(middleware.OptionalAuth())
	{
		purchaseRoutes.POST("", controller.Finalize)                // POST /api/v1/purchases
		purchaseRoutes.GET("/:purchaseId", controller.GetPurchase)  // GET /api/v1/purchases/:purchaseId
	}

	// Staff walk-up sales at the box office
	staffRoutes := router.Group("/purchases/staff")
	staffRoutes.Use(middleware.JWTAuth(), middleware.RequireStaff())
	{
		staffRoutes.POST("", controller.FinalizeWalkUp) // POST /api/v1/purchases/staff
	}

	// Account pages
	userRoutes := router.Group("/users/me")
	userRoutes.Use(middleware.JWTAuth())
	{
		userRoutes.GET("/purchases", controller.ListMyPurchases) // GET /api/v1/users/me/purchases
		userRoutes.GET("/tickets", controller.ListMyTickets)     // GET /api/v1/users/me/tickets
	}

	// Admin catalog management
	adminRoutes := router.Group("/admin/payment-methods")
	adminRoutes.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRoutes.POST("", controller.CreatePaymentMethod) // POST /api/v1/admin/payment-methods
	}
}
