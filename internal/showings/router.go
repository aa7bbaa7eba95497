package showings

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupShowingRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse showings and seat maps
	publicShowings := router.Group("/showings")
	{
		publicShowings.GET("", controller.GetAllShowings)               // GET /api/v1/showings?movieId=
		publicShowings.GET("/:showingId", controller.GetShowing)        // GET /api/v1/showings/:showingId
		publicShowings.GET("/:showingId/seats", controller.GetSeatMap)  // GET /api/v1/showings/:showingId/seats
	}

	// Admin routes - schedule management
	adminShowings := router.Group("/admin")
	adminShowings.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminShowings.POST("/rooms", controller.CreateRoom)       // POST /api/v1/admin/rooms
		adminShowings.POST("/showings", controller.CreateShowing) // POST /api/v1/admin/showings
	}
}
