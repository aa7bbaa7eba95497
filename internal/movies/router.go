package movies

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupMovieRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse the catalog
	publicMovies := router.Group("/movies")
	{
		publicMovies.GET("", controller.GetAllMovies)             // GET /api/v1/movies?status=
		publicMovies.GET("/:movieId", controller.GetMovie)        // GET /api/v1/movies/:movieId
		publicMovies.GET("/search/:text", controller.SearchMovies) // GET /api/v1/movies/search/:text
	}

	// Admin routes - catalog management
	adminMovies := router.Group("/admin/movies")
	adminMovies.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminMovies.POST("", controller.CreateMovie)            // POST /api/v1/admin/movies
		adminMovies.PUT("/:movieId", controller.UpdateMovie)    // PUT /api/v1/admin/movies/:movieId
		adminMovies.DELETE("/:movieId", controller.DeleteMovie) // DELETE /api/v1/admin/movies/:movieId
	}
}
