package reservations

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(router *gin.RouterGroup, controller Controller) {
	// Anonymous shoppers hold seats too: auth is optional, the session
	// header scopes their reservations instead.
	reservationRoutes := router.Group("/reservations")
	reservationRoutes.Use(middleware.OptionalAuth())
	{
		reservationRoutes.POST("", controller.BlockSeats)                         // POST /api/v1/reservations
		reservationRoutes.GET("/:reservationId", controller.GetReservation)       // GET /api/v1/reservations/:reservationId
		reservationRoutes.DELETE("/:reservationId", controller.CancelReservation) // DELETE /api/v1/reservations/:reservationId
	}
}
