// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"cinetix/internal/movies"
	"cinetix/internal/purchases"
	"cinetix/internal/reservations"
	"cinetix/internal/shared/config"
	"cinetix/internal/shared/database"
	"cinetix/internal/showings"
	"cinetix/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	events reservations.EventPublisher

	// Shared services, wired once and injected across features
	cacheService       cache.Service
	showingService     showings.Service
	reservationService reservations.Service
}

// NewRouter creates a new router instance. events may be nil when the
// Kafka producer is disabled.
func NewRouter(cfg *config.Config, db *database.DB, events reservations.EventPublisher) *Router {
	return &Router{
		config: cfg,
		db:     db,
		events: events,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	r.cacheService = cache.NewService(r.db.GetRedisClient())

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Seat maps first: reservations and purchases depend on the
		// showing service.
		r.setupShowingRoutes(api)
		r.setupReservationRoutes(api)
		r.setupPurchaseRoutes(api)
		r.setupMovieRoutes(api)
	}
}

// ReservationService exposes the hold service for the expiry sweeper.
// SetupRoutes must run first.
func (r *Router) ReservationService() reservations.Service {
	return r.reservationService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinetix-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinetix-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupShowingRoutes configures showing browse and seat map routes
func (r *Router) setupShowingRoutes(rg *gin.RouterGroup) {
	showingRepo := showings.NewRepository(r.db.GetPostgreSQL())
	r.showingService = showings.NewService(showingRepo, r.cacheService, r.config.Redis.SeatMapTTL)
	showingController := showings.NewController(r.showingService)

	showings.SetupShowingRoutes(rg, showingController)
}

// setupReservationRoutes configures the seat blocking routes
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	r.reservationService = reservations.NewService(
		reservationRepo,
		r.showingService,
		r.events,
		r.config.Reservation.HoldTTL,
		r.config.Reservation.MaxSeatsPerHold,
	)
	reservationController := reservations.NewController(r.reservationService)

	reservations.SetupReservationRoutes(rg, reservationController)
}

// setupPurchaseRoutes configures checkout and ticket routes
func (r *Router) setupPurchaseRoutes(rg *gin.RouterGroup) {
	purchaseRepo := purchases.NewRepository(r.db.GetPostgreSQL())
	purchaseService := purchases.NewService(
		purchaseRepo,
		r.reservationService,
		r.showingService,
		asPurchaseEvents(r.events),
	)
	purchaseController := purchases.NewController(purchaseService)

	purchases.SetupPurchaseRoutes(rg, purchaseController)
}

// setupMovieRoutes configures the movie catalog routes
func (r *Router) setupMovieRoutes(rg *gin.RouterGroup) {
	movieRepo := movies.NewRepository(r.db.GetPostgreSQL())
	movieService := movies.NewService(movieRepo, r.cacheService, r.config.Redis.CatalogTTL)
	movieController := movies.NewController(movieService)

	movies.SetupMovieRoutes(rg, movieController)
}

// asPurchaseEvents adapts the shared publisher; both packages declare
// the same one-method interface, but a typed nil must stay nil.
func asPurchaseEvents(events reservations.EventPublisher) purchases.EventPublisher {
	if events == nil {
		return nil
	}
	return events
}
