// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/reipand/TripGo-sub000/internal/booking"
	"github.com/reipand/TripGo-sub000/internal/inventory"
	"github.com/reipand/TripGo-sub000/internal/itinerary"
	"github.com/reipand/TripGo-sub000/internal/promotions"
	"github.com/reipand/TripGo-sub000/internal/shared/config"
	"github.com/reipand/TripGo-sub000/internal/shared/database"
	"github.com/reipand/TripGo-sub000/internal/shared/middleware"
	"github.com/reipand/TripGo-sub000/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	usageProducer promotions.UsageProducer

	// Services shared across route groups
	promoService promotions.Service
}

// NewRouter creates a new router instance. The usage producer may be nil when
// Kafka is disabled.
func NewRouter(cfg *config.Config, db *database.DB, usageProducer promotions.UsageProducer) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		usageProducer: usageProducer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Promotion routes first so the booking flow can reuse the service
		r.setupPromotionRoutes(api)

		// Booking workflow routes
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tripgo-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tripgo-backend",
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

// setupPromotionRoutes configures promotion catalog and validation routes
func (r *Router) setupPromotionRoutes(rg *gin.RouterGroup) {
	promoRepo := promotions.NewRepository(r.db.GetPostgreSQL())
	promoService := promotions.NewService(promoRepo)
	if r.usageProducer != nil {
		promoService.SetUsageProducer(r.usageProducer)
	}
	promoController := promotions.NewController(promoService)

	// Keep the service for booking flow injection
	r.promoService = promoService

	promotions.SetupPromotionRoutes(rg, promoController)
}

// setupBookingRoutes wires the whole booking workflow: itinerary composition,
// seat inventory loading, session store and the orchestrating service.
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	cacheService := cache.NewService(r.db.GetRedisClient())

	itineraryClient := itinerary.NewHTTPOptionsClient(r.config.Partner.RoutesBaseURL, r.config.Partner.Timeout)
	itineraryService := itinerary.NewService(itineraryClient, r.config.Booking.DefaultFare)
	itineraryService.SetCacheService(cacheService)

	inventoryClient := inventory.NewHTTPClient(r.config.Partner.InventoryBaseURL, r.config.Partner.Timeout)
	inventoryService := inventory.NewService(inventoryClient)
	inventoryService.SetCacheService(cacheService, r.config.Redis.InventoryTTL)

	store := booking.NewRedisSessionStore(cacheService, r.config.Redis.SessionTTL)
	bookingService := booking.NewService(store, itineraryService, inventoryService, r.promoService, r.config)
	bookingController := booking.NewController(bookingService)

	// Booking mutations require an authenticated caller
	guarded := rg.Group("")
	guarded.Use(middleware.JWTAuth(r.config))
	booking.SetupBookingRoutes(guarded, bookingController)
}
