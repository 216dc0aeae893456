package booking

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes registers the booking workflow endpoints. The group is
// expected to already carry auth and rate-limit middleware.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("/search", controller.StartSearch)
		bookings.GET("/:id", controller.GetSession)
		bookings.PUT("/:id/itinerary", controller.SelectItinerary)
		bookings.PUT("/:id/passenger-count", controller.SetPassengerCount)
		bookings.POST("/:id/seats/toggle", controller.ToggleSeat)
		bookings.POST("/:id/seats/auto-select", controller.EnableAutoSelect)
		bookings.PUT("/:id/passengers", controller.SetPassengerDetails)
		bookings.POST("/:id/promo", controller.ApplyPromo)
		bookings.DELETE("/:id/promo", controller.RemovePromo)
		bookings.PUT("/:id/payment-method", controller.SetPaymentMethod)
		bookings.POST("/:id/submit", controller.Submit)
	}
}
