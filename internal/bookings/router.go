package bookings

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller *Controller) {
	bookings := router.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		bookings.POST("", controller.CreateBooking)
		bookings.GET("", controller.ListBookings)
		bookings.GET("/all", middleware.RequireAdmin(), controller.ListAllBookings)
		bookings.GET("/:id", controller.GetBooking)
		bookings.POST("/:id/confirm", controller.ConfirmBooking)
		bookings.POST("/:id/cancel", controller.CancelBooking)
		bookings.PUT("/:id/progress", controller.UpdateProgress)
	}
}
