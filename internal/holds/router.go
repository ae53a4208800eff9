package holds

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupHoldRoutes(router *gin.RouterGroup, controller Controller) {
	userHolds := router.Group("/holds")
	userHolds.Use(middleware.JWTAuth())
	{
		userHolds.GET("", controller.GetActiveHolds)                  // GET /api/v1/holds - Timer widget source
		userHolds.GET("/events", controller.StreamEvents)             // GET /api/v1/holds/events - SSE stream
		userHolds.PUT("/location", controller.ReportLocation)         // PUT /api/v1/holds/location - Route ping
		userHolds.POST("/:bookingId/resume", controller.ResumeHold)   // POST /api/v1/holds/:bookingId/resume
	}
}
