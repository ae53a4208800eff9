package showtimes

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupShowtimeRoutes(router *gin.RouterGroup, controller *Controller) {
	public := router.Group("/showtimes")
	{
		public.GET("", controller.ListShowtimes)
		public.GET("/:id", controller.GetShowtime)
		public.GET("/:id/seats", controller.GetSeatMap)
	}

	admin := router.Group("/showtimes")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateShowtime)
		admin.DELETE("/:id", controller.DeleteShowtime)
	}
}
