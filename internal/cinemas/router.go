package cinemas

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCinemaRoutes(router *gin.RouterGroup, controller *Controller) {
	public := router.Group("/cinemas")
	{
		public.GET("", controller.ListCinemas)
		public.GET("/:id", controller.GetCinema)
		public.GET("/rooms/:roomId/seats", controller.GetRoomSeats)
	}

	admin := router.Group("/cinemas")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateCinema)
		admin.PUT("/:id", controller.UpdateCinema)
		admin.DELETE("/:id", controller.DeleteCinema)
		admin.POST("/:id/rooms", controller.CreateRoom)
		admin.DELETE("/rooms/:roomId", controller.DeleteRoom)
	}
}
