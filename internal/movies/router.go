package movies

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupMovieRoutes(router *gin.RouterGroup, controller *Controller) {
	public := router.Group("/movies")
	{
		public.GET("", controller.ListMovies)
		public.GET("/now-showing", controller.NowShowing)
		public.GET("/:id", controller.GetMovie)
	}

	admin := router.Group("/movies")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateMovie)
		admin.PUT("/:id", controller.UpdateMovie)
		admin.DELETE("/:id", controller.DeleteMovie)
	}
}
