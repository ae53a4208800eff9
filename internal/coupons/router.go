package coupons

import (
	"cinetix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCouponRoutes(router *gin.RouterGroup, controller *Controller) {
	coupons := router.Group("/coupons")
	coupons.Use(middleware.JWTAuth())
	{
		coupons.POST("/validate", controller.ValidateCoupon)

		admin := coupons.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", controller.CreateCoupon)
			admin.GET("", controller.ListCoupons)
			admin.DELETE("/:id", controller.DeactivateCoupon)
		}
	}
}
