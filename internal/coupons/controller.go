package coupons

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinetix/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateCoupon(ctx *gin.Context) {
	var req CreateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	coupon, err := c.service.Create(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCouponExists):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Coupon code already exists", nil, nil)
		case errors.Is(err, ErrInvalidWindow):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Coupon must expire after it becomes valid", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create coupon", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Coupon created successfully", coupon, nil)
}

func (c *Controller) ListCoupons(ctx *gin.Context) {
	coupons, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list coupons", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupons retrieved successfully", coupons, nil)
}

func (c *Controller) ValidateCoupon(ctx *gin.Context) {
	var req ValidateCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.Validate(ctx.Request.Context(), req.Code, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrCouponNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Coupon not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to validate coupon", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon validated", result, nil)
}

func (c *Controller) DeactivateCoupon(ctx *gin.Context) {
	if err := c.service.Deactivate(ctx.Request.Context(), ctx.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrCouponNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Coupon not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to deactivate coupon", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Coupon deactivated", nil, nil)
}
