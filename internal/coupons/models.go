package coupons

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountFlat    DiscountType = "FLAT"
)

type Coupon struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Code         string       `json:"code" gorm:"uniqueIndex;not null;size:50"`
	Description  string       `json:"description" gorm:"size:255"`
	DiscountType DiscountType `json:"discount_type" gorm:"type:varchar(10);not null"`
	Value        float64      `json:"value" gorm:"not null;check:value > 0"`
	MaxUses      int          `json:"max_uses" gorm:"default:0"` // 0 = unlimited
	UsedCount    int          `json:"used_count" gorm:"default:0"`
	ValidFrom    time.Time    `json:"valid_from"`
	ValidUntil   time.Time    `json:"valid_until"`
	Active       bool         `json:"active" gorm:"default:true"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

type CreateCouponRequest struct {
	Code         string    `json:"code" binding:"required,min=3,max=50"`
	Description  string    `json:"description" binding:"max=255"`
	DiscountType string    `json:"discount_type" binding:"required,oneof=PERCENT FLAT"`
	Value        float64   `json:"value" binding:"required,gt=0"`
	MaxUses      int       `json:"max_uses" binding:"omitempty,min=0"`
	ValidFrom    time.Time `json:"valid_from" binding:"required"`
	ValidUntil   time.Time `json:"valid_until" binding:"required"`
}

type ValidateCouponRequest struct {
	Code   string  `json:"code" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type ValidateCouponResponse struct {
	Code          string  `json:"code"`
	Valid         bool    `json:"valid"`
	Discount      float64 `json:"discount"`
	AmountAfter   float64 `json:"amount_after"`
	InvalidReason string  `json:"invalid_reason,omitempty"`
}

// Discount computes the amount knocked off an order total, capped at
// the total itself.
func (c *Coupon) Discount(amount float64) float64 {
	var d float64
	switch c.DiscountType {
	case DiscountPercent:
		d = amount * c.Value / 100
	case DiscountFlat:
		d = c.Value
	}
	if d > amount {
		d = amount
	}
	return d
}

func (c *Coupon) UsableAt(now time.Time) (bool, string) {
	if !c.Active {
		return false, "coupon is inactive"
	}
	if now.Before(c.ValidFrom) {
		return false, "coupon is not yet valid"
	}
	if now.After(c.ValidUntil) {
		return false, "coupon has expired"
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return false, "coupon usage limit reached"
	}
	return true, ""
}
