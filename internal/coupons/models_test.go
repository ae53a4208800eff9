package coupons_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cinetix/internal/coupons"
)

func TestDiscount_PercentCappedAtAmount(t *testing.T) {
	c := &coupons.Coupon{DiscountType: coupons.DiscountPercent, Value: 10}
	assert.Equal(t, 45.0, c.Discount(450))

	c.Value = 150
	assert.Equal(t, 450.0, c.Discount(450))
}

func TestDiscount_FlatCappedAtAmount(t *testing.T) {
	c := &coupons.Coupon{DiscountType: coupons.DiscountFlat, Value: 100}
	assert.Equal(t, 100.0, c.Discount(450))
	assert.Equal(t, 50.0, c.Discount(50))
}

func TestUsableAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	base := coupons.Coupon{
		Active:       true,
		DiscountType: coupons.DiscountPercent,
		Value:        10,
		ValidFrom:    now.Add(-time.Hour),
		ValidUntil:   now.Add(time.Hour),
	}

	t.Run("valid inside window", func(t *testing.T) {
		c := base
		ok, reason := c.UsableAt(now)
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("inactive", func(t *testing.T) {
		c := base
		c.Active = false
		ok, reason := c.UsableAt(now)
		assert.False(t, ok)
		assert.Equal(t, "coupon is inactive", reason)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := base
		c.ValidFrom = now.Add(time.Minute)
		ok, reason := c.UsableAt(now)
		assert.False(t, ok)
		assert.Equal(t, "coupon is not yet valid", reason)
	})

	t.Run("expired", func(t *testing.T) {
		c := base
		c.ValidUntil = now.Add(-time.Minute)
		ok, reason := c.UsableAt(now)
		assert.False(t, ok)
		assert.Equal(t, "coupon has expired", reason)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		c := base
		c.MaxUses = 5
		c.UsedCount = 5
		ok, reason := c.UsableAt(now)
		assert.False(t, ok)
		assert.Equal(t, "coupon usage limit reached", reason)
	})

	t.Run("zero max uses is unlimited", func(t *testing.T) {
		c := base
		c.UsedCount = 10000
		ok, _ := c.UsableAt(now)
		assert.True(t, ok)
	})
}
