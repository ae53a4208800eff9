package bookings

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID         uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	ShowtimeID     uuid.UUID     `json:"showtime_id" gorm:"type:uuid;not null;index"`
	Status         Status        `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TotalAmount    float64       `json:"total_amount" gorm:"not null;check:total_amount >= 0"`
	DiscountAmount float64       `json:"discount_amount" gorm:"default:0"`
	CouponCode     string        `json:"coupon_code,omitempty" gorm:"size:50"`
	Seats          []BookingSeat `json:"seats,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	Payment        *Payment      `json:"payment,omitempty" gorm:"foreignKey:BookingID"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

type BookingSeat struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	SeatID    uuid.UUID `json:"seat_id" gorm:"type:uuid;not null;index"`
	Label     string    `json:"label" gorm:"not null;size:10"`
	Price     float64   `json:"price" gorm:"not null"`
}

type Payment struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID uuid.UUID     `json:"booking_id" gorm:"type:uuid;not null;uniqueIndex"`
	Amount    float64       `json:"amount" gorm:"not null"`
	Method    string        `json:"method" gorm:"size:50"`
	Status    PaymentStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaidAt    *time.Time    `json:"paid_at,omitempty"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

type CreateBookingRequest struct {
	ShowtimeID string   `json:"showtime_id" binding:"required,uuid"`
	SeatIDs    []string `json:"seat_ids" binding:"required,min=1,max=10,dive,uuid"`
	CouponCode string   `json:"coupon_code" binding:"omitempty,max=50"`
}

type ConfirmBookingRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=card upi wallet"`
}

type UpdateProgressRequest struct {
	Step string          `json:"step" binding:"required,max=100"`
	Data json.RawMessage `json:"data"`
	Path string          `json:"path" binding:"required,max=500"`
}

type BookingResponse struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	ShowtimeID     string        `json:"showtime_id"`
	MovieTitle     string        `json:"movie_title,omitempty"`
	Status         Status        `json:"status"`
	TotalAmount    float64       `json:"total_amount"`
	DiscountAmount float64       `json:"discount_amount"`
	CouponCode     string        `json:"coupon_code,omitempty"`
	Seats          []BookingSeat `json:"seats"`
	HoldExpiresAt  *time.Time    `json:"hold_expires_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

type BookingListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
}

type AdminBookingListQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
	ShowtimeID string `form:"showtime_id" binding:"omitempty,uuid"`
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
}
