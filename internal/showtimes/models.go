package showtimes

import (
	"time"

	"github.com/google/uuid"
)

type Showtime struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID   uuid.UUID `json:"movie_id" gorm:"type:uuid;not null;index"`
	CinemaID  uuid.UUID `json:"cinema_id" gorm:"type:uuid;not null;index"`
	RoomID    uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index"`
	StartsAt  time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt    time.Time `json:"ends_at" gorm:"not null"`
	BasePrice float64   `json:"base_price" gorm:"not null;check:base_price >= 0"`
	Format    string    `json:"format" gorm:"size:20;default:'2D'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type CreateShowtimeRequest struct {
	MovieID   string    `json:"movie_id" binding:"required,uuid"`
	CinemaID  string    `json:"cinema_id" binding:"required,uuid"`
	RoomID    string    `json:"room_id" binding:"required,uuid"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	EndsAt    time.Time `json:"ends_at" binding:"required"`
	BasePrice float64   `json:"base_price" binding:"required,min=0"`
	Format    string    `json:"format" binding:"omitempty,oneof=2D 3D IMAX"`
}

type ShowtimeListQuery struct {
	MovieID  string `form:"movie_id" binding:"omitempty,uuid"`
	CinemaID string `form:"cinema_id" binding:"omitempty,uuid"`
	Date     string `form:"date"` // YYYY-MM-DD
}

// SeatAvailability marks a seat as taken when it is either booked or
// currently locked by an in-flight booking.
type SeatAvailability struct {
	SeatID string `json:"seat_id"`
	Label  string `json:"label"`
	Taken  bool   `json:"taken"`
}

type SeatMapResponse struct {
	ShowtimeID string             `json:"showtime_id"`
	RoomID     string             `json:"room_id"`
	Seats      []SeatAvailability `json:"seats"`
}
