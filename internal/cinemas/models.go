package cinemas

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SeatType string

const (
	SeatStandard SeatType = "STANDARD"
	SeatPremium  SeatType = "PREMIUM"
	SeatWheelch  SeatType = "ACCESSIBLE"
)

type Cinema struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	City      string    `json:"city" gorm:"not null;size:100;index"`
	Address   string    `json:"address" gorm:"size:500"`
	Rooms     []Room    `json:"rooms,omitempty" gorm:"foreignKey:CinemaID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Room struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CinemaID  uuid.UUID `json:"cinema_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Rows      int       `json:"rows" gorm:"not null;check:rows > 0"`
	SeatsRow  int       `json:"seats_per_row" gorm:"not null;check:seats_row > 0"`
	Seats     []Seat    `json:"seats,omitempty" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Seat struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	RoomID     uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_room_seat"`
	Row        string    `json:"row" gorm:"not null;size:5;uniqueIndex:idx_room_seat"`
	Number     int       `json:"number" gorm:"not null;uniqueIndex:idx_room_seat"`
	Type       SeatType  `json:"type" gorm:"type:varchar(20);default:'STANDARD'"`
	PriceDelta float64   `json:"price_delta" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Label is the human-facing seat identifier, e.g. "C7".
func (s *Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}

type CreateCinemaRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	City    string `json:"city" binding:"required,min=2,max=100"`
	Address string `json:"address" binding:"max=500"`
}

type UpdateCinemaRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	City    *string `json:"city" binding:"omitempty,min=2,max=100"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Rows        int    `json:"rows" binding:"required,min=1,max=50"`
	SeatsPerRow int    `json:"seats_per_row" binding:"required,min=1,max=50"`
}

type CinemaListQuery struct {
	City string `form:"city"`
}

type SeatResponse struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Row        string   `json:"row"`
	Number     int      `json:"number"`
	Type       SeatType `json:"type"`
	PriceDelta float64  `json:"price_delta"`
}

func toSeatResponse(s *Seat) SeatResponse {
	return SeatResponse{
		ID:         s.ID.String(),
		Label:      s.Label(),
		Row:        s.Row,
		Number:     s.Number,
		Type:       s.Type,
		PriceDelta: s.PriceDelta,
	}
}
