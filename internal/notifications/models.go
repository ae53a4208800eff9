package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	KindBookingCreated   EventKind = "booking_created"
	KindBookingConfirmed EventKind = "booking_confirmed"
	KindBookingCancelled EventKind = "booking_cancelled"
	KindHoldStarted      EventKind = "hold_started"
	KindHoldExpired      EventKind = "hold_expired"
)

// BookingNotification is the wire format published to Kafka for every
// booking and hold lifecycle change.
type BookingNotification struct {
	ID        string          `json:"id"`
	Kind      EventKind       `json:"kind"`
	BookingID string          `json:"booking_id"`
	UserID    string          `json:"user_id"`
	Message   string          `json:"message,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewBookingNotification(kind EventKind, bookingID, userID, message string) *BookingNotification {
	return &BookingNotification{
		ID:        uuid.NewString(),
		Kind:      kind,
		BookingID: bookingID,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

func (n *BookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// PartitionKey routes all of a user's notifications to one partition
// so their ordering is preserved.
func (n *BookingNotification) PartitionKey() string {
	if n.UserID != "" {
		return n.UserID
	}
	return n.BookingID
}
