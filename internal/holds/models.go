package holds

import (
	"bytes"
	"encoding/json"
	"time"
)

// Progress is an opaque snapshot of where the user is inside the multi-step
// booking flow (selected date/time/room, current route). It carries enough
// state to drop the user back where they left off when they resume.
type Progress struct {
	Step string          `json:"step"`
	Data json.RawMessage `json:"data,omitempty"`
	Path string          `json:"path"`
}

// Equal reports whether two progress snapshots carry the same step, path and
// payload. Used to suppress redundant persistence writes.
func (p Progress) Equal(other Progress) bool {
	return p.Step == other.Step &&
		p.Path == other.Path &&
		bytes.Equal(p.Data, other.Data)
}

// BookingHold tracks one in-flight PENDING booking. The deadline is fixed at
// creation and never extended; user activity does not refresh it.
type BookingHold struct {
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	MovieName string    `json:"movie_name"`
	Deadline  time.Time `json:"deadline"`
	Progress  Progress  `json:"progress"`
}

// RemainingSeconds recomputes the countdown from the absolute deadline.
// Always derived from wall clock so tab-sleep or missed ticks self-correct.
func (h BookingHold) RemainingSeconds(now time.Time) int {
	secs := int(h.Deadline.Sub(now) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// Expired reports whether the hold has run out of time.
func (h BookingHold) Expired(now time.Time) bool {
	return h.RemainingSeconds(now) == 0
}

// HoldView is the shape the timer widget renders.
type HoldView struct {
	BookingID        string    `json:"booking_id"`
	MovieName        string    `json:"movie_name"`
	Deadline         time.Time `json:"deadline"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Progress         Progress  `json:"progress"`
}

func (h BookingHold) toView(now time.Time) HoldView {
	return HoldView{
		BookingID:        h.BookingID,
		MovieName:        h.MovieName,
		Deadline:         h.Deadline,
		RemainingSeconds: h.RemainingSeconds(now),
		Progress:         h.Progress,
	}
}
