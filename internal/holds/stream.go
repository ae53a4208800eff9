package holds

import (
	"context"
	"sync"
)

// EventType labels what a streamed hold event means to the client.
type EventType string

const (
	EventWarning  EventType = "warning"
	EventError    EventType = "error"
	EventRedirect EventType = "redirect"
	EventTick     EventType = "tick"
)

// Event is one message on a user's hold event stream: a toast to show, a
// route to navigate to, or a countdown snapshot for the timer widget.
type Event struct {
	Type      EventType  `json:"type"`
	BookingID string     `json:"booking_id,omitempty"`
	Message   string     `json:"message,omitempty"`
	Path      string     `json:"path,omitempty"`
	Holds     []HoldView `json:"holds,omitempty"`
}

// EventEmitter fans hold events out to each user's connected clients.
type EventEmitter struct {
	mu      sync.RWMutex
	clients map[string][]chan Event
}

// NewEventEmitter creates an empty emitter.
func NewEventEmitter() *EventEmitter {
	return &EventEmitter{
		clients: make(map[string][]chan Event),
	}
}

// Subscribe registers a client channel for a user's events. The channel is
// closed and removed when ctx is done.
func (e *EventEmitter) Subscribe(ctx context.Context, userID string) chan Event {
	clientChan := make(chan Event, 16)

	e.mu.Lock()
	e.clients[userID] = append(e.clients[userID], clientChan)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(userID, clientChan)
	}()

	return clientChan
}

// Emit broadcasts an event to every client of one user. Sends are
// non-blocking; a slow client drops events rather than stalling the emitter.
func (e *EventEmitter) Emit(userID string, event Event) {
	e.mu.RLock()
	clients := e.clients[userID]
	e.mu.RUnlock()

	for _, clientChan := range clients {
		select {
		case clientChan <- event:
		default:
			// Channel buffer full, skip this client for now
		}
	}
}

func (e *EventEmitter) remove(userID string, clientChan chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[userID]
	for i, ch := range clients {
		if ch == clientChan {
			e.clients[userID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}

	if len(e.clients[userID]) == 0 {
		delete(e.clients, userID)
	}
}

// StreamNotifier delivers hold toasts over the event stream, optionally
// mirrored to an out-of-band publisher (Kafka notifications).
type StreamNotifier struct {
	emitter   *EventEmitter
	publisher EventPublisher
}

// EventPublisher mirrors hold lifecycle events to an external sink.
// Publish failures are the sink's problem; the notifier never blocks on it.
type EventPublisher interface {
	PublishHoldEvent(ctx context.Context, kind string, hold BookingHold, message string)
}

// NewStreamNotifier creates a notifier over the emitter. The publisher may
// be nil when Kafka is disabled.
func NewStreamNotifier(emitter *EventEmitter, publisher EventPublisher) *StreamNotifier {
	return &StreamNotifier{emitter: emitter, publisher: publisher}
}

func (n *StreamNotifier) Warn(ctx context.Context, hold BookingHold, message string) {
	n.emitter.Emit(hold.UserID, Event{
		Type:      EventWarning,
		BookingID: hold.BookingID,
		Message:   message,
	})
	if n.publisher != nil {
		n.publisher.PublishHoldEvent(ctx, "hold_started", hold, message)
	}
}

func (n *StreamNotifier) Error(ctx context.Context, hold BookingHold, message string) {
	n.emitter.Emit(hold.UserID, Event{
		Type:      EventError,
		BookingID: hold.BookingID,
		Message:   message,
	})
	if n.publisher != nil {
		n.publisher.PublishHoldEvent(ctx, "hold_expired", hold, message)
	}
}

// StreamNavigator issues client-side redirects over the event stream.
type StreamNavigator struct {
	emitter *EventEmitter
}

// NewStreamNavigator creates a navigator over the emitter.
func NewStreamNavigator(emitter *EventEmitter) *StreamNavigator {
	return &StreamNavigator{emitter: emitter}
}

func (n *StreamNavigator) NavigateTo(userID, path string) {
	n.emitter.Emit(userID, Event{
		Type: EventRedirect,
		Path: path,
	})
}
