package holds

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cinetix/pkg/logger"
)

// Notifier is the toast surface: warnings on hold start, errors on expiry.
type Notifier interface {
	Warn(ctx context.Context, hold BookingHold, message string)
	Error(ctx context.Context, hold BookingHold, message string)
}

// Navigator pushes a route change to the user's client.
type Navigator interface {
	NavigateTo(userID, path string)
}

// Locator answers which screen a user's client last reported being on.
// Used only to decide whether an expiring hold should force-redirect.
type Locator interface {
	CurrentPath(userID string) string
}

// Deps are the injected collaborators of the hold manager. Tests construct
// isolated instances with fakes; production wires Redis, the SSE stream and
// the route tracker.
type Deps struct {
	Store     Store
	Notifier  Notifier
	Navigator Navigator
	Locator   Locator
	Policy    RedirectPolicy
	Logger    *logger.Logger

	// TTL is the fixed hold lifetime (5 minutes in production).
	TTL time.Duration
	// TickInterval is the countdown recompute period (1 second in production).
	TickInterval time.Duration
	// HomeRoute is where expired clients are sent.
	HomeRoute string
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Manager owns the authoritative set of in-flight booking holds and drives
// their time-based lifecycle. All operations and the tick serialize on one
// mutex, so per-booking ordering matches invocation order and the persisted
// snapshot after any operation reflects the in-memory state at that point.
type Manager struct {
	mu    sync.Mutex
	holds []BookingHold

	store     Store
	notifier  Notifier
	navigator Navigator
	locator   Locator
	policy    RedirectPolicy
	log       *logger.Logger

	ttl          time.Duration
	tickInterval time.Duration
	homeRoute    string
	now          func() time.Time

	done     chan struct{}
	disposed sync.Once
}

// NewManager creates a hold manager. Init must be called before Start.
func NewManager(deps Deps) *Manager {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.TTL <= 0 {
		deps.TTL = 5 * time.Minute
	}
	if deps.TickInterval <= 0 {
		deps.TickInterval = time.Second
	}
	if deps.HomeRoute == "" {
		deps.HomeRoute = "/"
	}
	if deps.Policy == nil {
		deps.Policy = NeverRedirect
	}
	if deps.Logger == nil {
		deps.Logger = logger.GetDefault()
	}

	return &Manager{
		holds:        []BookingHold{},
		store:        deps.Store,
		notifier:     deps.Notifier,
		navigator:    deps.Navigator,
		locator:      deps.Locator,
		policy:       deps.Policy,
		log:          deps.Logger,
		ttl:          deps.TTL,
		tickInterval: deps.TickInterval,
		homeRoute:    deps.HomeRoute,
		now:          deps.Now,
		done:         make(chan struct{}),
	}
}

// Init rehydrates the hold set from storage. Unreadable or corrupt data
// falls back to an empty set; persistence is best-effort and never fatal.
func (m *Manager) Init(ctx context.Context) error {
	holds, err := m.store.Load(ctx)
	if err != nil {
		m.log.ErrorWithContext(ctx, "Hold set unreadable, starting empty", err, nil)
		holds = []BookingHold{}
	}

	m.mu.Lock()
	m.holds = holds
	m.mu.Unlock()

	m.log.InfoWithContext(ctx, "Hold manager initialized", map[string]interface{}{
		"active_holds": len(holds),
	})
	return nil
}

// Start runs the countdown loop until Dispose is called or ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.tickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.tick(ctx)
			case <-m.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Dispose stops the countdown loop. Safe to call more than once.
func (m *Manager) Dispose() {
	m.disposed.Do(func() {
		close(m.done)
	})
}

// StartHold opens a hold for a freshly created PENDING booking. The deadline
// is fixed at now + TTL and never moves afterwards. A duplicate bookingID
// overwrites the existing hold with a fresh deadline; at most one hold per
// booking can exist.
func (m *Manager) StartHold(ctx context.Context, userID, bookingID, movieName, step string, data json.RawMessage, path string) {
	now := m.now()
	hold := BookingHold{
		BookingID: bookingID,
		UserID:    userID,
		MovieName: movieName,
		Deadline:  now.Add(m.ttl),
		Progress:  Progress{Step: step, Data: data, Path: path},
	}

	m.mu.Lock()
	if idx := m.indexOf(bookingID); idx >= 0 {
		m.log.WarnContext(ctx, "Duplicate hold start, overwriting",
			"booking_id", bookingID)
		m.holds[idx] = hold
	} else {
		m.holds = append(m.holds, hold)
	}
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.log.LogHoldStarted(ctx, bookingID, movieName, hold.Deadline)
	m.notifier.Warn(ctx, hold, fmt.Sprintf(
		"You have %d minutes to complete your booking for %s.",
		int(m.ttl.Minutes()), movieName))
}

// UpdateProgress replaces a hold's progress snapshot. Unknown bookings are
// ignored; an unchanged snapshot skips the write entirely.
func (m *Manager) UpdateProgress(ctx context.Context, bookingID, step string, data json.RawMessage, path string) {
	next := Progress{Step: step, Data: data, Path: path}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(bookingID)
	if idx < 0 {
		// Benign race: the hold expired between the client action and this call.
		return
	}
	if m.holds[idx].Progress.Equal(next) {
		return
	}

	m.holds[idx].Progress = next
	m.persistLocked(ctx)
}

// ClearHold drops a hold from the active set, for explicit cancellation and
// for normal completion alike. Idempotent; clearing an absent id is a no-op.
// Any backend status update belongs to the caller and must not gate removal.
func (m *Manager) ClearHold(ctx context.Context, bookingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexOf(bookingID)
	if idx < 0 {
		return
	}

	m.holds = append(m.holds[:idx], m.holds[idx+1:]...)
	m.persistLocked(ctx)
}

// ResumeHold navigates the user back to wherever the hold's progress points.
// Unknown bookings and holds without a recorded path are no-ops.
func (m *Manager) ResumeHold(ctx context.Context, bookingID string) {
	m.mu.Lock()
	var hold *BookingHold
	if idx := m.indexOf(bookingID); idx >= 0 {
		h := m.holds[idx]
		hold = &h
	}
	m.mu.Unlock()

	if hold == nil || hold.Progress.Path == "" {
		return
	}
	m.navigator.NavigateTo(hold.UserID, hold.Progress.Path)
}

// Get returns the hold for a booking, if it is still active.
func (m *Manager) Get(bookingID string) (BookingHold, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx := m.indexOf(bookingID); idx >= 0 {
		return m.holds[idx], true
	}
	return BookingHold{}, false
}

// ActiveHolds returns a render-ready snapshot of every active hold.
func (m *Manager) ActiveHolds() []HoldView {
	return m.snapshot(func(BookingHold) bool { return true })
}

// ActiveHoldsForUser returns the holds belonging to one user.
func (m *Manager) ActiveHoldsForUser(userID string) []HoldView {
	return m.snapshot(func(h BookingHold) bool { return h.UserID == userID })
}

func (m *Manager) snapshot(keep func(BookingHold) bool) []HoldView {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	views := make([]HoldView, 0, len(m.holds))
	for _, h := range m.holds {
		if keep(h) {
			views = append(views, h.toView(now))
		}
	}
	return views
}

// tick recomputes every countdown from the absolute deadlines and drops
// expired holds. Expiry always fires an error notification; the redirect to
// home fires only when the user's last reported route is booking-critical.
func (m *Manager) tick(ctx context.Context) {
	now := m.now()

	m.mu.Lock()
	active := m.holds[:0]
	var expired []BookingHold
	for _, h := range m.holds {
		if h.Expired(now) {
			expired = append(expired, h)
		} else {
			active = append(active, h)
		}
	}
	m.holds = active
	if len(expired) > 0 {
		m.persistLocked(ctx)
	}
	m.mu.Unlock()

	for _, h := range expired {
		m.log.LogHoldExpired(ctx, h.BookingID)
		m.notifier.Error(ctx, h, fmt.Sprintf(
			"Your booking time for %s has expired.", h.MovieName))

		if m.policy(m.locator.CurrentPath(h.UserID)) {
			m.navigator.NavigateTo(h.UserID, m.homeRoute)
		}
	}
}

// indexOf must be called with the mutex held.
func (m *Manager) indexOf(bookingID string) int {
	for i, h := range m.holds {
		if h.BookingID == bookingID {
			return i
		}
	}
	return -1
}

// persistLocked writes the current hold set through the store. Failures are
// logged and swallowed; a dead store must not stop the countdown or block
// cancellation. Must be called with the mutex held.
func (m *Manager) persistLocked(ctx context.Context) {
	snapshot := make([]BookingHold, len(m.holds))
	copy(snapshot, m.holds)

	if err := m.store.Save(ctx, snapshot); err != nil {
		m.log.ErrorWithContext(ctx, "Failed to persist hold set", err, map[string]interface{}{
			"active_holds": len(snapshot),
		})
	}
}
