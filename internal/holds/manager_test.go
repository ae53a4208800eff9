package holds

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock shared by the manager under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// countingStore is an in-memory store that records every write and can be
// told to fail.
type countingStore struct {
	mu        sync.Mutex
	holds     []BookingHold
	saveCount int
	loadErr   error
	saveErr   error
}

func (s *countingStore) Load(ctx context.Context) ([]BookingHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]BookingHold, len(s.holds))
	copy(out, s.holds)
	return out, nil
}

func (s *countingStore) Save(ctx context.Context, holds []BookingHold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCount++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.holds = make([]BookingHold, len(holds))
	copy(s.holds, holds)
	return nil
}

func (s *countingStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCount
}

type notification struct {
	bookingID string
	message   string
}

type fakeNotifier struct {
	mu       sync.Mutex
	warnings []notification
	errors   []notification
}

func (n *fakeNotifier) Warn(ctx context.Context, hold BookingHold, message string) {
	n.mu.Lock()
	n.warnings = append(n.warnings, notification{hold.BookingID, message})
	n.mu.Unlock()
}

func (n *fakeNotifier) Error(ctx context.Context, hold BookingHold, message string) {
	n.mu.Lock()
	n.errors = append(n.errors, notification{hold.BookingID, message})
	n.mu.Unlock()
}

type fakeNavigator struct {
	mu    sync.Mutex
	moves []string
}

func (n *fakeNavigator) NavigateTo(userID, path string) {
	n.mu.Lock()
	n.moves = append(n.moves, path)
	n.mu.Unlock()
}

type fakeLocator struct {
	path string
}

func (l *fakeLocator) CurrentPath(userID string) string { return l.path }

type managerFixture struct {
	manager   *Manager
	clock     *fakeClock
	store     *countingStore
	notifier  *fakeNotifier
	navigator *fakeNavigator
	locator   *fakeLocator
}

func newFixture(t *testing.T) *managerFixture {
	t.Helper()

	f := &managerFixture{
		clock:     newFakeClock(),
		store:     &countingStore{},
		notifier:  &fakeNotifier{},
		navigator: &fakeNavigator{},
		locator:   &fakeLocator{path: "/movies"},
	}
	f.manager = NewManager(Deps{
		Store:     f.store,
		Notifier:  f.notifier,
		Navigator: f.navigator,
		Locator:   f.locator,
		Policy:    PathPrefixPolicy("/seats/", "/payment"),
		TTL:       5 * time.Minute,
		HomeRoute: "/",
		Now:       f.clock.Now,
	})
	require.NoError(t, f.manager.Init(context.Background()))
	return f
}

func (f *managerFixture) startHold(t *testing.T, bookingID string) {
	t.Helper()
	f.manager.StartHold(context.Background(), "user-1", bookingID, "Dune",
		"seat-select", json.RawMessage(`{"room":"r1"}`), "/seats/r1/"+bookingID)
}

func TestStartHold_DeadlineFixedAtCreation(t *testing.T) {
	f := newFixture(t)
	created := f.clock.Now()

	f.startHold(t, "b1")

	hold, ok := f.manager.Get("b1")
	require.True(t, ok)
	assert.Equal(t, created.Add(5*time.Minute), hold.Deadline)
	assert.Equal(t, "user-1", hold.UserID)
	assert.Equal(t, "Dune", hold.MovieName)

	// A start warning is always emitted.
	assert.Len(t, f.notifier.warnings, 1)
	assert.Contains(t, f.notifier.warnings[0].message, "5 minutes")

	// Progress updates and ticks never move the deadline.
	f.clock.Advance(90 * time.Second)
	f.manager.UpdateProgress(context.Background(), "b1", "payment", nil, "/payment/b1")
	f.manager.tick(context.Background())

	hold, ok = f.manager.Get("b1")
	require.True(t, ok)
	assert.Equal(t, created.Add(5*time.Minute), hold.Deadline)
}

func TestStartHold_DuplicateOverwrites(t *testing.T) {
	f := newFixture(t)

	f.startHold(t, "b1")
	first, _ := f.manager.Get("b1")

	f.clock.Advance(2 * time.Minute)
	f.startHold(t, "b1")

	assert.Len(t, f.manager.ActiveHolds(), 1, "duplicate start must not append a second entry")
	second, ok := f.manager.Get("b1")
	require.True(t, ok)
	assert.Equal(t, first.Deadline.Add(2*time.Minute), second.Deadline)
}

func TestRemainingSeconds_MonotonicAndFloored(t *testing.T) {
	f := newFixture(t)
	f.startHold(t, "b1")

	prev := 301
	for i := 0; i < 6; i++ {
		hold, ok := f.manager.Get("b1")
		require.True(t, ok)
		remaining := hold.RemainingSeconds(f.clock.Now())
		assert.LessOrEqual(t, remaining, prev)
		assert.GreaterOrEqual(t, remaining, 0)
		prev = remaining
		f.clock.Advance(73 * time.Second)
	}

	// Far past the deadline the countdown floors at zero.
	hold := BookingHold{Deadline: f.clock.Now().Add(-time.Hour)}
	assert.Equal(t, 0, hold.RemainingSeconds(f.clock.Now()))
}

func TestTick_ExpiryRemovesHoldAndNotifies(t *testing.T) {
	f := newFixture(t)
	f.startHold(t, "b1")

	// One second before the deadline the hold is still active.
	f.clock.Advance(299 * time.Second)
	f.manager.tick(context.Background())
	hold, ok := f.manager.Get("b1")
	require.True(t, ok)
	assert.Equal(t, 1, hold.RemainingSeconds(f.clock.Now()))

	// At the deadline it is dropped and an error toast fires.
	f.clock.Advance(1 * time.Second)
	f.manager.tick(context.Background())

	_, ok = f.manager.Get("b1")
	assert.False(t, ok)
	assert.Empty(t, f.manager.ActiveHolds())
	require.Len(t, f.notifier.errors, 1)
	assert.Equal(t, "b1", f.notifier.errors[0].bookingID)

	// It never reappears on subsequent ticks.
	f.manager.tick(context.Background())
	assert.Empty(t, f.manager.ActiveHolds())
	assert.Len(t, f.notifier.errors, 1)
}

func TestTick_RedirectOnlyOnCriticalRoute(t *testing.T) {
	f := newFixture(t)

	// User browsing elsewhere: hold removed, no redirect.
	f.locator.path = "/movies"
	f.startHold(t, "b1")
	f.clock.Advance(301 * time.Second)
	f.manager.tick(context.Background())
	assert.Empty(t, f.navigator.moves)

	// User mid seat selection: redirected home.
	f.locator.path = "/seats/r1/b2"
	f.startHold(t, "b2")
	f.clock.Advance(301 * time.Second)
	f.manager.tick(context.Background())
	require.Len(t, f.navigator.moves, 1)
	assert.Equal(t, "/", f.navigator.moves[0])

	// Payment step is critical too.
	f.locator.path = "/payment/b3"
	f.startHold(t, "b3")
	f.clock.Advance(301 * time.Second)
	f.manager.tick(context.Background())
	assert.Len(t, f.navigator.moves, 2)
}

func TestClearHold_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.startHold(t, "b1")

	f.manager.ClearHold(context.Background(), "b1")
	assert.Empty(t, f.manager.ActiveHolds())
	writesAfterFirst := f.store.writes()

	// Second clear is a no-op: no error, no extra write.
	f.manager.ClearHold(context.Background(), "b1")
	assert.Empty(t, f.manager.ActiveHolds())
	assert.Equal(t, writesAfterFirst, f.store.writes())
}

func TestUpdateProgress_DeepEqualSuppressed(t *testing.T) {
	f := newFixture(t)
	f.startHold(t, "b1")
	baseline := f.store.writes()

	// Identical payload: no write.
	f.manager.UpdateProgress(context.Background(), "b1", "seat-select",
		json.RawMessage(`{"room":"r1"}`), "/seats/r1/b1")
	assert.Equal(t, baseline, f.store.writes())

	// Changed payload: exactly one write.
	f.manager.UpdateProgress(context.Background(), "b1", "payment",
		json.RawMessage(`{"room":"r1"}`), "/payment/b1")
	assert.Equal(t, baseline+1, f.store.writes())

	hold, ok := f.manager.Get("b1")
	require.True(t, ok)
	assert.Equal(t, "payment", hold.Progress.Step)
	assert.Equal(t, "/payment/b1", hold.Progress.Path)
}

func TestUpdateProgress_UnknownBookingIgnored(t *testing.T) {
	f := newFixture(t)
	baseline := f.store.writes()

	f.manager.UpdateProgress(context.Background(), "ghost", "payment", nil, "/payment/ghost")

	assert.Empty(t, f.manager.ActiveHolds(), "update must never create a hold")
	assert.Equal(t, baseline, f.store.writes())
}

func TestResumeHold_NavigatesToProgressPath(t *testing.T) {
	f := newFixture(t)
	f.startHold(t, "b1")

	f.manager.ResumeHold(context.Background(), "b1")
	require.Len(t, f.navigator.moves, 1)
	assert.Equal(t, "/seats/r1/b1", f.navigator.moves[0])

	// Unknown id: silent no-op.
	f.manager.ResumeHold(context.Background(), "ghost")
	assert.Len(t, f.navigator.moves, 1)
}

func TestInit_RehydratesPersistedState(t *testing.T) {
	f := newFixture(t)
	f.startHold(t, "b1")
	f.manager.UpdateProgress(context.Background(), "b1", "payment",
		json.RawMessage(`{"room":"r1","seats":["A1","A2"]}`), "/payment/b1")

	// A second manager over the same store sees the identical hold set.
	revived := NewManager(Deps{
		Store:     f.store,
		Notifier:  &fakeNotifier{},
		Navigator: &fakeNavigator{},
		Locator:   f.locator,
		TTL:       5 * time.Minute,
		Now:       f.clock.Now,
	})
	require.NoError(t, revived.Init(context.Background()))

	original, ok := f.manager.Get("b1")
	require.True(t, ok)
	reloaded, ok := revived.Get("b1")
	require.True(t, ok)

	assert.Equal(t, original.BookingID, reloaded.BookingID)
	assert.True(t, original.Deadline.Equal(reloaded.Deadline))
	assert.True(t, original.Progress.Equal(reloaded.Progress))
}

func TestInit_UnreadableStoreFallsBackToEmpty(t *testing.T) {
	store := &countingStore{loadErr: errors.New("boom")}
	m := NewManager(Deps{
		Store:     store,
		Notifier:  &fakeNotifier{},
		Navigator: &fakeNavigator{},
		Locator:   &fakeLocator{},
	})

	require.NoError(t, m.Init(context.Background()), "corrupt storage must not fail startup")
	assert.Empty(t, m.ActiveHolds())
}

func TestPersistFailure_DoesNotBlockLifecycle(t *testing.T) {
	f := newFixture(t)
	f.store.saveErr = errors.New("disk on fire")

	// Operations keep working in memory despite the dead store.
	f.startHold(t, "b1")
	_, ok := f.manager.Get("b1")
	assert.True(t, ok)

	f.clock.Advance(301 * time.Second)
	f.manager.tick(context.Background())
	assert.Empty(t, f.manager.ActiveHolds())
	assert.Len(t, f.notifier.errors, 1)

	f.manager.ClearHold(context.Background(), "b1")
}

func TestActiveHoldsForUser_FiltersByOwner(t *testing.T) {
	f := newFixture(t)
	f.manager.StartHold(context.Background(), "user-1", "b1", "Dune",
		"seat-select", nil, "/seats/r1/b1")
	f.manager.StartHold(context.Background(), "user-2", "b2", "Alien",
		"seat-select", nil, "/seats/r2/b2")

	mine := f.manager.ActiveHoldsForUser("user-1")
	require.Len(t, mine, 1)
	assert.Equal(t, "b1", mine[0].BookingID)
	assert.Equal(t, 300, mine[0].RemainingSeconds)

	assert.Len(t, f.manager.ActiveHolds(), 2)
}

func TestDispose_StopsTickLoop(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.manager.Start(ctx)
	f.manager.Dispose()
	// Dispose twice must not panic.
	f.manager.Dispose()
}
