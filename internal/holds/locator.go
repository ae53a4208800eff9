package holds

import "sync"

// RouteTracker remembers the route each user's client last reported. It
// feeds the expiry redirect decision: only users inside the seat-selection
// or payment steps get yanked back home when their hold runs out.
//
// Routes are ephemeral UI state tied to live connections, so they live
// in-process alongside the event emitter's client map rather than in Redis.
type RouteTracker struct {
	mu     sync.RWMutex
	routes map[string]string
}

// NewRouteTracker creates an empty tracker.
func NewRouteTracker() *RouteTracker {
	return &RouteTracker{routes: make(map[string]string)}
}

// SetPath records a user's current route.
func (t *RouteTracker) SetPath(userID, path string) {
	t.mu.Lock()
	t.routes[userID] = path
	t.mu.Unlock()
}

// Forget drops a user's recorded route (client disconnected).
func (t *RouteTracker) Forget(userID string) {
	t.mu.Lock()
	delete(t.routes, userID)
	t.mu.Unlock()
}

// CurrentPath returns the last reported route, or "" when unknown.
func (t *RouteTracker) CurrentPath(userID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.routes[userID]
}
