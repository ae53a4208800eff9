package holds

import "strings"

// RedirectPolicy decides whether an expiring hold should force the client
// back to the home route, given the route the client last reported. Expiry
// only interrupts users who are inside the booking-critical steps; someone
// browsing elsewhere just loses the timer.
type RedirectPolicy func(currentPath string) bool

// PathPrefixPolicy redirects when the current route starts with any of the
// given prefixes (typically the seat-selection and payment routes).
func PathPrefixPolicy(prefixes ...string) RedirectPolicy {
	return func(currentPath string) bool {
		for _, prefix := range prefixes {
			if prefix != "" && strings.HasPrefix(currentPath, prefix) {
				return true
			}
		}
		return false
	}
}

// NeverRedirect is a policy that leaves the client where it is on expiry.
func NeverRedirect(string) bool { return false }
