package services

import (
	"time"

	"github.com/modswap/modswap-backend/models"
)

// IsExpired reports whether a request is logically expired at the given
// instant: either already marked Expired, or still Open with an expiry in the
// past that nothing has written back yet.
func IsExpired(r models.SwapRequest, now time.Time) bool {
	if r.Status == models.StatusExpired {
		return true
	}
	return r.Status == models.StatusOpen && r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// Advance applies the one automatic lifecycle transition: an Open request
// whose expiry has passed becomes Expired. Closed and Expired are terminal.
// Returns the possibly-updated request and whether a transition happened, so
// callers know when to persist.
func Advance(r models.SwapRequest, now time.Time) (models.SwapRequest, bool) {
	if r.Status != models.StatusOpen {
		return r, false
	}
	if r.ExpiresAt == nil || !now.After(*r.ExpiresAt) {
		return r, false
	}
	r.Status = models.StatusExpired
	return r, true
}
