package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/modswap/modswap-backend/models"
)

func TestAdvanceExpiresOpenRequest(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	r := models.SwapRequest{ID: uuid.New(), Status: models.StatusOpen, ExpiresAt: &past}
	out, changed := Advance(r, now)
	assert.True(t, changed)
	assert.Equal(t, models.StatusExpired, out.Status)
}

func TestAdvanceLeavesFutureAndUnsetExpiry(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)

	r := models.SwapRequest{Status: models.StatusOpen, ExpiresAt: &future}
	out, changed := Advance(r, now)
	assert.False(t, changed)
	assert.Equal(t, models.StatusOpen, out.Status)

	r = models.SwapRequest{Status: models.StatusOpen}
	_, changed = Advance(r, now)
	assert.False(t, changed)

	// exactly at the expiry instant the request is still open
	r = models.SwapRequest{Status: models.StatusOpen, ExpiresAt: &now}
	_, changed = Advance(r, now)
	assert.False(t, changed)
}

func TestAdvanceNeverLeavesTerminalStates(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)

	for _, status := range []models.SwapStatus{models.StatusClosed, models.StatusExpired} {
		r := models.SwapRequest{Status: status, ExpiresAt: &past}
		out, changed := Advance(r, now)
		assert.False(t, changed)
		assert.Equal(t, status, out.Status)
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, IsExpired(models.SwapRequest{Status: models.StatusExpired}, now))
	assert.True(t, IsExpired(models.SwapRequest{Status: models.StatusOpen, ExpiresAt: &past}, now))
	assert.False(t, IsExpired(models.SwapRequest{Status: models.StatusOpen, ExpiresAt: &future}, now))
	assert.False(t, IsExpired(models.SwapRequest{Status: models.StatusOpen}, now))
	assert.False(t, IsExpired(models.SwapRequest{Status: models.StatusClosed, ExpiresAt: &past}, now))
}
