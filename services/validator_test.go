package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modswap/modswap-backend/models"
)

// newCatalog builds an in-memory catalog and a resolver over it, returning
// module ids keyed by code.
func newCatalog(codes ...string) (map[string]string, ModuleResolver) {
	byID := make(map[string]models.Module, len(codes))
	idByCode := make(map[string]string, len(codes))
	for _, code := range codes {
		m := models.Module{ID: uuid.New(), Code: code}
		byID[m.ID.String()] = m
		idByCode[code] = m.ID.String()
	}
	resolve := func(id string) (models.Module, bool) {
		m, ok := byID[id]
		return m, ok
	}
	return idByCode, resolve
}

func TestValidateSwapRejectsEmptySets(t *testing.T) {
	ids, resolve := newCatalog("BCU-CS-101")

	_, err := ValidateSwap(SwapCandidate{WantIDs: []string{ids["BCU-CS-101"]}}, resolve)
	assert.ErrorIs(t, err, ErrEmptyGiving)

	_, err = ValidateSwap(SwapCandidate{GiveIDs: []string{ids["BCU-CS-101"]}}, resolve)
	assert.ErrorIs(t, err, ErrEmptyWanting)
}

func TestValidateSwapRejectsOversizedSets(t *testing.T) {
	codes := []string{"M1", "M2", "M3", "M4", "M5", "M6", "W1"}
	ids, resolve := newCatalog(codes...)

	sixGive := []string{ids["M1"], ids["M2"], ids["M3"], ids["M4"], ids["M5"], ids["M6"]}
	_, err := ValidateSwap(SwapCandidate{GiveIDs: sixGive, WantIDs: []string{ids["W1"]}}, resolve)
	assert.ErrorIs(t, err, ErrTooManyGiving)

	_, err = ValidateSwap(SwapCandidate{GiveIDs: []string{ids["W1"]}, WantIDs: sixGive}, resolve)
	assert.ErrorIs(t, err, ErrTooManyWanting)
}

func TestValidateSwapRejectsGiveWantOverlap(t *testing.T) {
	ids, resolve := newCatalog("BCU-CS-101", "BCU-BS-101")

	_, err := ValidateSwap(SwapCandidate{
		GiveIDs: []string{ids["BCU-CS-101"]},
		WantIDs: []string{ids["BCU-BS-101"], ids["BCU-CS-101"]},
	}, resolve)
	assert.ErrorIs(t, err, ErrGiveWantOverlap)
}

func TestValidateSwapDropsUnknownIDs(t *testing.T) {
	ids, resolve := newCatalog("BCU-CS-101", "BCU-BS-101")

	out, err := ValidateSwap(SwapCandidate{
		GiveIDs: []string{ids["BCU-CS-101"], uuid.New().String(), "not-a-uuid"},
		WantIDs: []string{ids["BCU-BS-101"]},
	}, resolve)
	require.NoError(t, err)
	require.Len(t, out.Giving, 1)
	assert.Equal(t, "BCU-CS-101", out.Giving[0].Code)
	require.Len(t, out.Wanting, 1)
}

func TestValidateSwapDeduplicatesIDs(t *testing.T) {
	ids, resolve := newCatalog("M1", "M2", "M3", "M4", "M5", "W1")

	// the same id repeated must not count against the size cap
	give := []string{ids["M1"], ids["M1"], ids["M2"], ids["M3"], ids["M4"], ids["M5"]}
	out, err := ValidateSwap(SwapCandidate{GiveIDs: give, WantIDs: []string{ids["W1"]}}, resolve)
	require.NoError(t, err)
	assert.Len(t, out.Giving, 5)
}

func TestValidateSwapExpiryDate(t *testing.T) {
	ids, resolve := newCatalog("BCU-CS-101", "BCU-BS-101")
	cand := SwapCandidate{
		GiveIDs: []string{ids["BCU-CS-101"]},
		WantIDs: []string{ids["BCU-BS-101"]},
	}

	cand.ExpiresOn = "not-a-date"
	_, err := ValidateSwap(cand, resolve)
	assert.ErrorIs(t, err, ErrBadExpiryDate)

	cand.ExpiresOn = "2026-12-31"
	out, err := ValidateSwap(cand, resolve)
	require.NoError(t, err)
	require.NotNil(t, out.ExpiresAt)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), *out.ExpiresAt)

	cand.ExpiresOn = ""
	out, err = ValidateSwap(cand, resolve)
	require.NoError(t, err)
	assert.Nil(t, out.ExpiresAt)
}
