// Package services holds the swap-matching core: request validation,
// duplicate detection, match scoring and lifecycle transitions. Everything in
// here is a pure function over data the controllers fetch, so it is testable
// without a database.
package services

import (
	"errors"
	"time"

	"github.com/modswap/modswap-backend/models"
)

// MaxSwapModules caps how many modules one request may give or want.
const MaxSwapModules = 5

const expiryLayout = "2006-01-02"

var (
	ErrEmptyGiving     = errors.New("select at least one module to give")
	ErrEmptyWanting    = errors.New("select at least one module you want")
	ErrTooManyGiving   = errors.New("you can give at most 5 modules per request")
	ErrTooManyWanting  = errors.New("you can want at most 5 modules per request")
	ErrGiveWantOverlap = errors.New("a module cannot appear in both the give and want lists")
	ErrBadExpiryDate   = errors.New("expires_on must be a valid date (YYYY-MM-DD)")
	ErrDuplicateSwap   = errors.New("you already have an identical open swap request")
)

// ModuleResolver resolves a submitted module id against the catalog.
// Unknown or malformed ids report false.
type ModuleResolver func(id string) (models.Module, bool)

// SwapCandidate is a submission before validation: raw module ids plus the
// optional expiry date string exactly as the client sent them.
type SwapCandidate struct {
	GiveIDs   []string
	WantIDs   []string
	ExpiresOn string
}

// ValidatedSwap is the outcome of a successful validation: catalog-resolved
// module sets and a parsed expiry.
type ValidatedSwap struct {
	Giving    []models.Module
	Wanting   []models.Module
	ExpiresAt *time.Time
}

// ValidateSwap runs the structural checks on a candidate, in order, stopping
// at the first failure:
//
//  1. both lists non-empty
//  2. both lists within MaxSwapModules
//  3. give and want lists disjoint
//  4. ids resolved against the catalog; unknown ids are dropped, not errors
//  5. expires_on, when present, parses as a calendar date
//
// The checks run on the deduplicated id lists, so repeating an id does not
// inflate a list past the size cap.
func ValidateSwap(cand SwapCandidate, resolve ModuleResolver) (*ValidatedSwap, error) {
	giveIDs := dedupe(cand.GiveIDs)
	wantIDs := dedupe(cand.WantIDs)

	if len(giveIDs) == 0 {
		return nil, ErrEmptyGiving
	}
	if len(wantIDs) == 0 {
		return nil, ErrEmptyWanting
	}
	if len(giveIDs) > MaxSwapModules {
		return nil, ErrTooManyGiving
	}
	if len(wantIDs) > MaxSwapModules {
		return nil, ErrTooManyWanting
	}

	inGive := make(map[string]bool, len(giveIDs))
	for _, id := range giveIDs {
		inGive[id] = true
	}
	for _, id := range wantIDs {
		if inGive[id] {
			return nil, ErrGiveWantOverlap
		}
	}

	out := &ValidatedSwap{
		Giving:  resolveAll(giveIDs, resolve),
		Wanting: resolveAll(wantIDs, resolve),
	}

	if cand.ExpiresOn != "" {
		t, err := time.Parse(expiryLayout, cand.ExpiresOn)
		if err != nil {
			return nil, ErrBadExpiryDate
		}
		out.ExpiresAt = &t
	}

	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// resolveAll looks ids up in the catalog, silently skipping any that do not
// resolve. Mirrors the permissive submission policy: a stale form with a
// removed module still goes through with the modules that still exist.
func resolveAll(ids []string, resolve ModuleResolver) []models.Module {
	out := make([]models.Module, 0, len(ids))
	for _, id := range ids {
		if m, ok := resolve(id); ok {
			out = append(out, m)
		}
	}
	return out
}
