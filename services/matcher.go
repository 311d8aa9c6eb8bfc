package services

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modswap/modswap-backend/models"
)

// Match pairs another user's swap request with its compatibility score
// against the candidate request.
type Match struct {
	Request models.SwapRequest `json:"request"`
	Score   int                `json:"score"`
}

// IsDuplicate reports whether the candidate give/want sets are identical to
// some existing Open request of the same user. Closed and Expired requests
// never block a resubmission. Comparison is by id-set, order-independent.
func IsDuplicate(givingIDs, wantingIDs []uuid.UUID, open []models.SwapRequest) bool {
	for _, r := range open {
		if r.Status != models.StatusOpen {
			continue
		}
		if sameIDSet(givingIDs, r.GivingIDs()) && sameIDSet(wantingIDs, r.WantingIDs()) {
			return true
		}
	}
	return false
}

func sameIDSet(a, b []uuid.UUID) bool {
	set := make(map[uuid.UUID]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	if len(set) != len(idSet(b)) {
		return false
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ScoreMatches ranks other users' requests by mutual overlap with the
// candidate sets:
//
//	score = |their wanting ∩ my giving| + |their giving ∩ my wanting|
//
// Excluded outright: the owner's own requests, private requests, anything not
// Open, anything past its expiry, and zero scores. The result is sorted by
// score descending; ties keep the scan order of the input slice, so the
// ranking is deterministic for a given store ordering.
//
// The score is an unnormalized sum, so a request listing many modules can
// accumulate a high score from sheer list length. That bias is the documented
// behavior; any weighting or normalization is a product decision, not a bug
// fix to make here.
func ScoreMatches(giving, wanting []models.Module, ownerID uuid.UUID, all []models.SwapRequest, now time.Time) []Match {
	give := idSet(moduleIDs(giving))
	want := idSet(moduleIDs(wanting))

	matches := make([]Match, 0)
	for _, r := range all {
		if r.UserID == ownerID {
			continue
		}
		if r.Visibility == models.VisibilityPrivate {
			continue
		}
		if r.Status != models.StatusOpen || IsExpired(r, now) {
			continue
		}

		score := 0
		for _, id := range r.WantingIDs() {
			if give[id] {
				score++
			}
		}
		for _, id := range r.GivingIDs() {
			if want[id] {
				score++
			}
		}
		if score == 0 {
			continue
		}
		matches = append(matches, Match{Request: r, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func moduleIDs(modules []models.Module) []uuid.UUID {
	ids := make([]uuid.UUID, len(modules))
	for i, m := range modules {
		ids[i] = m.ID
	}
	return ids
}

// FilterByText narrows requests to those whose giving or wanting modules
// contain the query as a case-insensitive substring of code, name or
// department. An empty query returns the input unchanged.
func FilterByText(requests []models.SwapRequest, query string) []models.SwapRequest {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return requests
	}

	out := make([]models.SwapRequest, 0, len(requests))
	for _, r := range requests {
		if matchesQuery(r, query) {
			out = append(out, r)
		}
	}
	return out
}

func matchesQuery(r models.SwapRequest, query string) bool {
	for _, m := range append(append([]models.Module{}, r.Giving...), r.Wanting...) {
		if strings.Contains(strings.ToLower(m.Code), query) ||
			strings.Contains(strings.ToLower(m.Name), query) ||
			strings.Contains(strings.ToLower(m.Department), query) {
			return true
		}
	}
	return false
}
