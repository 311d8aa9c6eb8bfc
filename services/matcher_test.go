package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modswap/modswap-backend/models"
)

func newModule(code string) models.Module {
	return models.Module{ID: uuid.New(), Code: code, Name: code, Department: "Testing"}
}

func newRequest(owner uuid.UUID, giving, wanting []models.Module) models.SwapRequest {
	return models.SwapRequest{
		ID:         uuid.New(),
		UserID:     owner,
		Status:     models.StatusOpen,
		Visibility: models.VisibilityPublic,
		Giving:     giving,
		Wanting:    wanting,
	}
}

func TestIsDuplicate(t *testing.T) {
	owner := uuid.New()
	cs, bs, hs := newModule("BCU-CS-101"), newModule("BCU-BS-101"), newModule("BCU-HS-101")

	existing := newRequest(owner, []models.Module{cs, bs}, []models.Module{hs})

	// identical sets in a different order are still duplicates
	dup := IsDuplicate(
		[]uuid.UUID{bs.ID, cs.ID},
		[]uuid.UUID{hs.ID},
		[]models.SwapRequest{existing},
	)
	assert.True(t, dup)

	// a different giving set is not a duplicate
	dup = IsDuplicate(
		[]uuid.UUID{cs.ID},
		[]uuid.UUID{hs.ID},
		[]models.SwapRequest{existing},
	)
	assert.False(t, dup)
}

func TestIsDuplicateIgnoresClosedAndExpired(t *testing.T) {
	owner := uuid.New()
	cs, bs := newModule("BCU-CS-101"), newModule("BCU-BS-101")

	closed := newRequest(owner, []models.Module{cs}, []models.Module{bs})
	closed.Status = models.StatusClosed
	expired := newRequest(owner, []models.Module{cs}, []models.Module{bs})
	expired.Status = models.StatusExpired

	dup := IsDuplicate(
		[]uuid.UUID{cs.ID},
		[]uuid.UUID{bs.ID},
		[]models.SwapRequest{closed, expired},
	)
	assert.False(t, dup)
}

func TestScoreMatchesSymmetricPair(t *testing.T) {
	now := time.Now()
	cs, bs := newModule("BCU-CS-101"), newModule("BCU-BS-101")

	alice, bob := uuid.New(), uuid.New()
	aliceReq := newRequest(alice, []models.Module{cs}, []models.Module{bs})
	bobReq := newRequest(bob, []models.Module{bs}, []models.Module{cs})

	// Alice's view
	matches := ScoreMatches(aliceReq.Giving, aliceReq.Wanting, alice,
		[]models.SwapRequest{aliceReq, bobReq}, now)
	require.Len(t, matches, 1)
	assert.Equal(t, bobReq.ID, matches[0].Request.ID)
	assert.Equal(t, 2, matches[0].Score)

	// and Bob's
	matches = ScoreMatches(bobReq.Giving, bobReq.Wanting, bob,
		[]models.SwapRequest{aliceReq, bobReq}, now)
	require.Len(t, matches, 1)
	assert.Equal(t, aliceReq.ID, matches[0].Request.ID)
	assert.Equal(t, 2, matches[0].Score)
}

func TestScoreMatchesExclusions(t *testing.T) {
	now := time.Now()
	cs, bs := newModule("BCU-CS-101"), newModule("BCU-BS-101")
	me := uuid.New()

	mine := newRequest(me, []models.Module{cs}, []models.Module{bs})

	private := newRequest(uuid.New(), []models.Module{bs}, []models.Module{cs})
	private.Visibility = models.VisibilityPrivate

	closed := newRequest(uuid.New(), []models.Module{bs}, []models.Module{cs})
	closed.Status = models.StatusClosed

	past := now.Add(-time.Hour)
	lapsed := newRequest(uuid.New(), []models.Module{bs}, []models.Module{cs})
	lapsed.ExpiresAt = &past

	unrelated := newRequest(uuid.New(),
		[]models.Module{newModule("BCU-SS-101")}, []models.Module{newModule("BCU-ED-101")})

	matches := ScoreMatches(mine.Giving, mine.Wanting, me,
		[]models.SwapRequest{mine, private, closed, lapsed, unrelated}, now)
	assert.Empty(t, matches)
}

func TestScoreMatchesOrderingAndTies(t *testing.T) {
	now := time.Now()
	cs, bs, hs := newModule("BCU-CS-101"), newModule("BCU-BS-101"), newModule("BCU-HS-101")
	me := uuid.New()

	// score 1: wants one module I give
	weak1 := newRequest(uuid.New(), []models.Module{hs}, []models.Module{cs})
	// score 2: full two-way overlap
	strong := newRequest(uuid.New(), []models.Module{bs}, []models.Module{cs})
	// score 1 again, later in scan order
	weak2 := newRequest(uuid.New(), []models.Module{newModule("BCU-SS-101")}, []models.Module{cs})

	matches := ScoreMatches([]models.Module{cs}, []models.Module{bs}, me,
		[]models.SwapRequest{weak1, strong, weak2}, now)
	require.Len(t, matches, 3)
	assert.Equal(t, strong.ID, matches[0].Request.ID)
	// ties keep scan order
	assert.Equal(t, weak1.ID, matches[1].Request.ID)
	assert.Equal(t, weak2.ID, matches[2].Request.ID)
}

func TestFilterByText(t *testing.T) {
	cs := newModule("BCU-CS-101")
	cs.Name = "Introduction to Programming"
	cs.Department = "Computing and Digital Technology"
	bs := newModule("BCU-BS-101")
	bs.Name = "Principles of Marketing"
	bs.Department = "Business"

	ed := newModule("BCU-ED-101")
	ed.Name = "Educational Psychology"
	ed.Department = "Education"

	reqCS := newRequest(uuid.New(), []models.Module{cs}, []models.Module{bs})
	reqBS := newRequest(uuid.New(), []models.Module{bs}, []models.Module{ed})
	all := []models.SwapRequest{reqCS, reqBS}

	// empty query is the identity
	assert.Equal(t, all, FilterByText(all, ""))
	assert.Equal(t, all, FilterByText(all, "   "))

	// case-insensitive substring over code
	got := FilterByText(all, "cs")
	require.Len(t, got, 1)
	assert.Equal(t, reqCS.ID, got[0].ID)

	// matches name and department too, across giving and wanting
	assert.Len(t, FilterByText(all, "marketing"), 2)
	assert.Len(t, FilterByText(all, "BUSINESS"), 2)
	assert.Len(t, FilterByText(all, "programming"), 1)

	assert.Empty(t, FilterByText(all, "chemistry"))
}
