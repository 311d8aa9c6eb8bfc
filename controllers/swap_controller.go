package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/modswap/modswap-backend/config"
	"github.com/modswap/modswap-backend/models"
	"github.com/modswap/modswap-backend/services"
)

type SwapInput struct {
	Give            []string `json:"give" binding:"required"`
	Want            []string `json:"want" binding:"required"`
	Notes           string   `json:"notes"`
	Priority        string   `json:"priority"`
	ExpiresOn       string   `json:"expires_on"` // YYYY-MM-DD, optional
	Timeslots       string   `json:"timeslots"`
	Campus          string   `json:"campus"`
	ModuleGroupPref string   `json:"module_group_pref"`
	Visibility      string   `json:"visibility"`
	AlertsEmail     bool     `json:"alerts_email"`
	AutoCreateChat  bool     `json:"auto_create_chat"`
}

type ConfirmSwapInput struct {
	CounterpartID string `json:"counterpart_id" binding:"required"`
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Cannot determine current user"})
		return uuid.Nil, false
	}
	return userID, true
}

// catalogResolver resolves submitted module ids against the catalog within
// the given transaction. Malformed uuids count as unresolved.
func catalogResolver(tx *gorm.DB) services.ModuleResolver {
	return func(id string) (models.Module, bool) {
		moduleID, err := uuid.Parse(id)
		if err != nil {
			return models.Module{}, false
		}
		var m models.Module
		if err := tx.First(&m, "id = ?", moduleID).Error; err != nil {
			return models.Module{}, false
		}
		return m, true
	}
}

// advanceAll lazily expires Open requests whose expiry has passed, writing
// the transition back so other readers see it too.
func advanceAll(db *gorm.DB, swaps []models.SwapRequest, now time.Time) []models.SwapRequest {
	for i, s := range swaps {
		advanced, changed := services.Advance(s, now)
		if changed {
			db.Model(&models.SwapRequest{}).Where("id = ?", s.ID).
				Update("status", models.StatusExpired)
		}
		swaps[i] = advanced
	}
	return swaps
}

func visibilityFromInput(raw string) models.SwapVisibility {
	if raw == string(models.VisibilityPrivate) {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}

// POST /api/swaps
//
// Validation, duplicate detection and insert run inside one transaction; a
// row lock on the submitting user serializes concurrent submissions, so two
// identical requests can never both pass the duplicate check.
func CreateSwap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input SwapInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var swap models.SwapRequest
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// Per-user lock: serializes duplicate-check-then-insert
		var owner models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&owner, "id = ?", userID).Error; err != nil {
			return err
		}

		validated, err := services.ValidateSwap(services.SwapCandidate{
			GiveIDs:   input.Give,
			WantIDs:   input.Want,
			ExpiresOn: input.ExpiresOn,
		}, catalogResolver(tx))
		if err != nil {
			return err
		}

		var open []models.SwapRequest
		if err := tx.Preload("Giving").Preload("Wanting").
			Where("user_id = ? AND status = ?", userID, models.StatusOpen).
			Find(&open).Error; err != nil {
			return err
		}

		givingIDs := make([]uuid.UUID, len(validated.Giving))
		for i, m := range validated.Giving {
			givingIDs[i] = m.ID
		}
		wantingIDs := make([]uuid.UUID, len(validated.Wanting))
		for i, m := range validated.Wanting {
			wantingIDs[i] = m.ID
		}
		if services.IsDuplicate(givingIDs, wantingIDs, open) {
			return services.ErrDuplicateSwap
		}

		swap = models.SwapRequest{
			UserID:          userID,
			Status:          models.StatusOpen,
			Priority:        input.Priority,
			Notes:           input.Notes,
			ExpiresAt:       validated.ExpiresAt,
			Timeslots:       input.Timeslots,
			Campus:          input.Campus,
			ModuleGroupPref: input.ModuleGroupPref,
			Visibility:      visibilityFromInput(input.Visibility),
			AlertsEmail:     input.AlertsEmail,
			AutoCreateChat:  input.AutoCreateChat,
			Giving:          validated.Giving,
			Wanting:         validated.Wanting,
		}
		return tx.Create(&swap).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateSwap) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create swap request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Swap request created",
		"swap":    swap,
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, services.ErrEmptyGiving) ||
		errors.Is(err, services.ErrEmptyWanting) ||
		errors.Is(err, services.ErrTooManyGiving) ||
		errors.Is(err, services.ErrTooManyWanting) ||
		errors.Is(err, services.ErrGiveWantOverlap) ||
		errors.Is(err, services.ErrBadExpiryDate)
}

// GET /api/swaps — other users' public open requests, optional ?q= filter
func BrowseSwaps(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	db := c.MustGet("db").(*gorm.DB)

	var swaps []models.SwapRequest
	if err := db.Preload("Giving").Preload("Wanting").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, university")
		}).
		Where("user_id <> ? AND visibility = ? AND status = ?",
			userID, models.VisibilityPublic, models.StatusOpen).
		Order("created_at DESC").
		Find(&swaps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch swap requests"})
		return
	}

	now := time.Now()
	swaps = advanceAll(db, swaps, now)

	// Drop anything that just expired
	open := make([]models.SwapRequest, 0, len(swaps))
	for _, s := range swaps {
		if s.Status == models.StatusOpen {
			open = append(open, s)
		}
	}

	open = services.FilterByText(open, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"swaps": open, "q": c.Query("q")})
}

// GET /api/swaps/mine — own requests regardless of status, optional ?q=
func GetMySwaps(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	db := c.MustGet("db").(*gorm.DB)

	var swaps []models.SwapRequest
	if err := db.Preload("Giving").Preload("Wanting").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&swaps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch swap requests"})
		return
	}

	swaps = advanceAll(db, swaps, time.Now())
	swaps = services.FilterByText(swaps, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"swaps": swaps, "q": c.Query("q")})
}

// GET /api/swaps/:id — owner sees everything, others only public requests
func GetSwapDetail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	db := c.MustGet("db").(*gorm.DB)

	swapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid swap request ID"})
		return
	}

	var swap models.SwapRequest
	if err := db.Preload("Giving").Preload("Wanting").
		First(&swap, "id = ?", swapID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Swap request not found"})
		return
	}

	if swap.UserID != userID && swap.Visibility == models.VisibilityPrivate {
		c.JSON(http.StatusNotFound, gin.H{"error": "Swap request not found"})
		return
	}

	swaps := advanceAll(db, []models.SwapRequest{swap}, time.Now())
	c.JSON(http.StatusOK, swaps[0])
}

// PUT /api/swaps/:id — owner edits an Open request; same validation and
// duplicate rules as a fresh submission
func UpdateSwap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	swapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid swap request ID"})
		return
	}

	var input SwapInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var swap models.SwapRequest
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&owner, "id = ?", userID).Error; err != nil {
			return err
		}

		if err := tx.Preload("Giving").Preload("Wanting").
			First(&swap, "id = ? AND user_id = ?", swapID, userID).Error; err != nil {
			return err
		}
		if swap.Status != models.StatusOpen {
			return errSwapNotOpen
		}

		validated, err := services.ValidateSwap(services.SwapCandidate{
			GiveIDs:   input.Give,
			WantIDs:   input.Want,
			ExpiresOn: input.ExpiresOn,
		}, catalogResolver(tx))
		if err != nil {
			return err
		}

		// Duplicate check against the user's other open requests
		var open []models.SwapRequest
		if err := tx.Preload("Giving").Preload("Wanting").
			Where("user_id = ? AND status = ? AND id <> ?", userID, models.StatusOpen, swapID).
			Find(&open).Error; err != nil {
			return err
		}
		givingIDs := make([]uuid.UUID, len(validated.Giving))
		for i, m := range validated.Giving {
			givingIDs[i] = m.ID
		}
		wantingIDs := make([]uuid.UUID, len(validated.Wanting))
		for i, m := range validated.Wanting {
			wantingIDs[i] = m.ID
		}
		if services.IsDuplicate(givingIDs, wantingIDs, open) {
			return services.ErrDuplicateSwap
		}

		swap.Priority = input.Priority
		swap.Notes = input.Notes
		swap.ExpiresAt = validated.ExpiresAt
		swap.Timeslots = input.Timeslots
		swap.Campus = input.Campus
		swap.ModuleGroupPref = input.ModuleGroupPref
		swap.Visibility = visibilityFromInput(input.Visibility)
		swap.AlertsEmail = input.AlertsEmail
		swap.AutoCreateChat = input.AutoCreateChat

		if err := tx.Model(&swap).Association("Giving").Replace(validated.Giving); err != nil {
			return err
		}
		if err := tx.Model(&swap).Association("Wanting").Replace(validated.Wanting); err != nil {
			return err
		}
		swap.Giving = validated.Giving
		swap.Wanting = validated.Wanting
		return tx.Save(&swap).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Swap request not found"})
		case errors.Is(err, errSwapNotOpen):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only open swap requests can be edited"})
		case errors.Is(err, services.ErrDuplicateSwap):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update swap request"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Swap request updated", "swap": swap})
}

var errSwapNotOpen = errors.New("swap request is not open")

// GET /api/swaps/:id/matches — ranked suggestions for one of the caller's
// own requests
func GetSwapMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	db := c.MustGet("db").(*gorm.DB)

	swapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid swap request ID"})
		return
	}

	var swap models.SwapRequest
	if err := db.Preload("Giving").Preload("Wanting").
		First(&swap, "id = ? AND user_id = ?", swapID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Swap request not found"})
		return
	}

	now := time.Now()
	advanced := advanceAll(db, []models.SwapRequest{swap}, now)
	if advanced[0].Status != models.StatusOpen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only open swap requests can be matched"})
		return
	}

	var others []models.SwapRequest
	if err := db.Preload("Giving").Preload("Wanting").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, university")
		}).
		Where("user_id <> ?", userID).
		Order("created_at DESC").
		Find(&others).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch swap requests"})
		return
	}
	others = advanceAll(db, others, now)

	matches := services.ScoreMatches(swap.Giving, swap.Wanting, userID, others, now)
	c.JSON(http.StatusOK, gin.H{"swap_id": swap.ID, "matches": matches})
}

// PATCH /api/swaps/:id/close — explicit external closure, Open only
func CloseSwap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	db := c.MustGet("db").(*gorm.DB)

	swapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid swap request ID"})
		return
	}

	var swap models.SwapRequest
	if err := db.First(&swap, "id = ? AND user_id = ?", swapID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Swap request not found"})
		return
	}

	if swap.Status != models.StatusOpen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Swap request is already " + string(swap.Status)})
		return
	}

	if err := db.Model(&swap).Update("status", models.StatusClosed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close swap request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Swap request closed"})
}

// swapMatchedPayload is what notification/chat collaborators receive; the
// alert flags ride along untouched.
type swapMatchedPayload struct {
	SwapID         uuid.UUID `json:"swap_id"`
	CounterpartID  uuid.UUID `json:"counterpart_id"`
	AlertsEmail    bool      `json:"alerts_email"`
	AutoCreateChat bool      `json:"auto_create_chat"`
}

// POST /api/swaps/:id/confirm — both parties agreed: close both requests and
// record a swap_matched notification per side. Delivery (e-mail, chat
// creation) is for the external collaborators that read these rows.
func ConfirmSwap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	swapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid swap request ID"})
		return
	}

	var input ConfirmSwapInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "counterpart_id is required"})
		return
	}
	counterpartID, err := uuid.Parse(input.CounterpartID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid counterpart ID"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var mine, theirs models.SwapRequest
		if err := tx.First(&mine, "id = ? AND user_id = ?", swapID, userID).Error; err != nil {
			return err
		}
		if err := tx.First(&theirs, "id = ?", counterpartID).Error; err != nil {
			return err
		}
		if theirs.UserID == userID {
			return errSelfConfirm
		}

		now := time.Now()
		mine, _ = services.Advance(mine, now)
		theirs, _ = services.Advance(theirs, now)
		if mine.Status != models.StatusOpen || theirs.Status != models.StatusOpen {
			return errSwapNotOpen
		}

		if err := tx.Model(&models.SwapRequest{}).
			Where("id IN ?", []uuid.UUID{mine.ID, theirs.ID}).
			Update("status", models.StatusClosed).Error; err != nil {
			return err
		}

		for _, pair := range []struct {
			owner uuid.UUID
			own   models.SwapRequest
			other models.SwapRequest
		}{
			{mine.UserID, mine, theirs},
			{theirs.UserID, theirs, mine},
		} {
			payload, err := json.Marshal(swapMatchedPayload{
				SwapID:         pair.own.ID,
				CounterpartID:  pair.other.ID,
				AlertsEmail:    pair.own.AlertsEmail,
				AutoCreateChat: pair.own.AutoCreateChat,
			})
			if err != nil {
				return err
			}
			notif := models.Notification{
				UserID:  pair.owner,
				Type:    "swap_matched",
				Payload: string(payload),
			}
			if err := tx.Create(&notif).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Swap request not found"})
		case errors.Is(err, errSelfConfirm):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot confirm a swap with your own request"})
		case errors.Is(err, errSwapNotOpen):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Both swap requests must be open"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm swap"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Swap confirmed, both requests closed"})
}

var errSelfConfirm = errors.New("cannot confirm against own request")

// GET /api/admin/swaps — staff view over everything, paginated
func AdminGetSwaps(c *gin.Context) {
	db := config.DB

	query := db.Model(&models.SwapRequest{}).
		Preload("Giving").Preload("Wanting").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, email, university")
		})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", models.NormalizeStatus(status))
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count swap requests"})
		return
	}

	var swaps []models.SwapRequest
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&swaps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch swap requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"swaps": swaps,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
