package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SwapStatus string

const (
	StatusOpen    SwapStatus = "Open"
	StatusClosed  SwapStatus = "Closed"
	StatusExpired SwapStatus = "Expired"
)

type SwapVisibility string

const (
	VisibilityPublic  SwapVisibility = "public"
	VisibilityPrivate SwapVisibility = "private"
)

// NormalizeStatus maps a persisted status string onto the closed status set.
// Older rows may carry arbitrary strings; anything unrecognized becomes Closed
// so legacy values can never re-enter the pool of matchable requests.
func NormalizeStatus(raw string) SwapStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "open":
		return StatusOpen
	case "expired":
		return StatusExpired
	default:
		return StatusClosed
	}
}

type SwapRequest struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User            User           `json:"user,omitempty"`
	Status          SwapStatus     `gorm:"type:varchar(50);not null;default:'Open'" json:"status"`
	Priority        string         `gorm:"size:20" json:"priority,omitempty"` // low | normal | high
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`
	ExpiresAt       *time.Time     `json:"expires_at,omitempty"`
	Timeslots       string         `gorm:"size:255" json:"timeslots,omitempty"`
	Campus          string         `gorm:"size:255" json:"campus,omitempty"`
	ModuleGroupPref string         `gorm:"type:text" json:"module_group_pref,omitempty"`
	Visibility      SwapVisibility `gorm:"type:varchar(20);not null;default:'public'" json:"visibility"`
	AlertsEmail     bool           `gorm:"default:false" json:"alerts_email"`
	AutoCreateChat  bool           `gorm:"default:false" json:"auto_create_chat"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Giving  []Module `gorm:"many2many:swap_give_modules" json:"giving"`
	Wanting []Module `gorm:"many2many:swap_want_modules" json:"wanting"`
}

// AfterFind normalizes legacy status strings at load time, so the rest of the
// code only ever sees Open, Closed or Expired.
func (s *SwapRequest) AfterFind(_ *gorm.DB) error {
	s.Status = NormalizeStatus(string(s.Status))
	return nil
}

// GivingIDs returns the ids of the giving set.
func (s *SwapRequest) GivingIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(s.Giving))
	for i, m := range s.Giving {
		ids[i] = m.ID
	}
	return ids
}

// WantingIDs returns the ids of the wanting set.
func (s *SwapRequest) WantingIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(s.Wanting))
	for i, m := range s.Wanting {
		ids[i] = m.ID
	}
	return ids
}
