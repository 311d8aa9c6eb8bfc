package models

import (
	"time"

	"github.com/google/uuid"
)

// Module is a catalog entry for a taught course module. Reference data only:
// swap requests point at it, nothing in the swap flow ever mutates it.
type Module struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code       string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Department string    `gorm:"size:255" json:"department"`
	University string    `gorm:"size:255" json:"university"`
	Year       *int      `json:"year"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
