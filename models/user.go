package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"   // platform administration
	RoleStaff   UserRole = "staff"   // university staff (catalog management)
	RoleStudent UserRole = "student" // regular student account
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username   string    `gorm:"size:255" json:"username"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:text;not null" json:"-"`
	University string    `gorm:"size:255" json:"university"`
	Degree     string    `gorm:"size:255" json:"degree"`
	Year       *int      `json:"year"`
	Role       UserRole  `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	SwapRequests []SwapRequest `gorm:"foreignKey:UserID" json:"swap_requests,omitempty"`
}

// UniversityFromEmail derives a university short name from an academic e-mail
// domain, e.g. "jane@mail.bcu.ac.uk" -> "mail.bcu". Returns "" for addresses
// without a domain.
func UniversityFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.TrimSuffix(email[at+1:], ".ac.uk")
}

