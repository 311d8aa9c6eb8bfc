package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want SwapStatus
	}{
		{"Open", StatusOpen},
		{"open", StatusOpen},
		{"  OPEN  ", StatusOpen},
		{"Expired", StatusExpired},
		{"expired", StatusExpired},
		{"Closed", StatusClosed},
		// legacy free-form values collapse to Closed so they can never
		// re-enter the matchable pool
		{"cancelled", StatusClosed},
		{"pending review", StatusClosed},
		{"", StatusClosed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeStatus(tt.raw), "raw=%q", tt.raw)
	}
}

func TestUniversityFromEmail(t *testing.T) {
	assert.Equal(t, "mail.bcu", UniversityFromEmail("student@mail.bcu.ac.uk"))
	assert.Equal(t, "example.com", UniversityFromEmail("someone@example.com"))
	assert.Equal(t, "", UniversityFromEmail("not-an-email"))
	assert.Equal(t, "", UniversityFromEmail("trailing@"))
}
