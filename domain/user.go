package domain

import (
	"strings"
	"time"
)

// User represents an account. Email is the external identity key; there is
// no password, a login with a known email resumes the account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an email so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FirstName returns the leading word of the display name, used in greetings.
func (u *User) FirstName() string {
	if u == nil {
		return ""
	}
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
