package model

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/apperr"
)

// User represents an account identity. Roles is a set of role tags;
// membership checks go through HasRole/IsAdmin, never through ad-hoc
// string scans at call sites.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Roles        []string   `json:"roles"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Role tags.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// HasRole reports whether the user holds the given role tag.
// A nil user holds no roles.
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Roles, role)
}

// IsAdmin reports whether the user holds ROLE_ADMIN.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// ValidatePassword checks password requirements.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperr.Validation("password", "must be at least 8 characters")
	}
	return nil
}

// ValidateProfile checks registration/profile fields, collecting every
// violation into a single field-keyed error.
func ValidateProfile(name, email string) error {
	fields := map[string]string{}
	if n := strings.TrimSpace(name); len(n) < 2 || len(n) > 100 {
		fields["name"] = "must be 2-100 characters"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		fields["email"] = "must be a valid email address"
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}
