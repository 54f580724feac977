package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/oksasatya/tasky/pkg/apperr"
)

// OAuthProvider identifies a supported third-party identity provider.
type OAuthProvider string

const (
	ProviderGoogle OAuthProvider = "google"
	ProviderGithub OAuthProvider = "github"
)

func (p OAuthProvider) Valid() bool {
	return p == ProviderGoogle || p == ProviderGithub
}

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash; it is empty for OAuth-only accounts.
// GoogleID/GithubID are nil unless the corresponding identity is linked.
type User struct {
	ID        string
	Fullname  string
	Email     string
	Password  string
	GoogleID  *string
	GithubID  *string
	AvatarURL string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// NormalizeEmail lowercases and trims an email address. Lookups are
// case-insensitive per the unique-email invariant.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateFullname enforces the 2-50 character display-name bound.
func ValidateFullname(name string) error {
	n := len(strings.TrimSpace(name))
	if n < 2 || n > 50 {
		return apperr.E(apperr.Validation, "fullname must be between 2 and 50 characters")
	}
	return nil
}

// ValidateEmail enforces length and shape bounds on an already normalized email.
func ValidateEmail(email string) error {
	if len(email) < 5 || len(email) > 255 {
		return apperr.E(apperr.Validation, "email must be between 5 and 255 characters")
	}
	if !emailPattern.MatchString(email) {
		return apperr.E(apperr.Validation, "email is not a valid address")
	}
	return nil
}

// ProviderID returns the linked identity for the given provider, if any.
func (u *User) ProviderID(p OAuthProvider) *string {
	switch p {
	case ProviderGoogle:
		return u.GoogleID
	case ProviderGithub:
		return u.GithubID
	}
	return nil
}

// SetProviderID links a provider identity onto the user.
func (u *User) SetProviderID(p OAuthProvider, id string) {
	switch p {
	case ProviderGoogle:
		u.GoogleID = &id
	case ProviderGithub:
		u.GithubID = &id
	}
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
