// Package auth holds the identity, session and role types shared by the
// authentication adapters and the HTTP layer.
package auth

import (
	"strings"
	"time"
)

// Role is an authorization role. The string form is persisted in sessions and the users table.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleUser:
		return 2
	case RoleGuest:
		return 1
	default:
		return 0
	}
}

// Satisfies reports whether r grants at least the privileges of required.
// The hierarchy is guest < user < admin.
func (r Role) Satisfies(required Role) bool {
	return r.rank() > 0 && r.rank() >= required.rank()
}

// Identity is the authenticated principal returned by an identity provider.
type Identity struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time
}

// DisplayName joins first and last name, falling back to the email and then the user ID.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName))
	if name != "" {
		return name
	}
	if i.Email != "" {
		return i.Email
	}
	return i.UserID
}

// Session is the server-side record kept for a signed-in user.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
