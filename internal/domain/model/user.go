package model

import (
	"errors"
	"strings"
	"time"
)

// User is an account that owns saved searches.
type User struct {
	ID        string    `json:"id"              db:"id"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Name      string    `json:"name"            db:"name"`
	Role      string    `json:"role"            db:"role"`
	CreatedAt time.Time `json:"createdAt"       db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt"       db:"updated_at"`
}

// MailAddress returns the trimmed email and whether it is usable for delivery.
func (u *User) MailAddress() (string, bool) {
	if u == nil || u.Email == nil {
		return "", false
	}
	addr := strings.TrimSpace(*u.Email)
	return addr, addr != ""
}

// UpsertUserRequest creates or refreshes a user from an authenticated identity.
type UpsertUserRequest struct {
	ID    string
	Email *string
	Name  string
	Role  string
}

// Validate validates the UpsertUserRequest fields.
func (r *UpsertUserRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(r.Role) == "" {
		return errors.New("role is required")
	}
	return nil
}
