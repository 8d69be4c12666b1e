package auth

import (
	"testing"
	"time"
)

func TestRole_Satisfies(t *testing.T) {
	cases := []struct {
		have, need Role
		want       bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleGuest, true},
		{RoleGuest, RoleUser, false},
		{Role("root"), RoleGuest, false},
	}
	for _, c := range cases {
		if got := c.have.Satisfies(c.need); got != c.want {
			t.Errorf("%s.Satisfies(%s) = %v, want %v", c.have, c.need, got, c.want)
		}
	}
}

func TestSession_IsGuestAndExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if !(Session{Role: RoleGuest}).IsGuest() {
		t.Fatalf("expected guest")
	}
	if (Session{Role: RoleUser}).IsGuest() {
		t.Fatalf("did not expect guest")
	}

	if (Session{}).Expired(now) {
		t.Fatalf("zero expiry must not be treated as expired")
	}
	if !(Session{ExpiresAt: now}).Expired(now) {
		t.Fatalf("session expiring now must be expired")
	}
	if (Session{ExpiresAt: now.Add(time.Minute)}).Expired(now) {
		t.Fatalf("future expiry must not be expired")
	}
}

func TestIdentity_DisplayName(t *testing.T) {
	if got := (Identity{FirstName: "Ada", LastName: "Lovelace"}).DisplayName(); got != "Ada Lovelace" {
		t.Fatalf("got %q", got)
	}
	if got := (Identity{UserID: "u1", Email: "a@example.com"}).DisplayName(); got != "a@example.com" {
		t.Fatalf("got %q", got)
	}
	if got := (Identity{UserID: "u1"}).DisplayName(); got != "u1" {
		t.Fatalf("got %q", got)
	}
}
