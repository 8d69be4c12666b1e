package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UserFixture describes a users row inserted by SeedUser.
type UserFixture struct {
	ID    string
	Email *string
	Name  string
	Role  string
}

// SeedUser inserts a user and returns its ID. Empty fields get defaults.
func SeedUser(t TestingTB, db *sql.DB, f UserFixture) string {
	t.Helper()
	if f.ID == "" {
		f.ID = "user-" + uuid.NewString()
	}
	if f.Role == "" {
		f.Role = "user"
	}
	if f.Name == "" {
		f.Name = "Test User"
	}
	exec(t, db, `INSERT INTO users (id, email, name, role) VALUES ($1, $2, $3, $4)`,
		f.ID, f.Email, f.Name, f.Role)
	return f.ID
}

// TenderFixture describes a tenders row inserted by SeedTender.
type TenderFixture struct {
	Title        string
	Description  string
	BuyerName    string
	MainCategory *string
	Status       *string
	PublishedAt  time.Time
	ClosingAt    *time.Time
}

// SeedTender inserts a tender and returns its ID.
func SeedTender(t TestingTB, db *sql.DB, f TenderFixture) string {
	t.Helper()
	id := uuid.NewString()
	if f.PublishedAt.IsZero() {
		f.PublishedAt = TestTime()
	}
	exec(t, db, `
		INSERT INTO tenders (id, ocid, title, description, buyer_name, main_category, status, published_at, closing_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, "ocds-"+id, f.Title, f.Description, f.BuyerName, f.MainCategory, f.Status, f.PublishedAt, f.ClosingAt)
	return id
}

// SavedSearchFixture describes a saved_searches row inserted by SeedSavedSearch.
type SavedSearchFixture struct {
	UserID         string
	Name           string
	Keywords       *string
	Categories     *string
	Buyer          *string
	Status         *string
	ClosingInDays  *int
	AlertFrequency string
	LastAlertSent  *time.Time
	UpdatedAt      time.Time
}

// SeedSavedSearch inserts a saved search and returns its ID.
func SeedSavedSearch(t TestingTB, db *sql.DB, f SavedSearchFixture) string {
	t.Helper()
	id := uuid.NewString()
	if f.Name == "" {
		f.Name = "search " + id[:8]
	}
	if f.AlertFrequency == "" {
		f.AlertFrequency = "daily"
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = TestTime()
	}
	exec(t, db, `
		INSERT INTO saved_searches (
			id, user_id, name, keywords, categories, buyer, status, closing_in_days,
			alert_frequency, last_alert_sent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		id, f.UserID, f.Name, f.Keywords, f.Categories, f.Buyer, f.Status, f.ClosingInDays,
		f.AlertFrequency, f.LastAlertSent, f.UpdatedAt)
	return id
}

// CountRows returns the number of rows in table matching the optional where clause.
func CountRows(t TestingTB, db *sql.DB, table, where string, args ...any) int {
	t.Helper()
	q := "SELECT COUNT(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func exec(t TestingTB, db *sql.DB, q string, args ...any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, q, args...); err != nil {
		t.Fatalf("seed exec failed: %v", err)
	}
}
