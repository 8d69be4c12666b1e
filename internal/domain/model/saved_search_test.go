package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAlertFrequency(t *testing.T) {
	assert.True(t, AlertFrequencyDaily.Dispatchable())
	assert.True(t, AlertFrequencyWeekly.Dispatchable())
	assert.False(t, AlertFrequencyNone.Dispatchable())
	assert.False(t, AlertFrequency("hourly").Valid())

	assert.Equal(t, 24*time.Hour, AlertFrequencyDaily.Window())
	assert.Equal(t, 7*24*time.Hour, AlertFrequencyWeekly.Window())
	assert.Zero(t, AlertFrequencyNone.Window())
}

func TestSavedSearch_IsDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name   string
		search SavedSearch
		want   bool
	}{
		{"never alerted daily", SavedSearch{AlertFrequency: AlertFrequencyDaily}, true},
		{"never alerted weekly", SavedSearch{AlertFrequency: AlertFrequencyWeekly}, true},
		{"none is never due", SavedSearch{AlertFrequency: AlertFrequencyNone}, false},
		{"daily 23h ago", SavedSearch{AlertFrequency: AlertFrequencyDaily, LastAlertSent: at(23 * time.Hour)}, false},
		{"daily exactly 24h ago", SavedSearch{AlertFrequency: AlertFrequencyDaily, LastAlertSent: at(24 * time.Hour)}, true},
		{"weekly 6 days ago", SavedSearch{AlertFrequency: AlertFrequencyWeekly, LastAlertSent: at(6 * 24 * time.Hour)}, false},
		{"weekly 7 days ago", SavedSearch{AlertFrequency: AlertFrequencyWeekly, LastAlertSent: at(7 * 24 * time.Hour)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.search.IsDue(now))
		})
	}
}

func TestSavedSearch_Since(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	weekly := SavedSearch{AlertFrequency: AlertFrequencyWeekly}
	assert.Equal(t, now.Add(-7*24*time.Hour), weekly.Since(now))

	last := now.Add(-30 * time.Hour)
	daily := SavedSearch{AlertFrequency: AlertFrequencyDaily, LastAlertSent: &last}
	assert.Equal(t, last, daily.Since(now))
}

func TestSavedSearch_ParseCategories(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		cats, err := (&SavedSearch{}).ParseCategories()
		require.NoError(t, err)
		assert.Nil(t, cats)
	})

	t.Run("empty array", func(t *testing.T) {
		cats, err := (&SavedSearch{Categories: strPtr("[]")}).ParseCategories()
		require.NoError(t, err)
		assert.Nil(t, cats)
	})

	t.Run("valid", func(t *testing.T) {
		cats, err := (&SavedSearch{Categories: strPtr(`["works", " goods ", ""]`)}).ParseCategories()
		require.NoError(t, err)
		assert.Equal(t, []string{"works", "goods"}, cats)
	})

	t.Run("malformed", func(t *testing.T) {
		cats, err := (&SavedSearch{Categories: strPtr(`works,goods`)}).ParseCategories()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedCategories))
		assert.Nil(t, cats)
	})

	t.Run("not a string array", func(t *testing.T) {
		_, err := (&SavedSearch{Categories: strPtr(`{"a":1}`)}).ParseCategories()
		assert.ErrorIs(t, err, ErrMalformedCategories)
	})
}

func TestSavedSearch_TenderSearch(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := SavedSearch{
		AlertFrequency: AlertFrequencyDaily,
		Keywords:       strPtr("  road "),
		Buyer:          strPtr(""),
		Status:         strPtr("active"),
		ClosingInDays:  intPtr(14),
	}

	q := s.TenderSearch(now, []string{"works"})

	assert.Equal(t, now.Add(-24*time.Hour), q.PublishedSince)
	require.NotNil(t, q.Keywords)
	assert.Equal(t, "road", *q.Keywords)
	assert.Nil(t, q.Buyer)
	assert.Equal(t, "active", *q.Status)
	assert.Equal(t, []string{"works"}, q.Categories)
	require.NotNil(t, q.ClosingFrom)
	require.NotNil(t, q.ClosingTo)
	assert.Equal(t, now, *q.ClosingFrom)
	assert.Equal(t, now.Add(14*24*time.Hour), *q.ClosingTo)
	assert.Equal(t, MaxTendersPerAlert, q.Limit)

	s.ClosingInDays = intPtr(0)
	q = s.TenderSearch(now, nil)
	assert.Nil(t, q.ClosingFrom)
	assert.Nil(t, q.ClosingTo)
}

func TestSavedSearch_MarshalJSON(t *testing.T) {
	s := SavedSearch{
		ID:             "ss-1",
		UserID:         "u-1",
		Name:           "Roads",
		Categories:     strPtr(`["works"]`),
		AlertFrequency: AlertFrequencyWeekly,
	}
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, []any{"works"}, out["categories"])
	assert.Equal(t, "weekly", out["alertFrequency"])
	assert.Equal(t, "u-1", out["userId"])

	s.Categories = strPtr("garbage")
	b, err = json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "categories")
}

func TestEncodeCategories(t *testing.T) {
	got, err := EncodeCategories([]string{" works ", "", "services"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `["works","services"]`, *got)

	got, err = EncodeCategories(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateSavedSearchRequest_Validate(t *testing.T) {
	req := CreateSavedSearchRequest{UserID: " u-1 ", Name: "  Roads  "}
	req.Normalize()
	require.NoError(t, req.Validate())
	assert.Equal(t, AlertFrequencyNone, req.AlertFrequency)
	assert.Equal(t, "Roads", req.Name)

	bad := CreateSavedSearchRequest{UserID: "u-1", Name: "x", AlertFrequency: "hourly"}
	bad.Normalize()
	assert.Error(t, bad.Validate())

	neg := CreateSavedSearchRequest{UserID: "u-1", Name: "x", ClosingInDays: intPtr(-1)}
	neg.Normalize()
	assert.EqualError(t, neg.Validate(), "closingInDays cannot be negative")

	noName := CreateSavedSearchRequest{UserID: "u-1"}
	noName.Normalize()
	assert.EqualError(t, noName.Validate(), "name is required")
}

func TestUpdateSavedSearchRequest(t *testing.T) {
	var empty UpdateSavedSearchRequest
	assert.False(t, empty.HasUpdates())

	freq := AlertFrequency(" DAILY ")
	req := UpdateSavedSearchRequest{AlertFrequency: &freq}
	req.Normalize()
	require.NoError(t, req.Validate())
	assert.Equal(t, AlertFrequencyDaily, *req.AlertFrequency)
	assert.True(t, req.HasUpdates())

	blank := ""
	req = UpdateSavedSearchRequest{Name: &blank}
	assert.Error(t, req.Validate())
}

func TestAlertSubject(t *testing.T) {
	assert.Equal(t, `1 new tender match "Roads"`, AlertSubject(1, "Roads"))
	assert.Equal(t, `3 new tenders match "Roads"`, AlertSubject(3, "Roads"))
}

func TestUser_MailAddress(t *testing.T) {
	addr, ok := (&User{Email: strPtr(" a@example.com ")}).MailAddress()
	assert.True(t, ok)
	assert.Equal(t, "a@example.com", addr)

	_, ok = (&User{Email: strPtr("  ")}).MailAddress()
	assert.False(t, ok)

	_, ok = (&User{}).MailAddress()
	assert.False(t, ok)

	var nilUser *User
	_, ok = nilUser.MailAddress()
	assert.False(t, ok)
}
