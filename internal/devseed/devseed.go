// Package devseed loads a small, idempotent development dataset: users,
// tenders and saved searches that exercise the alert dispatcher.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tenderwatch/tenderwatch-api/internal/data"
	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

// DevUserID matches the default DEV_AUTH_USER_ID so mock logins own the seeded searches.
const DevUserID = "dev-user"

// SavedSearchCreator is the subset of SavedSearchService used by the seeder.
type SavedSearchCreator interface {
	List(ctx context.Context, userID string, limit, offset int) ([]*model.SavedSearch, error)
	Create(ctx context.Context, userID string, req *model.CreateSavedSearchRequest) (*model.SavedSearch, error)
}

// UserUpserter stores seed users.
type UserUpserter interface {
	Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error)
}

// TenderLoader bulk-loads tenders.
type TenderLoader interface {
	UpsertBatch(ctx context.Context, reqs []*model.UpsertTenderRequest) (int, error)
}

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Users         UserUpserter
	Tenders       TenderLoader
	SavedSearches SavedSearchCreator
	Now           func() time.Time // Optional
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		Users:   data.NewUserRepo(db),
		Tenders: data.NewTenderRepo(db),
		SavedSearches: service.NewSavedSearchService(service.SavedSearchServiceOptions{
			Repo: data.NewSavedSearchRepo(db),
		}),
	}
}

// Run executes the full development seeding workflow. Running it twice is harmless.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if svcs.Now != nil {
		now = svcs.Now
	}

	failures := seedUsers(ctx, svcs.Users, logger)

	n, err := svcs.Tenders.UpsertBatch(ctx, defaultTenders(now().UTC()))
	if err != nil {
		return fmt.Errorf("seed tenders: %w", err)
	}
	logger.InfoContext(ctx, "seeded tenders", "count", n)

	failures += seedSavedSearches(ctx, svcs.SavedSearches, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func seedUsers(ctx context.Context, users UserUpserter, logger *slog.Logger) int {
	failures := 0
	for _, req := range []*model.UpsertUserRequest{
		{ID: DevUserID, Email: strPtr("dev@example.com"), Name: "Dev User", Role: "admin"},
		{ID: "dev-buyer-watcher", Email: strPtr("watcher@example.com"), Name: "Wendy Watcher", Role: "user"},
		{ID: "dev-no-email", Name: "Nomail Nigel", Role: "user"},
	} {
		if _, err := users.Upsert(ctx, req); err != nil {
			logger.ErrorContext(ctx, "failed to seed user", "id", req.ID, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "seeded user", "id", req.ID)
	}
	return failures
}

func defaultTenders(now time.Time) []*model.UpsertTenderRequest {
	closing := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}
	return []*model.UpsertTenderRequest{
		{
			OCID:         "ocds-dev-0001",
			Title:        "Road resurfacing framework 2026",
			Description:  "Resurfacing and pothole repair across the northern district.",
			BuyerName:    "Northshire County Council",
			MainCategory: strPtr("works"),
			Status:       strPtr("active"),
			PublishedAt:  now.Add(-6 * time.Hour),
			ClosingAt:    closing(21),
			URL:          strPtr("https://tenders.example.com/ocds-dev-0001"),
		},
		{
			OCID:         "ocds-dev-0002",
			Title:        "School catering services",
			Description:  "Hot meal provision for 14 primary schools.",
			BuyerName:    "Northshire County Council",
			MainCategory: strPtr("services"),
			Status:       strPtr("active"),
			PublishedAt:  now.Add(-30 * time.Hour),
			ClosingAt:    closing(10),
		},
		{
			OCID:         "ocds-dev-0003",
			Title:        "Laptop and peripheral supply",
			Description:  "Supply of 400 laptops with docking stations.",
			BuyerName:    "Harbour City Health Trust",
			MainCategory: strPtr("goods"),
			Status:       strPtr("active"),
			PublishedAt:  now.Add(-3 * 24 * time.Hour),
			ClosingAt:    closing(4),
		},
		{
			OCID:         "ocds-dev-0004",
			Title:        "Bridge inspection survey",
			Description:  "Principal inspections for 22 road bridges.",
			BuyerName:    "Harbour City Council",
			MainCategory: strPtr("services"),
			Status:       strPtr("complete"),
			PublishedAt:  now.Add(-10 * 24 * time.Hour),
		},
	}
}

func defaultSavedSearches() []*model.CreateSavedSearchRequest {
	thirty := 30
	return []*model.CreateSavedSearchRequest{
		{Name: "Road works", Keywords: strPtr("road"), Categories: []string{"works"}, AlertFrequency: model.AlertFrequencyDaily},
		{Name: "Northshire services", Buyer: strPtr("Northshire"), Categories: []string{"services"}, AlertFrequency: model.AlertFrequencyWeekly},
		{Name: "Closing this month", ClosingInDays: &thirty, Status: strPtr("active"), AlertFrequency: model.AlertFrequencyDaily},
		{Name: "Everything (no alerts)", AlertFrequency: model.AlertFrequencyNone},
	}
}

func seedSavedSearches(ctx context.Context, svc SavedSearchCreator, logger *slog.Logger) int {
	existing, err := svc.List(ctx, DevUserID, 500, 0)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list saved searches", "error", err)
		return 1
	}
	byName := make(map[string]bool, len(existing))
	for _, s := range existing {
		byName[s.Name] = true
	}

	failures := 0
	for _, req := range defaultSavedSearches() {
		if byName[req.Name] {
			logger.InfoContext(ctx, "saved search already exists", "name", req.Name)
			continue
		}
		if _, err := svc.Create(ctx, DevUserID, req); err != nil {
			logger.ErrorContext(ctx, "failed to create saved search", "name", req.Name, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "created saved search", "name", req.Name)
	}
	return failures
}
