// Package mocks provides gomock mocks for the repository and port interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockSavedSearchRepository(ctrl)
//	repo.EXPECT().ListAlertCandidates(gomock.Any(), 200).Return(searches, nil)
package mocks

// Repositories from internal/core.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=saved_search_repository_mock.go github.com/tenderwatch/tenderwatch-api/internal/core SavedSearchRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=tender_repository_mock.go github.com/tenderwatch/tenderwatch-api/internal/core TenderRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=alert_log_repository_mock.go github.com/tenderwatch/tenderwatch-api/internal/core AlertLogRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=mail_log_repository_mock.go github.com/tenderwatch/tenderwatch-api/internal/core MailLogRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/tenderwatch/tenderwatch-api/internal/core UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=retention_repository_mock.go github.com/tenderwatch/tenderwatch-api/internal/core RetentionRepository

// Outbound ports from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=mailer_mock.go github.com/tenderwatch/tenderwatch-api/internal/ports Mailer
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=dispatch_lock_mock.go github.com/tenderwatch/tenderwatch-api/internal/ports DispatchLock
