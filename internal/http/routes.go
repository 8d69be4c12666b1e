package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth          AuthServiceInterface // Optional: auth and owner-scoped routes are not mounted when nil
	SavedSearch   SavedSearchService
	AlertLogs     AlertLogLister
	Dispatcher    Dispatcher
	Cron          CronAuth
	DispatchLimit int

	CookieDomain string
	CallbackURL  string

	// Ready lists dependencies checked by /readyz.
	Ready  map[string]Pinger
	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)
	mux.Handle("GET /readyz", readyHandler(services.Ready, logger))

	alerts := &AlertHandlers{
		Dispatcher: services.Dispatcher,
		Logs:       services.AlertLogs,
		Cron:       services.Cron,
		Limit:      services.DispatchLimit,
		Logger:     logger,
	}
	if services.Dispatcher != nil {
		mux.HandleFunc("POST /api/cron/saved-search-alerts", alerts.CronDispatch)
		mux.HandleFunc("GET /api/cron/saved-search-alerts", alerts.CronDispatch)
	}

	if services.Auth != nil {
		authHandlers := &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			CallbackURL:  services.CallbackURL,
			Logger:       logger,
		}
		registerAuthRoutes(mux, authHandlers)

		if services.SavedSearch != nil {
			registerSavedSearchRoutes(mux, &SavedSearchHandlers{Svc: services.SavedSearch, Logger: logger}, services.Auth)
		}
		registerAdminRoutes(mux, alerts, services.Auth)
	}

	return Chain(mux, RequestID(), Logging(logger), Recover(logger))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /api/me", h.Me)
}

func registerSavedSearchRoutes(mux *http.ServeMux, h *SavedSearchHandlers, auth AuthServiceInterface) {
	wrap := RequireAuth(auth)
	mux.Handle("GET /api/saved-searches", wrap(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/saved-searches", wrap(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/saved-searches/{id}", wrap(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/saved-searches/{id}", wrap(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/saved-searches/{id}", wrap(http.HandlerFunc(h.Delete)))
}

func registerAdminRoutes(mux *http.ServeMux, h *AlertHandlers, auth AuthServiceInterface) {
	adminOnly := RequireRole(auth, domainauth.RoleAdmin)
	if h.Logs != nil {
		mux.Handle("GET /api/admin/alert-logs", adminOnly(http.HandlerFunc(h.ListLogs)))
	}
	if h.Dispatcher != nil {
		mux.Handle("POST /api/admin/alerts/dispatch", adminOnly(http.HandlerFunc(h.AdminDispatch)))
	}
}
