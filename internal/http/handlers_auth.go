package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
	"github.com/tenderwatch/tenderwatch-api/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// CallbackURL is where the identity provider returns the browser. Defaults to /auth/callback.
	CallbackURL string
	Logger      *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the login initiation endpoint.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	callback := h.CallbackURL
	if callback == "" {
		callback = "/auth/callback"
	}
	result, err := h.Svc.BeginLogin(r.Context(), callback)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	h.setCookie(w, r, cookieOAuthState, result.State, oauthCookieMaxAge)
	h.setCookie(w, r, cookieOAuthNonce, result.Nonce, oauthCookieMaxAge)
	h.setCookie(w, r, cookiePostLoginRedirect, redirectURI, oauthCookieMaxAge)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}

	stateCookie, err := r.Cookie(cookieOAuthState)
	if state == "" || err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie(cookieOAuthNonce)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	session, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().WarnContext(r.Context(), "login completion failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "login_completion_failed",
			Err:     errors.New("sign-in could not be completed"),
		})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	h.setCookie(w, r, cookieSession, session.ID, maxAge)
	h.clearCookie(w, r, cookieOAuthState)
	h.clearCookie(w, r, cookieOAuthNonce)

	redirectURI := "/"
	if c, err := r.Cookie(cookiePostLoginRedirect); err == nil {
		redirectURI = safeRedirectPath(c.Value)
		h.clearCookie(w, r, cookiePostLoginRedirect)
	}
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieSession); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), c.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, cookieSession)
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type meResponse struct {
	Authenticated bool       `json:"authenticated"`
	User          *meUser    `json:"user,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

type meUser struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email,omitempty"`
	Role  domainauth.Role `json:"role"`
}

// Me reports the caller's session.
// GET /api/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromRequest(r, h.Svc)
	if session == nil {
		WriteJSON(w, http.StatusOK, meResponse{})
		return
	}
	WriteJSON(w, http.StatusOK, meResponse{
		Authenticated: true,
		User:          &meUser{ID: session.UserID, Name: session.Name, Email: session.Email, Role: session.Role},
		ExpiresAt:     &session.ExpiresAt,
	})
}

func (h *AuthHandlers) setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearCookie expires a cookie, mirroring the attributes it was set with.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
