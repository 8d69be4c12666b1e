package httpx

// Cookie names shared by the auth handlers and middleware.
const (
	cookieSession           = "session_id"
	cookieOAuthState        = "oauth_state"
	cookieOAuthNonce        = "oauth_nonce"
	cookiePostLoginRedirect = "post_login_redirect"

	oauthCookieMaxAge = 600 // seconds
)

// Pagination bounds for list endpoints.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)
