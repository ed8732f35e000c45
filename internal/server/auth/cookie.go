package auth

import (
	"net/http"
	"time"
)

// CookieName is the session cookie's fixed name.
const CookieName = "nexus_token"

// SessionCookie binds session tokens to the HTTP transport. The cookie
// max-age equals the token validity so the two lifetimes cannot diverge.
type SessionCookie struct {
	maxAge time.Duration
	secure bool
}

func NewSessionCookie(maxAge time.Duration, secure bool) *SessionCookie {
	return &SessionCookie{maxAge: maxAge, secure: secure}
}

// Attach sets the session cookie on the response. Must only be called on
// paths that actually issued a session.
func (c *SessionCookie) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Detach expires the session cookie (logout).
func (c *SessionCookie) Detach(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Extract reads the raw token from the request cookie. It does not validate
// the token; that is the TokenService's job.
func (c *SessionCookie) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
