package httpapi

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/proxy201/nexus-auth/internal/server/auth"
)

// RouteClass is the gate's classification of a request path.
type RouteClass int

const (
	// ClassAsset paths (static files, favicons, media) are always admitted.
	ClassAsset RouteClass = iota
	// ClassPublic paths (login/signup pages and their APIs, plus logout)
	// are always admitted.
	ClassPublic
	// ClassRoot is the bare "/"; it never reaches a handler, the gate
	// redirects it based on session validity.
	ClassRoot
	// ClassProtected is everything else and requires a valid session.
	ClassProtected
)

var assetExtensions = regexp.MustCompile(`\.(png|jpg|jpeg|gif|svg|webp|ico|woff2?|ttf)$`)

// publicPrefixes lists the paths reachable without a session. Logout is
// deliberately public: clients must be able to clear a stale cookie after
// their token has expired.
var publicPrefixes = []string{
	"/login",
	"/signup",
	"/api/auth/login",
	"/api/auth/signup",
	"/api/auth/logout",
}

// Classify buckets a request path. It is a pure function of the path.
func Classify(path string) RouteClass {
	if strings.HasPrefix(path, "/_next") ||
		strings.HasPrefix(path, "/favicon") ||
		assetExtensions.MatchString(path) {
		return ClassAsset
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return ClassPublic
		}
	}
	if path == "/" {
		return ClassRoot
	}
	return ClassProtected
}

// Gate decides, per request and before any protected handler runs, whether
// to admit, redirect or block. It holds no per-request state: the outcome
// is a function of (path, cookie, token validity).
type Gate struct {
	tokens      *auth.TokenService
	cookies     *auth.SessionCookie
	redirectURL string
}

func NewGate(tokens *auth.TokenService, cookies *auth.SessionCookie, redirectURL string) *Gate {
	return &Gate{tokens: tokens, cookies: cookies, redirectURL: redirectURL}
}

func (g *Gate) hasValidSession(r *http.Request) bool {
	token, ok := g.cookies.Extract(r)
	if !ok {
		return false
	}
	_, err := g.tokens.Verify(token)
	return err == nil
}

// Middleware wraps next with the admission decision.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch Classify(path) {
		case ClassAsset, ClassPublic:
			next.ServeHTTP(w, r)

		case ClassRoot:
			if g.hasValidSession(r) {
				http.Redirect(w, r, g.redirectURL, http.StatusFound)
				return
			}
			http.Redirect(w, r, "/login", http.StatusFound)

		case ClassProtected:
			if g.hasValidSession(r) {
				next.ServeHTTP(w, r)
				return
			}
			if strings.HasPrefix(path, "/api/") {
				// API clients get a structured 401 instead of a redirect
				writeUnauthorized(w)
				return
			}
			http.Redirect(w, r, "/login?next="+url.QueryEscape(path), http.StatusFound)
		}
	})
}
