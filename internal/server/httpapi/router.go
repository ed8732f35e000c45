package httpapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/proxy201/nexus-auth/internal/logging"
	"github.com/proxy201/nexus-auth/internal/server/auth"
	"github.com/proxy201/nexus-auth/internal/server/users"
)

// NewRouter assembles the complete HTTP surface: auth API, placeholder
// pages, and the middleware chain. The gate runs after request logging and
// panic recovery, ahead of every route.
func NewRouter(log logging.Logger, us *users.Service, tokens *auth.TokenService, cookies *auth.SessionCookie, redirectURL string) http.Handler {
	h := NewHandler(us, tokens, cookies, redirectURL)

	router := httprouter.New()
	router.HandlerFunc(http.MethodPost, "/api/auth/signup", h.SignUp)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", h.Login)
	router.HandlerFunc(http.MethodPost, "/api/auth/logout", h.Logout)
	router.HandlerFunc(http.MethodGet, "/api/auth/me", h.Me)

	router.HandlerFunc(http.MethodGet, "/login", servePage("login.html"))
	router.HandlerFunc(http.MethodGet, "/signup", servePage("signup.html"))
	router.HandlerFunc(http.MethodGet, "/dashboard", servePage("dashboard.html"))

	gate := NewGate(tokens, cookies, redirectURL)

	var handler http.Handler = router
	handler = gate.Middleware(handler)
	handler = Recoverer(handler)
	handler = RequestLogger(log)(handler)
	return handler
}
