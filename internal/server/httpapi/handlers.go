package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/proxy201/nexus-auth/internal/common"
	"github.com/proxy201/nexus-auth/internal/logging"
	"github.com/proxy201/nexus-auth/internal/server/auth"
	"github.com/proxy201/nexus-auth/internal/server/users"
	"github.com/proxy201/nexus-auth/internal/server/validation"
)

// Handler implements the auth endpoints. It orchestrates the users service
// for credentials and the token service plus session cookie for sessions.
type Handler struct {
	users       *users.Service
	tokens      *auth.TokenService
	cookies     *auth.SessionCookie
	redirectURL string
}

func NewHandler(us *users.Service, tokens *auth.TokenService, cookies *auth.SessionCookie, redirectURL string) *Handler {
	return &Handler{users: us, tokens: tokens, cookies: cookies, redirectURL: redirectURL}
}

// sessionUser is the user shape embedded in signup/login responses.
type sessionUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// decodeBody decodes the request body into v. An unreadable or malformed
// body is not an error here: v keeps its zero value and validation reports
// the missing fields, mirroring a client that sent an empty object.
func decodeBody(r *http.Request, v any) {
	_ = json.NewDecoder(r.Body).Decode(v)
}

// SignUp handles POST /api/auth/signup.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var in validation.SignupInput
	decodeBody(r, &in)

	if errs := validation.Signup(&in); errs != nil {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", errs)
		return
	}

	user, err := h.users.SignUp(r.Context(), in.Name, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, "Username already taken - please choose another",
				map[string][]string{"name": {"Username already taken"}})
			return
		}
		log.Error(r.Context(), "signup failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Name)
	if err != nil {
		log.Error(r.Context(), "issuing token failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	h.cookies.Attach(w, token)
	log.Info(r.Context(), "user signed up", "user_id", user.ID, "name", user.Name)
	writeSuccess(w, http.StatusCreated, map[string]any{
		"user":        sessionUser{ID: user.ID, Name: user.Name},
		"redirectUrl": h.redirectURL,
	})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var in validation.LoginInput
	decodeBody(r, &in)

	if errs := validation.Login(&in); errs != nil {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", errs)
		return
	}

	user, err := h.users.Authenticate(r.Context(), in.Name, in.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			// generic on purpose: no-such-user and wrong-password must be
			// indistinguishable to the caller
			writeError(w, http.StatusUnauthorized, "Invalid username or password", nil)
			return
		}
		log.Error(r.Context(), "login failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Name)
	if err != nil {
		log.Error(r.Context(), "issuing token failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	h.cookies.Attach(w, token)
	log.Info(r.Context(), "user logged in", "user_id", user.ID)
	writeSuccess(w, http.StatusOK, map[string]any{
		"user":        sessionUser{ID: user.ID, Name: user.Name},
		"redirectUrl": h.redirectURL,
	})
}

// Logout handles POST /api/auth/logout. Idempotent: it clears the cookie
// whether or not a session exists.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Detach(w)
	writeSuccess(w, http.StatusOK, map[string]any{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	token, ok := h.cookies.Extract(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	claims, err := h.tokens.Verify(token)
	if err != nil {
		writeUnauthorized(w)
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		log.Error(r.Context(), "resolving session user failed", "error", err.Error())
		writeInternalError(w)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"user": user})
}
