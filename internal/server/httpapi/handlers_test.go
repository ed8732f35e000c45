package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxy201/nexus-auth/internal/logging"
	"github.com/proxy201/nexus-auth/internal/server/auth"
	"github.com/proxy201/nexus-auth/internal/server/users"
)

// plainHasher keeps passwords recoverable so tests stay fast; the real
// bcrypt scheme is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) { return "plain:" + plaintext, nil }

func (plainHasher) Verify(plaintext, hash string) bool { return "plain:"+plaintext == hash }

func (plainHasher) VerifyDummy(plaintext string) bool { return false }

type testEnv struct {
	handler http.Handler
	repo    *users.MemoryRepository
	tokens  *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := users.NewMemoryRepository()
	tokens := auth.NewTokenService([]byte("api-secret"), time.Hour)
	cookies := auth.NewSessionCookie(time.Hour, false)
	service := users.NewService(repo, plainHasher{})
	handler := NewRouter(logging.NopLogger{}, service, tokens, cookies, "/dashboard")
	return &testEnv{handler: handler, repo: repo, tokens: tokens}
}

const validSignup = `{"name":"alice123","password":"Str0ngPass","confirmPassword":"Str0ngPass"}`

func TestSignUp_Created(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	apitest.New().
		Handler(env.handler).
		Post("/api/auth/signup").
		JSON(validSignup).
		Expect(t).
		Status(http.StatusCreated).
		CookiePresent(auth.CookieName).
		Assert(jsonpath.Equal(`$.success`, true)).
		Assert(jsonpath.Equal(`$.data.user.name`, "alice123")).
		Assert(jsonpath.Equal(`$.data.redirectUrl`, "/dashboard")).
		End()
}

func TestSignUp_TrimsUsername(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	apitest.New().
		Handler(env.handler).
		Post("/api/auth/signup").
		JSON(`{"name":"  alice123  ","password":"Str0ngPass","confirmPassword":"Str0ngPass"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.data.user.name`, "alice123")).
		End()
}

func TestSignUp_ValidationFailed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	apitest.New().
		Handler(env.handler).
		Post("/api/auth/signup").
		JSON(`{"name":"ab","password":"short","confirmPassword":"other"}`).
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal(`$.success`, false)).
		Assert(jsonpath.Equal(`$.message`, "Validation failed")).
		Assert(jsonpath.Contains(`$.errors.name[0]`, "at least 3 characters")).
		Assert(jsonpath.Present(`$.errors.password`)).
		Assert(jsonpath.Equal(`$.errors.confirmPassword[0]`, "Passwords don't match")).
		End()
}

func TestSignUp_EmptyBodyReportsAllFields(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	apitest.New().
		Handler(env.handler).
		Post("/api/auth/signup").
		Body("not json at all").
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Present(`$.errors.name`)).
		Assert(jsonpath.Present(`$.errors.password`)).
		Assert(jsonpath.Present(`$.errors.confirmPassword`)).
		End()
}

func TestSignUp_DuplicateName(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	apitest.New().Handler(env.handler).
		Post("/api/auth/signup").JSON(validSignup).
		Expect(t).Status(http.StatusCreated).End()

	apitest.New().
		Handler(env.handler).
		Post("/api/auth/signup").
		JSON(validSignup).
		Expect(t).
		Status(http.StatusConflict).
		Assert(jsonpath.Equal(`$.message`, "Username already taken - please choose another")).
		Assert(jsonpath.Equal(`$.errors.name[0]`, "Username already taken")).
		End()
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	apitest.New().Handler(env.handler).
		Post("/api/auth/signup").JSON(validSignup).
		Expect(t).Status(http.StatusCreated).End()

	apitest.New().
		Handler(env.handler).
		Post("/api/auth/login").
		JSON(`{"name":"alice123","password":"Str0ngPass"}`).
		Expect(t).
		Status(http.StatusOK).
		CookiePresent(auth.CookieName).
		Assert(jsonpath.Equal(`$.data.user.name`, "alice123")).
		Assert(jsonpath.Equal(`$.data.redirectUrl`, "/dashboard")).
		End()
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	apitest.New().
		Handler(env.handler).
		Post("/api/auth/login").
		JSON(`{}`).
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Equal(`$.errors.name[0]`, "Username is required")).
		Assert(jsonpath.Equal(`$.errors.password[0]`, "Password is required")).
		End()
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec
}

// Unknown usernames and wrong passwords must produce byte-identical
// responses so the login endpoint reveals nothing about which names exist.
func TestLogin_UnknownUserAndWrongPasswordIndistinguishable(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated,
		postJSON(t, env.handler, "/api/auth/signup", validSignup).Code)

	unknown := postJSON(t, env.handler, "/api/auth/login",
		`{"name":"nobody999","password":"Str0ngPass"}`)
	wrongPw := postJSON(t, env.handler, "/api/auth/login",
		`{"name":"alice123","password":"WrongPass1"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, unknown.Body.Bytes(), wrongPw.Body.Bytes())
	assert.Empty(t, unknown.Result().Cookies())
	assert.Empty(t, wrongPw.Result().Cookies())
}

func TestLogout_ClearsCookieWithoutSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := postJSON(t, env.handler, "/api/auth/logout", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMe_WithValidSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	signup := postJSON(t, env.handler, "/api/auth/signup", validSignup)
	require.Equal(t, http.StatusCreated, signup.Code)

	cookies := signup.Result().Cookies()
	require.Len(t, cookies, 1)

	apitest.New().
		Handler(env.handler).
		Get("/api/auth/me").
		Cookie(cookies[0].Name, cookies[0].Value).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.data.user.name`, "alice123")).
		Assert(jsonpath.Present(`$.data.user.created_at`)).
		Assert(jsonpath.NotPresent(`$.data.user.password_hash`)).
		End()
}

func TestMe_NoCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	apitest.New().
		Handler(env.handler).
		Get("/api/auth/me").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal(`$.message`, "Unauthorized")).
		End()
}

func TestMe_DeletedUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	signup := postJSON(t, env.handler, "/api/auth/signup", validSignup)
	require.Equal(t, http.StatusCreated, signup.Code)
	cookies := signup.Result().Cookies()
	require.Len(t, cookies, 1)

	env.repo.Delete(1)

	apitest.New().
		Handler(env.handler).
		Get("/api/auth/me").
		Cookie(cookies[0].Name, cookies[0].Value).
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal(`$.message`, "User not found")).
		End()
}

func TestSignupLoginLogoutFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	signup := postJSON(t, env.handler, "/api/auth/signup", validSignup)
	require.Equal(t, http.StatusCreated, signup.Code)
	session := signup.Result().Cookies()[0]

	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.AddCookie(session)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, me)
	require.Equal(t, http.StatusOK, rec.Code)

	logout := postJSON(t, env.handler, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, logout.Code)
	cleared := logout.Result().Cookies()[0]
	require.Negative(t, cleared.MaxAge)

	// a client honoring the clearing cookie no longer sends one
	meAgain := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, meAgain)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecoverer_PanicBecomes500(t *testing.T) {
	t.Parallel()

	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(fmt.Errorf("boom"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"success":false,"message":"Internal server error - please try again later."}`,
		rec.Body.String())
}
