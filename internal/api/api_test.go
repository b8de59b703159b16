package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartflow-systems/SFS-Backend/internal/api"
	"github.com/smartflow-systems/SFS-Backend/internal/auth"
	"github.com/smartflow-systems/SFS-Backend/internal/cookie"
	"github.com/smartflow-systems/SFS-Backend/internal/session"
	"github.com/smartflow-systems/SFS-Backend/internal/storage"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// downSessionStore simulates a suspended database.
type downSessionStore struct{}

func (downSessionStore) Get(context.Context, string) (*session.Session, error) {
	return nil, storage.ErrUnavailable
}
func (downSessionStore) Put(context.Context, *session.Session) error { return storage.ErrUnavailable }
func (downSessionStore) Delete(context.Context, string) error        { return storage.ErrUnavailable }
func (downSessionStore) SweepExpired(context.Context) (int64, error) {
	return 0, storage.ErrUnavailable
}

func newTestRouter(t *testing.T, store session.Store) http.Handler {
	t.Helper()

	cookies, err := cookie.New(testSecret)
	require.NoError(t, err)

	sessions := session.NewManager(store, session.Config{TTL: time.Hour}, nil)
	mgr := auth.NewManager(auth.NewMemoryUserStore(), sessions, auth.Config{BcryptCost: 4})

	return api.NewRouter(api.Deps{
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Auth:    mgr,
		Cookies: cookies,
		Webapp: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "client app")
		}),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, rd)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == api.SessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		h := newTestRouter(t, session.NewMemoryStore())
		w := doJSON(t, h, http.MethodGet, "/health", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("still 200 when the session store is down", func(t *testing.T) {
		t.Parallel()

		h := newTestRouter(t, downSessionStore{})
		w := doJSON(t, h, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAccountLifecycle(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, session.NewMemoryStore())

	// Register, which also logs in.
	w := doJSON(t, h, http.MethodPost, "/api/register",
		`{"email":"lee@example.com","password":"hunter22","name":"Lee"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.Equal(t, "lee@example.com", registered.Email)
	assert.NotEmpty(t, registered.ID)
	assert.NotContains(t, w.Body.String(), "hunter22")
	assert.NotContains(t, w.Body.String(), "password")

	c := sessionCookie(t, w)
	assert.True(t, c.HttpOnly)
	assert.InDelta(t, 3600, c.MaxAge, 2)

	// The fresh session resolves to the principal, and the cookie is
	// re-issued with the session's current expiry.
	w = doJSON(t, h, http.MethodGet, "/api/user", "", []*http.Cookie{c})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lee@example.com")
	refreshed := sessionCookie(t, w)
	assert.Equal(t, c.Value, refreshed.Value)
	assert.Positive(t, refreshed.MaxAge)

	// Logout invalidates server-side state and expires the cookie.
	w = doJSON(t, h, http.MethodPost, "/api/logout", "", []*http.Cookie{c})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	cleared := sessionCookie(t, w)
	assert.Equal(t, -1, cleared.MaxAge)

	// The old token is dead even if the client kept it.
	w = doJSON(t, h, http.MethodGet, "/api/user", "", []*http.Cookie{c})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging out twice is fine.
	w = doJSON(t, h, http.MethodPost, "/api/logout", "", []*http.Cookie{c})
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Credentials still work for a new session.
	w = doJSON(t, h, http.MethodPost, "/api/login",
		`{"email":"lee@example.com","password":"hunter22"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lee@example.com")
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, session.NewMemoryStore())

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, h, http.MethodPost, "/api/register", `{"email": junk`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "bad_request")
	})

	t.Run("field problems in details", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, h, http.MethodPost, "/api/register",
			`{"email":"not-an-email","password":"short"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var env struct {
			Details map[string]string `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Contains(t, env.Details, "email")
		assert.Contains(t, env.Details, "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, h, http.MethodPost, "/api/register",
			`{"email":"dup@example.com","password":"hunter22"}`, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		w = doJSON(t, h, http.MethodPost, "/api/register",
			`{"email":"dup@example.com","password":"hunter22"}`, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "conflict")
	})
}

func TestLoginFailuresAreUniform(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, session.NewMemoryStore())

	w := doJSON(t, h, http.MethodPost, "/api/register",
		`{"email":"mia@example.com","password":"hunter22"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	wrongPass := doJSON(t, h, http.MethodPost, "/api/login",
		`{"email":"mia@example.com","password":"wrong"}`, nil)
	unknown := doJSON(t, h, http.MethodPost, "/api/login",
		`{"email":"ghost@example.com","password":"wrong"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	// Byte-identical envelopes: nothing distinguishes the two causes.
	assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestUnauthenticatedUser(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, session.NewMemoryStore())

	t.Run("no cookie", func(t *testing.T) {
		t.Parallel()

		w := doJSON(t, h, http.MethodGet, "/api/user", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "unauthorized")
	})

	t.Run("unsigned cookie", func(t *testing.T) {
		t.Parallel()

		forged := &http.Cookie{Name: api.SessionCookie, Value: "forged-token"}
		w := doJSON(t, h, http.MethodGet, "/api/user", "", []*http.Cookie{forged})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestStoreOutage(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, downSessionStore{})

	cookies, err := cookie.New(testSecret)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	cookies.SetSigned(rec, api.SessionCookie, "some-valid-looking-token")
	signed := rec.Result().Cookies()[0]

	// An outage is a 503, never a 401: the client must not drop its
	// credentials because the database restarted.
	w := doJSON(t, h, http.MethodGet, "/api/user", "", []*http.Cookie{signed})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "service_unavailable")

	// Registration succeeds against the user store but cannot mint a
	// session; that is still a 503, not a credentials problem.
	w = doJSON(t, h, http.MethodPost, "/api/register",
		`{"email":"noah@example.com","password":"hunter22"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, session.NewMemoryStore())
	w := doJSON(t, h, http.MethodGet, "/api/does-not-exist", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestWrongMethodOnAPIRoute(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, session.NewMemoryStore())

	// A known route hit with the wrong verb still answers in the JSON
	// envelope, not chi's bare 405.
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/login"},
		{http.MethodGet, "/api/register"},
		{http.MethodDelete, "/api/user"},
	} {
		w := doJSON(t, h, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, tc)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json", tc)
		assert.Contains(t, w.Body.String(), "method_not_allowed", tc)
	}
}

func TestNonAPIFallsThroughToWebapp(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, session.NewMemoryStore())

	for _, p := range []string{"/", "/settings", "/assets/app.js"} {
		w := doJSON(t, h, http.MethodGet, p, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, p)
		assert.Equal(t, "client app", w.Body.String(), p)
	}
}
