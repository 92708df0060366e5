package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdeck/console/internal/shared/config"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			if !strings.Contains(r.Header.Get("Cookie"), "bp_access_token=ok") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":7,"email":"ada@example.com","name":"Ada"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(backendURL string) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		Backend: config.BackendConfig{BaseURL: backendURL, Timeout: 2 * time.Second},
		Auth: config.AuthConfig{
			TokenCookie:     "bp_access_token",
			FlowCookie:      "console_flow",
			LoginPath:       "/auth/login",
			HomePath:        "/dashboard",
			RateLimit:       30,
			RateLimitWindow: time.Minute,
		},
		Tenant: config.TenantConfig{Kind: "team", MaxSessions: 16},
		Store:  config.StoreConfig{Driver: DriverMemory, MaxKeys: 16, TTL: time.Hour},
		Log:    config.LogConfig{Level: "error", Format: "json"},
		CORS:   config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}},
		I18n:   config.I18nConfig{Supported: []string{"en"}, Default: "en", CookieName: "NEXT_LOCALE"},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(testConfig(newBackend(t).URL))
	require.NoError(t, err)
	t.Cleanup(func() { a.Stop(context.Background()) })
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	return w
}

func TestApp_Health(t *testing.T) {
	a := newTestApp(t)

	w := serve(a, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestApp_Session(t *testing.T) {
	a := newTestApp(t)

	t.Run("anonymous", func(t *testing.T) {
		w := serve(a, httptest.NewRequest(http.MethodGet, "/api/session", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("signed in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.Header.Set("Cookie", "bp_access_token=ok")

		w := serve(a, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["authenticated"])
	})
}

func TestApp_ProtectedRoutes(t *testing.T) {
	a := newTestApp(t)

	t.Run("json client gets 401", func(t *testing.T) {
		w := serve(a, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("browser is sent to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
		req.Header.Set("Accept", "text/html")

		w := serve(a, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/auth/login?next=%2Fapi%2Fteams", w.Header().Get("Location"))
	})
}

func TestApp_UnknownStoreDriver(t *testing.T) {
	cfg := testConfig(newBackend(t).URL)
	cfg.Store.Driver = "etcd"

	_, err := New(cfg)

	assert.ErrorContains(t, err, "unknown store driver")
}

func TestApp_RedisDriverNeedsAddress(t *testing.T) {
	cfg := testConfig(newBackend(t).URL)
	cfg.Store.Driver = DriverRedis

	_, err := New(cfg)

	assert.Error(t, err)
}
