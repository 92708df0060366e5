package gin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/adapter/outbound/memory"
	"github.com/teamdeck/console/internal/domain/account"
	"github.com/teamdeck/console/internal/domain/auth"
	"github.com/teamdeck/console/internal/domain/session"
	"github.com/teamdeck/console/internal/domain/tenant"
	accountmod "github.com/teamdeck/console/internal/module/account"
	"github.com/teamdeck/console/internal/module/authflow"
	"github.com/teamdeck/console/internal/module/feedback"
	"github.com/teamdeck/console/internal/module/inbox"
	"github.com/teamdeck/console/internal/module/settings"
	"github.com/teamdeck/console/internal/module/tenantctx"
	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/port/outbound/mocks"
	"github.com/teamdeck/console/internal/shared/config"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
	"github.com/teamdeck/console/internal/utils/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var owner = session.User{ID: 1, Email: "owner@example.com"}

// signedIn stands in for the session middleware.
func signedIn(u session.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.SessionKey, &session.Session{User: u})
		c.Set(middleware.UserKeyKey, u.Key())
		c.Next()
	}
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"app error passes through", apperrors.Forbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{"navigation", &outbound.NavigationError{Location: "/auth/verify"}, http.StatusSeeOther, "NAVIGATE"},
		{"team not found", fmt.Errorf("switch: %w", tenant.ErrTeamNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"invalid role", tenant.ErrInvalidRole, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown notification", inbox.ErrNotificationNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"double submit", auth.ErrAlreadySubmitting, http.StatusConflict, "CONFLICT"},
		{"transport", fmt.Errorf("x: %w", outbound.ErrUnavailable), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"backend status", &outbound.APIError{Status: 422, Message: "bad name"}, 422, "BACKEND_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toAppError(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func newRegistry(t *testing.T, teams outbound.TeamAPI) *tenantctx.Registry {
	t.Helper()
	reg, err := tenantctx.NewRegistry(teams, memory.NewSelectionStore(10, 0), config.TenantConfig{MaxSessions: 10}, nil, zap.NewNop())
	require.NoError(t, err)
	return reg
}

func teamRouter(t *testing.T, teams *mocks.TeamAPI) *gin.Engine {
	t.Helper()
	reg := newRegistry(t, teams)
	panel, err := settings.NewService(teams, reg, 10, zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api", signedIn(owner))
	NewTeamAdapter(reg, panel).RegisterRoutes(api)
	return r
}

func TestTeams(t *testing.T) {
	list := []tenant.Team{{ID: 10, Name: "Acme", OwnerID: 1}, {ID: 11, Name: "Beta", OwnerID: 2}}

	t.Run("list returns the snapshot", func(t *testing.T) {
		teams := new(mocks.TeamAPI)
		teams.On("List", mock.Anything).Return(list, nil)
		w := do(teamRouter(t, teams), "GET", "/api/teams", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var snap tenantctx.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Len(t, snap.All, 2)
		assert.True(t, snap.Loaded)
	})

	t.Run("switch to unknown team is 404", func(t *testing.T) {
		teams := new(mocks.TeamAPI)
		teams.On("List", mock.Anything).Return(list, nil)
		w := do(teamRouter(t, teams), "POST", "/api/teams/switch", gin.H{"team_id": 99})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("switch without id is rejected", func(t *testing.T) {
		w := do(teamRouter(t, new(mocks.TeamAPI)), "POST", "/api/teams/switch", gin.H{})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("bad path id", func(t *testing.T) {
		w := do(teamRouter(t, new(mocks.TeamAPI)), "GET", "/api/teams/abc/settings", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete needs the team name", func(t *testing.T) {
		teams := new(mocks.TeamAPI)
		teams.On("Get", mock.Anything, int64(10)).Return(&tenant.TeamDetail{
			Team:    tenant.Team{ID: 10, Name: "Acme", OwnerID: 1},
			Members: []tenant.Member{{ID: 1, Role: tenant.RoleOwner}},
		}, nil)
		teams.On("Overview", mock.Anything, int64(10)).Return(&tenant.Overview{}, nil)
		teams.On("ListInvitations", mock.Anything, int64(10)).Return([]tenant.Invitation{}, nil)

		w := do(teamRouter(t, teams), "DELETE", "/api/teams/10", gin.H{"confirmation": "acme"})

		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
		assert.Equal(t, "CONFIRMATION_REQUIRED", decodeError(t, w).Error.Code)
		teams.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("update sends name and icon together", func(t *testing.T) {
		teams := new(mocks.TeamAPI)
		teams.On("Get", mock.Anything, int64(10)).Return(&tenant.TeamDetail{
			Team:    tenant.Team{ID: 10, Name: "Acme", Icon: "bolt", OwnerID: 1},
			Members: []tenant.Member{{ID: 1, Role: tenant.RoleOwner}},
		}, nil)
		teams.On("Overview", mock.Anything, int64(10)).Return(&tenant.Overview{}, nil)
		teams.On("ListInvitations", mock.Anything, int64(10)).Return([]tenant.Invitation{}, nil)
		teams.On("Update", mock.Anything, int64(10), "Acme 2", "building").Return(nil).Once()
		teams.On("List", mock.Anything).Return(list, nil)

		w := do(teamRouter(t, teams), "PATCH", "/api/teams/10", gin.H{"name": "Acme 2", "icon": "building"})

		require.Equal(t, http.StatusOK, w.Code)
		var view settings.View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "Acme 2", view.Team.Name)
		assert.Equal(t, "building", view.Team.Icon)
		teams.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("update with an invalid icon changes nothing", func(t *testing.T) {
		teams := new(mocks.TeamAPI)
		w := do(teamRouter(t, teams), "PATCH", "/api/teams/10", gin.H{"name": "Acme 2", "icon": "rocket"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		teams.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("switch loads the list first", func(t *testing.T) {
		teams := new(mocks.TeamAPI)
		teams.On("List", mock.Anything).Return(list, nil).Once()
		w := do(teamRouter(t, teams), "POST", "/api/teams/switch", gin.H{"team_id": 11})

		require.Equal(t, http.StatusOK, w.Code)
		var snap tenantctx.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		require.NotNil(t, snap.CurrentID)
		assert.Equal(t, int64(11), *snap.CurrentID)
	})

	t.Run("remove member needs confirm", func(t *testing.T) {
		w := do(teamRouter(t, new(mocks.TeamAPI)), "DELETE", "/api/teams/10/members/3", nil)
		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	})
}

func authRouter(t *testing.T, api *mocks.AuthAPI) *gin.Engine {
	t.Helper()
	cooldowns, err := memory.NewCooldownStore(10)
	require.NoError(t, err)
	probe := probeFunc(func(context.Context) bool { return false })
	flows, err := authflow.NewService(api, probe, cooldowns, config.AuthConfig{ResendCooldown: time.Minute},
		"http://backend.test", 10, nil, zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	NewAuthAdapter(flows, "console_flow").RegisterRoutes(r.Group("/api"))
	return r
}

type probeFunc func(ctx context.Context) bool

func (p probeFunc) Active(ctx context.Context) bool { return p(ctx) }

func TestAuth(t *testing.T) {
	t.Run("mount issues a flow cookie", func(t *testing.T) {
		w := do(authRouter(t, new(mocks.AuthAPI)), "GET", "/api/auth/login", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "console_flow=")
		var view auth.View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, auth.ScreenLogin, view.Screen)
	})

	t.Run("unknown screen", func(t *testing.T) {
		w := do(authRouter(t, new(mocks.AuthAPI)), "GET", "/api/auth/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("oauth only login is a view, not an error", func(t *testing.T) {
		api := new(mocks.AuthAPI)
		api.On("Login", mock.Anything, "a@b.co", "pw").
			Return(&outbound.APIError{Status: http.StatusConflict, Message: "Sign in with Google"})
		w := do(authRouter(t, api), "POST", "/api/auth/login", gin.H{"email": "a@b.co", "password": "pw"})

		require.Equal(t, http.StatusOK, w.Code)
		var view auth.View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.True(t, view.OAuthOnly)
		assert.Equal(t, "/auth/google", view.OAuthAction)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := authRouter(t, new(mocks.AuthAPI))
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oauth redirect", func(t *testing.T) {
		w := do(authRouter(t, new(mocks.AuthAPI)), "GET", "/api/auth/oauth/github", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://backend.test/auth/github", w.Header().Get("Location"))
	})

	t.Run("unknown provider", func(t *testing.T) {
		w := do(authRouter(t, new(mocks.AuthAPI)), "GET", "/api/auth/oauth/myspace", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInbox_AcceptTokenEmpty(t *testing.T) {
	teams := new(mocks.TeamAPI)
	reg := newRegistry(t, teams)
	svc, err := inbox.NewService(new(mocks.NotificationAPI), teams, reg, config.InboxConfig{}, config.TenantConfig{}, nil, zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	NewInboxAdapter(svc).RegisterRoutes(r.Group("/api", signedIn(owner)))
	w := do(r, "POST", "/api/invites/accept", gin.H{"token": ""})

	assert.Equal(t, http.StatusGone, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "INVITE_INVALID", body.Error.Code)
	assert.Equal(t, true, body.Error.Details["request_new"])
}

func TestAccount_PreferencesSyncLocale(t *testing.T) {
	api := new(mocks.AccountAPI)
	api.On("Preferences", mock.Anything).Return(&account.Preferences{Theme: account.ThemeDark, Language: "de"}, nil)
	svc, err := accountmod.NewService(api, config.I18nConfig{Supported: []string{"en", "de"}, Default: "en"},
		auth.DefaultPasswordPolicy(), zap.NewNop())
	require.NoError(t, err)

	r := gin.New()
	NewAccountAdapter(svc).RegisterRoutes(r.Group("/api"))

	t.Run("cookie differs", func(t *testing.T) {
		w := do(r, "GET", "/api/account/preferences", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), svc.CookieName()+"=de")
	})

	t.Run("cookie already matches", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/account/preferences", nil)
		req.AddCookie(&http.Cookie{Name: svc.CookieName(), Value: "de"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Set-Cookie"))
	})
}

func TestFeedback_DailyLimit(t *testing.T) {
	api := new(mocks.FeedbackAPI)
	api.On("Submit", mock.Anything, "hello").Return(&outbound.APIError{Status: http.StatusTooManyRequests})

	r := gin.New()
	NewFeedbackAdapter(feedback.NewService(api, zap.NewNop())).RegisterRoutes(r.Group("/api"))
	w := do(r, "POST", "/api/feedback", gin.H{"message": "hello"})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, w).Error.Code)
}
