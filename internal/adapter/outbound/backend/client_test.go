package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/shared/config"
	"github.com/teamdeck/console/internal/utils/metrics"
	"github.com/teamdeck/console/internal/utils/requestctx"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	c, err := New(config.BackendConfig{
		BaseURL:          srv.URL,
		Timeout:          2 * time.Second,
		FailureThreshold: 5,
	}, nil, m, nil)
	require.NoError(t, err)
	return c, m
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New(config.BackendConfig{BaseURL: "/api"}, nil, nil, nil)
	assert.Error(t, err)
}

func TestClient_ForwardsCredentials(t *testing.T) {
	var gotCookie, gotAuth, gotReqID string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "email": "a@b.co"})
	}))

	ctx := requestctx.WithCredentials(context.Background(), requestctx.Credentials{
		Cookie:        "bp_access_token=abc",
		Authorization: "Bearer xyz",
	})
	ctx = requestctx.WithRequestID(ctx, "req-1")

	u, err := NewAuth(c).Me(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, u.ID)
	assert.Equal(t, "bp_access_token=abc", gotCookie)
	assert.Equal(t, "Bearer xyz", gotAuth)
	assert.Equal(t, "req-1", gotReqID)
}

func TestClient_RelaysSetCookie(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "bp_access_token", Value: "fresh"})
		w.WriteHeader(http.StatusNoContent)
	}))

	sink := &requestctx.CookieSink{}
	ctx := requestctx.WithCookieSink(context.Background(), sink)
	require.NoError(t, NewAuth(c).Login(ctx, "a@b.co", "Secret1!"))

	cookies := sink.Drain()
	require.Len(t, cookies, 1)
	assert.Contains(t, cookies[0], "bp_access_token=fresh")
}

func TestClient_MessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		ctype   string
		message string
	}{
		{"message field", 400, `{"message":"bad input","error":"ignored"}`, "application/json", "bad input"},
		{"error string", 401, `{"error":"invalid credentials"}`, "application/json", "invalid credentials"},
		{"nested error", 422, `{"error":{"message":"email taken"}}`, "application/json", "email taken"},
		{"plain text", 403, `forbidden`, "text/plain", "forbidden"},
		{"empty", 404, ``, "application/json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.ctype)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			err := NewAuth(c).Login(context.Background(), "a@b.co", "x")
			var apiErr *outbound.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)

			want := tt.message
			if want == "" {
				want = "fallback"
			}
			assert.Equal(t, want, outbound.MessageOf(err, "fallback"))
		})
	}
}

func TestMessageOf_Transport(t *testing.T) {
	err := unavailable("auth.login", errors.New("dial tcp: refused"))
	assert.True(t, errors.Is(err, outbound.ErrUnavailable))
	assert.Equal(t, outbound.GenericMessage, outbound.MessageOf(err, "fallback"))
	assert.Equal(t, "fallback", outbound.MessageOf(errors.New("other"), "fallback"))
	assert.Equal(t, "", outbound.MessageOf(nil, "fallback"))
}

func TestClient_VerifyRedirectIsNavigation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/auth/verify?cid=42", http.StatusFound)
	}))

	_, err := NewAuth(c).Me(context.Background())
	var nav *outbound.NavigationError
	require.ErrorAs(t, err, &nav)
	assert.Equal(t, "/auth/verify?cid=42", nav.Location)
}

func TestClient_OtherRedirectIsError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/somewhere", http.StatusFound)
	}))

	_, err := NewAuth(c).Me(context.Background())
	var nav *outbound.NavigationError
	assert.False(t, errors.As(err, &nav))
	assert.True(t, outbound.IsStatus(err, http.StatusFound))
}

func TestClient_HTMLIsNavigation(t *testing.T) {
	t.Run("content type", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<p>login</p>"))
		}))
		_, err := NewTeams(c).List(context.Background())
		var nav *outbound.NavigationError
		require.ErrorAs(t, err, &nav)
		assert.Equal(t, "/teams", nav.Location)
	})

	t.Run("sniffed body", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("\n  <!DOCTYPE html><html></html>"))
		}))
		_, err := NewNotifications(c).List(context.Background())
		var nav *outbound.NavigationError
		require.ErrorAs(t, err, &nav)
		assert.Equal(t, "/notifications", nav.Location)
	})

	t.Run("html error page stays error", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<html>not found</html>"))
		}))
		_, err := NewTeams(c).List(context.Background())
		assert.True(t, outbound.IsNotFound(err))
	})
}

func TestClient_BreakerTripsOnServerErrors(t *testing.T) {
	calls := 0
	c, m := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": "upstream down"})
	}))

	for i := 0; i < 5; i++ {
		_, err := NewTeams(c).List(context.Background())
		require.Error(t, err)
		assert.Equal(t, "upstream down", outbound.MessageOf(err, "x"))
	}
	assert.Equal(t, gobreaker.StateOpen, c.BreakerState())

	_, err := NewTeams(c).List(context.Background())
	assert.True(t, errors.Is(err, outbound.ErrUnavailable))
	assert.Equal(t, 5, calls)
	assert.Equal(t, float64(5), testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues("teams.list", "502")))
}

func TestClient_ClientErrorsDoNotTrip(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "no"})
	}))

	for i := 0; i < 10; i++ {
		_, err := NewTeams(c).List(context.Background())
		require.True(t, outbound.IsStatus(err, http.StatusForbidden))
	}
	assert.Equal(t, gobreaker.StateClosed, c.BreakerState())
}

func TestClient_CancelledCallsDoNotTrip(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Acme"}})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		_, err := NewTeams(c).List(ctx)
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, c.BreakerState())

	list, err := NewTeams(c).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotifications_List_PascalCase(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"ID": 1, "Type": "team_invite", "Data": "{\"token\":\"t1\"}", "ReadAt": null},
			{"id": "2", "type": "info", "data": {"x": 1}, "read_at": "2024-01-01T00:00:00Z"}
		]`))
	}))

	list, err := NewNotifications(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 1, list[0].ID)
	assert.True(t, list[0].IsInvite())
	assert.False(t, list[0].Read())
	assert.EqualValues(t, 2, list[1].ID)
	assert.True(t, list[1].Read())
	assert.JSONEq(t, `{"x": 1}`, list[1].Data)
}

func TestTeams_PathsAndBodies(t *testing.T) {
	type seen struct {
		method, path string
		body         map[string]any
	}
	var got []seen
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		got = append(got, seen{r.Method, r.URL.Path, body})
		switch r.URL.Path {
		case "/teams/3/invitations":
			if r.Method == http.MethodPost {
				writeJSON(w, http.StatusCreated, map[string]string{"token": "tok"})
				return
			}
		case "/teams/invitations/check":
			writeJSON(w, http.StatusOK, map[string]any{"status": "PENDING", "team_id": 3})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	teams := NewTeams(c)
	ctx := context.Background()

	token, err := teams.CreateInvitation(ctx, 3, "x@y.co", "admin")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	require.NoError(t, teams.UpdateMemberRole(ctx, 3, 9, "regular"))
	require.NoError(t, teams.RemoveMember(ctx, 3, 9))
	check, err := teams.CheckInvitation(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "pending", string(check.Status))

	require.Len(t, got, 4)
	assert.Equal(t, "/teams/3/members/9/role", got[1].path)
	assert.Equal(t, http.MethodPatch, got[1].method)
	assert.Equal(t, "regular", got[1].body["role"])
	assert.Equal(t, http.MethodDelete, got[2].method)
	assert.Equal(t, "tok", got[3].body["token"])
}

func TestDashboard_Overview_PassThrough(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"projects": 3})
	}))
	raw, err := NewDashboard(c).Overview(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"projects":3}`, string(raw))
}
