package account

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/domain/account"
	"github.com/teamdeck/console/internal/domain/auth"
	"github.com/teamdeck/console/internal/port/outbound/mocks"
	"github.com/teamdeck/console/internal/shared/config"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
)

func newTestService(t *testing.T, api *mocks.AccountAPI) *Service {
	t.Helper()
	svc, err := NewService(api, config.I18nConfig{Supported: []string{"en", "de", "pt-BR"}, Default: "en"},
		auth.DefaultPasswordPolicy(), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestPreferences_Defaults(t *testing.T) {
	api := new(mocks.AccountAPI)
	api.On("Preferences", mock.Anything).Return(&account.Preferences{}, nil)
	svc := newTestService(t, api)

	p, err := svc.Preferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, account.ThemeSystem, p.Theme)
	assert.Equal(t, "en", p.Language)
}

func TestUpdatePreferences(t *testing.T) {
	tests := []struct {
		name     string
		theme    string
		language string
		sent     account.Preferences
		wantErr  bool
	}{
		{"dark german", "Dark", "de-DE", account.Preferences{Theme: account.ThemeDark, Language: "de"}, false},
		{"empty keeps defaults", "", "", account.Preferences{Theme: account.ThemeSystem, Language: "en"}, false},
		{"bad theme", "neon", "en", account.Preferences{}, true},
		{"unsupported language", "light", "ja", account.Preferences{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(mocks.AccountAPI)
			if !tt.wantErr {
				api.On("UpdatePreferences", mock.Anything, tt.sent).Return(&tt.sent, nil)
			}
			svc := newTestService(t, api)

			got, err := svc.UpdatePreferences(context.Background(), tt.theme, tt.language)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrBadRequest)
				api.AssertNotCalled(t, "UpdatePreferences", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sent, got)
		})
	}
}

func TestLocaleCookie(t *testing.T) {
	svc := newTestService(t, new(mocks.AccountAPI))

	assert.Nil(t, svc.LocaleCookie(account.Preferences{Language: "de"}, "de"))
	assert.Nil(t, svc.LocaleCookie(account.Preferences{}, "en"))

	c := svc.LocaleCookie(account.Preferences{Language: "de"}, "en")
	require.NotNil(t, c)
	assert.Equal(t, "NEXT_LOCALE", c.Name)
	assert.Equal(t, "de", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int((180 * 24 * time.Hour).Seconds()), c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	assert.NotNil(t, svc.LocaleCookie(account.Preferences{Language: "de"}, ""))
}

func TestChangePassword(t *testing.T) {
	api := new(mocks.AccountAPI)
	api.On("ChangePassword", mock.Anything, "Old$ecret1", "N3w$ecret!").Return(nil)
	svc := newTestService(t, api)

	assert.Error(t, svc.ChangePassword(context.Background(), "", "N3w$ecret!"))
	assert.Error(t, svc.ChangePassword(context.Background(), "Old$ecret1", "weak"))
	assert.Error(t, svc.ChangePassword(context.Background(), "N3w$ecret!", "N3w$ecret!"))
	require.NoError(t, svc.ChangePassword(context.Background(), "Old$ecret1", "N3w$ecret!"))
	api.AssertNumberOfCalls(t, "ChangePassword", 1)
}

func TestChangeEmail(t *testing.T) {
	api := new(mocks.AccountAPI)
	api.On("ChangeEmail", mock.Anything, "new@x.io").Return("cid-7", nil)
	svc := newTestService(t, api)

	_, err := svc.ChangeEmail(context.Background(), "not-an-email")
	assert.Error(t, err)

	cid, err := svc.ChangeEmail(context.Background(), " New@X.io ")
	require.NoError(t, err)
	assert.Equal(t, "cid-7", cid)
}

func TestUpdateProfile_AvatarMustBeHTTP(t *testing.T) {
	api := new(mocks.AccountAPI)
	api.On("UpdateProfile", mock.Anything, "Ada", "https://cdn.example.com/a.png").
		Return(&account.Profile{Name: "Ada", AvatarURL: "https://cdn.example.com/a.png"}, nil)
	svc := newTestService(t, api)

	_, err := svc.UpdateProfile(context.Background(), "Ada", "javascript:alert(1)")
	assert.Error(t, err)

	p, err := svc.UpdateProfile(context.Background(), " Ada ", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
}
