package session

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/domain/session"
	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/port/outbound/mocks"
	"github.com/teamdeck/console/internal/utils/requestctx"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unknown-secret"))
	require.NoError(t, err)
	return tok
}

func TestTokenHint(t *testing.T) {
	withEmail := signedToken(t, jwt.MapClaims{"email": "a@b.co", "sub": "7"})
	withSub := signedToken(t, jwt.MapClaims{"sub": "7"})

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"email claim", "theme=dark; bp_access_token=" + withEmail, "a@b.co"},
		{"subject claim", "bp_access_token=" + withSub, "7"},
		{"garbage token", "bp_access_token=not-a-jwt", ""},
		{"missing cookie", "other=1", ""},
		{"empty header", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenHint(tt.cookie, "bp_access_token"))
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	ctx := requestctx.WithCredentials(context.Background(), requestctx.Credentials{Cookie: "bp_access_token=x"})

	t.Run("authenticated", func(t *testing.T) {
		auth := new(mocks.AuthAPI)
		auth.On("Me", mock.Anything).Return(&session.User{ID: 7, Email: "a@b.co"}, nil)

		sess, err := NewResolver(auth, "bp_access_token", zap.NewNop()).Resolve(ctx)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.EqualValues(t, 7, sess.User.ID)
		auth.AssertExpectations(t)
	})

	t.Run("email only", func(t *testing.T) {
		auth := new(mocks.AuthAPI)
		auth.On("Me", mock.Anything).Return(&session.User{Email: "a@b.co"}, nil)

		sess, err := NewResolver(auth, "bp_access_token", nil).Resolve(ctx)
		require.NoError(t, err)
		assert.NotNil(t, sess)
	})

	t.Run("empty identity", func(t *testing.T) {
		auth := new(mocks.AuthAPI)
		auth.On("Me", mock.Anything).Return(&session.User{}, nil)

		sess, err := NewResolver(auth, "bp_access_token", nil).Resolve(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("backend failure is unauthenticated", func(t *testing.T) {
		auth := new(mocks.AuthAPI)
		auth.On("Me", mock.Anything).Return(nil, &outbound.APIError{Status: 401})

		r := NewResolver(auth, "bp_access_token", nil)
		sess, err := r.Resolve(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.False(t, r.Active(ctx))
	})

	t.Run("navigation passes through", func(t *testing.T) {
		auth := new(mocks.AuthAPI)
		auth.On("Me", mock.Anything).Return(nil, &outbound.NavigationError{Location: "/auth/verify"})

		sess, err := NewResolver(auth, "bp_access_token", nil).Resolve(ctx)
		assert.Nil(t, sess)
		loc, ok := outbound.NavigationTarget(err)
		assert.True(t, ok)
		assert.Equal(t, "/auth/verify", loc)
	})
}

func TestResolver_LogoutSwallowsErrors(t *testing.T) {
	auth := new(mocks.AuthAPI)
	auth.On("Logout", mock.Anything).Return(errors.New("down"))

	assert.NotPanics(t, func() {
		NewResolver(auth, "bp_access_token", nil).Logout(context.Background())
	})
	auth.AssertExpectations(t)
}
