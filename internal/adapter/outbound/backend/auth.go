package backend

import (
	"context"
	"net/http"

	"github.com/teamdeck/console/internal/domain/session"
	"github.com/teamdeck/console/internal/port/outbound"
)

// Auth wraps the /auth endpoints.
type Auth struct {
	c *Client
}

// NewAuth returns the auth wrapper.
func NewAuth(c *Client) *Auth {
	return &Auth{c: c}
}

func (a *Auth) Me(ctx context.Context) (*session.User, error) {
	var u session.User
	if err := a.c.do(ctx, call{op: "auth.me", method: http.MethodGet, path: "/auth/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return a.c.do(ctx, call{op: "auth.login", method: http.MethodPost, path: "/auth/login", body: body}, nil)
}

func (a *Auth) Signup(ctx context.Context, email, password string) (*outbound.SignupResult, error) {
	var res outbound.SignupResult
	body := map[string]string{"email": email, "password": password}
	if err := a.c.do(ctx, call{op: "auth.signup", method: http.MethodPost, path: "/auth/signup", body: body}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *Auth) ConfirmEmail(ctx context.Context, confirmationID, code string) error {
	body := map[string]string{"confirmation_id": confirmationID, "code": code}
	return a.c.do(ctx, call{op: "auth.confirm_email", method: http.MethodPost, path: "/auth/confirm-email", body: body}, nil)
}

func (a *Auth) ResendEmail(ctx context.Context, email string) (*outbound.MessageResult, error) {
	var res outbound.MessageResult
	body := map[string]string{"email": email}
	if err := a.c.do(ctx, call{op: "auth.resend_email", method: http.MethodPost, path: "/auth/resend-email", body: body}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *Auth) RequestPasswordReset(ctx context.Context, email string) (*outbound.MessageResult, error) {
	var res outbound.MessageResult
	body := map[string]string{"email": email}
	if err := a.c.do(ctx, call{op: "auth.password_reset", method: http.MethodPost, path: "/auth/password/reset", body: body}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *Auth) ConfirmPasswordReset(ctx context.Context, confirmationID, code, password string) error {
	body := map[string]string{"confirmation_id": confirmationID, "code": code, "password": password}
	return a.c.do(ctx, call{op: "auth.password_confirm", method: http.MethodPost, path: "/auth/password/confirm", body: body}, nil)
}

func (a *Auth) Logout(ctx context.Context) error {
	return a.c.do(ctx, call{op: "auth.logout", method: http.MethodGet, path: "/auth/logout"}, nil)
}

var _ outbound.AuthAPI = (*Auth)(nil)
