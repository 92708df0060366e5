package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/teamdeck/console/internal/domain/account"
	"github.com/teamdeck/console/internal/port/outbound"
)

// Account wraps the /account endpoints.
type Account struct {
	c *Client
}

// NewAccount returns the account wrapper.
func NewAccount(c *Client) *Account {
	return &Account{c: c}
}

func (a *Account) Profile(ctx context.Context) (*account.Profile, error) {
	var p account.Profile
	if err := a.c.do(ctx, call{op: "account.profile", method: http.MethodGet, path: "/account/profile"}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *Account) UpdateProfile(ctx context.Context, name, avatarURL string) (*account.Profile, error) {
	p := account.Profile{Name: name, AvatarURL: avatarURL}
	body := map[string]string{"name": name, "avatar_url": avatarURL}
	if err := a.c.do(ctx, call{op: "account.update_profile", method: http.MethodPatch, path: "/account/profile", body: body}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *Account) ChangeEmail(ctx context.Context, email string) (string, error) {
	var res struct {
		ConfirmationID string `json:"confirmation_id"`
	}
	body := map[string]string{"email": email}
	if err := a.c.do(ctx, call{op: "account.change_email", method: http.MethodPatch, path: "/account/email/change", body: body}, &res); err != nil {
		return "", err
	}
	return res.ConfirmationID, nil
}

func (a *Account) ConfirmEmailChange(ctx context.Context, confirmationID, code string) error {
	body := map[string]string{"confirmation_id": confirmationID, "code": code}
	return a.c.do(ctx, call{op: "account.confirm_email", method: http.MethodPatch, path: "/account/email/confirm", body: body}, nil)
}

func (a *Account) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	return a.c.do(ctx, call{op: "account.change_password", method: http.MethodPatch, path: "/account/password/change", body: body}, nil)
}

func (a *Account) Preferences(ctx context.Context) (*account.Preferences, error) {
	var p account.Preferences
	if err := a.c.do(ctx, call{op: "account.preferences", method: http.MethodGet, path: "/account/preferences"}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *Account) UpdatePreferences(ctx context.Context, prefs account.Preferences) (*account.Preferences, error) {
	out := prefs
	if err := a.c.do(ctx, call{op: "account.update_preferences", method: http.MethodPatch, path: "/account/preferences", body: prefs}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Feedback wraps the /feedback endpoint.
type Feedback struct {
	c *Client
}

// NewFeedback returns the feedback wrapper.
func NewFeedback(c *Client) *Feedback {
	return &Feedback{c: c}
}

func (f *Feedback) Submit(ctx context.Context, message string) error {
	body := map[string]string{"message": message}
	return f.c.do(ctx, call{op: "feedback.submit", method: http.MethodPost, path: "/feedback", body: body}, nil)
}

// Dashboard wraps the /dashboard endpoints.
type Dashboard struct {
	c *Client
}

// NewDashboard returns the dashboard wrapper.
func NewDashboard(c *Client) *Dashboard {
	return &Dashboard{c: c}
}

func (d *Dashboard) Overview(ctx context.Context) (json.RawMessage, error) {
	const op = "dashboard.overview"
	raw, err := d.c.send(ctx, call{op: op, method: http.MethodGet, path: "/dashboard/overview"})
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw.body) {
		return json.RawMessage("{}"), nil
	}
	return json.RawMessage(raw.body), nil
}

var (
	_ outbound.AccountAPI   = (*Account)(nil)
	_ outbound.FeedbackAPI  = (*Feedback)(nil)
	_ outbound.DashboardAPI = (*Dashboard)(nil)
)
