// Package mocks holds testify mocks of the outbound ports.
package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/teamdeck/console/internal/domain/account"
	"github.com/teamdeck/console/internal/domain/notification"
	"github.com/teamdeck/console/internal/domain/session"
	"github.com/teamdeck/console/internal/domain/tenant"
	"github.com/teamdeck/console/internal/port/outbound"
)

// --- AuthAPI ---

type AuthAPI struct {
	mock.Mock
}

func (m *AuthAPI) Me(ctx context.Context) (*session.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.User), args.Error(1)
}

func (m *AuthAPI) Login(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *AuthAPI) Signup(ctx context.Context, email, password string) (*outbound.SignupResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.SignupResult), args.Error(1)
}

func (m *AuthAPI) ConfirmEmail(ctx context.Context, confirmationID, code string) error {
	args := m.Called(ctx, confirmationID, code)
	return args.Error(0)
}

func (m *AuthAPI) ResendEmail(ctx context.Context, email string) (*outbound.MessageResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.MessageResult), args.Error(1)
}

func (m *AuthAPI) RequestPasswordReset(ctx context.Context, email string) (*outbound.MessageResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.MessageResult), args.Error(1)
}

func (m *AuthAPI) ConfirmPasswordReset(ctx context.Context, confirmationID, code, password string) error {
	args := m.Called(ctx, confirmationID, code, password)
	return args.Error(0)
}

func (m *AuthAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- TeamAPI ---

type TeamAPI struct {
	mock.Mock
}

func (m *TeamAPI) List(ctx context.Context) ([]tenant.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tenant.Team), args.Error(1)
}

func (m *TeamAPI) Create(ctx context.Context, name, icon string) (*tenant.Team, error) {
	args := m.Called(ctx, name, icon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Team), args.Error(1)
}

func (m *TeamAPI) Get(ctx context.Context, id int64) (*tenant.TeamDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.TeamDetail), args.Error(1)
}

func (m *TeamAPI) Update(ctx context.Context, id int64, name, icon string) error {
	args := m.Called(ctx, id, name, icon)
	return args.Error(0)
}

func (m *TeamAPI) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TeamAPI) AddMember(ctx context.Context, teamID, userID int64, role tenant.Role) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *TeamAPI) RemoveMember(ctx context.Context, teamID, userID int64) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *TeamAPI) UpdateMemberRole(ctx context.Context, teamID, userID int64, role tenant.Role) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *TeamAPI) Overview(ctx context.Context, id int64) (*tenant.Overview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.Overview), args.Error(1)
}

func (m *TeamAPI) CreateInvitation(ctx context.Context, teamID int64, email string, role tenant.Role) (string, error) {
	args := m.Called(ctx, teamID, email, role)
	return args.String(0), args.Error(1)
}

func (m *TeamAPI) ListInvitations(ctx context.Context, teamID int64) ([]tenant.Invitation, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tenant.Invitation), args.Error(1)
}

func (m *TeamAPI) RevokeInvitation(ctx context.Context, teamID, invitationID int64) error {
	args := m.Called(ctx, teamID, invitationID)
	return args.Error(0)
}

func (m *TeamAPI) AcceptInvitation(ctx context.Context, token string) (*tenant.AcceptResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.AcceptResult), args.Error(1)
}

func (m *TeamAPI) CheckInvitation(ctx context.Context, token string) (*tenant.InvitationCheck, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenant.InvitationCheck), args.Error(1)
}

// --- NotificationAPI ---

type NotificationAPI struct {
	mock.Mock
}

func (m *NotificationAPI) List(ctx context.Context) ([]notification.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *NotificationAPI) MarkRead(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- AccountAPI ---

type AccountAPI struct {
	mock.Mock
}

func (m *AccountAPI) Profile(ctx context.Context) (*account.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func (m *AccountAPI) UpdateProfile(ctx context.Context, name, avatarURL string) (*account.Profile, error) {
	args := m.Called(ctx, name, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func (m *AccountAPI) ChangeEmail(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *AccountAPI) ConfirmEmailChange(ctx context.Context, confirmationID, code string) error {
	args := m.Called(ctx, confirmationID, code)
	return args.Error(0)
}

func (m *AccountAPI) ChangePassword(ctx context.Context, current, next string) error {
	args := m.Called(ctx, current, next)
	return args.Error(0)
}

func (m *AccountAPI) Preferences(ctx context.Context) (*account.Preferences, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Preferences), args.Error(1)
}

func (m *AccountAPI) UpdatePreferences(ctx context.Context, prefs account.Preferences) (*account.Preferences, error) {
	args := m.Called(ctx, prefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Preferences), args.Error(1)
}

// --- FeedbackAPI / DashboardAPI ---

type FeedbackAPI struct {
	mock.Mock
}

func (m *FeedbackAPI) Submit(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type DashboardAPI struct {
	mock.Mock
}

func (m *DashboardAPI) Overview(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// --- Stores ---

type SelectionStore struct {
	mock.Mock
}

func (m *SelectionStore) Load(ctx context.Context, kind, userKey string) (int64, error) {
	args := m.Called(ctx, kind, userKey)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SelectionStore) Save(ctx context.Context, kind, userKey string, id int64) error {
	args := m.Called(ctx, kind, userKey, id)
	return args.Error(0)
}

func (m *SelectionStore) Clear(ctx context.Context, kind, userKey string) error {
	args := m.Called(ctx, kind, userKey)
	return args.Error(0)
}

type CooldownStore struct {
	mock.Mock
}

func (m *CooldownStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func (m *CooldownStore) Restart(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

func (m *CooldownStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var (
	_ outbound.AuthAPI         = (*AuthAPI)(nil)
	_ outbound.TeamAPI         = (*TeamAPI)(nil)
	_ outbound.NotificationAPI = (*NotificationAPI)(nil)
	_ outbound.AccountAPI      = (*AccountAPI)(nil)
	_ outbound.FeedbackAPI     = (*FeedbackAPI)(nil)
	_ outbound.DashboardAPI    = (*DashboardAPI)(nil)
	_ outbound.SelectionStore  = (*SelectionStore)(nil)
	_ outbound.CooldownStore   = (*CooldownStore)(nil)
)
