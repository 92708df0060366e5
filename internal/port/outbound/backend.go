package outbound

import (
	"context"
	"encoding/json"

	"github.com/teamdeck/console/internal/domain/account"
	"github.com/teamdeck/console/internal/domain/notification"
	"github.com/teamdeck/console/internal/domain/session"
	"github.com/teamdeck/console/internal/domain/tenant"
)

// Credentials for every call are taken from the context
// (see requestctx.WithCredentials).

// AuthAPI wraps the backend auth endpoints.
type AuthAPI interface {
	Me(ctx context.Context) (*session.User, error)
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, email, password string) (*SignupResult, error)
	ConfirmEmail(ctx context.Context, confirmationID, code string) error
	ResendEmail(ctx context.Context, email string) (*MessageResult, error)
	RequestPasswordReset(ctx context.Context, email string) (*MessageResult, error)
	ConfirmPasswordReset(ctx context.Context, confirmationID, code, password string) error
	Logout(ctx context.Context) error
}

// SignupResult is returned by a successful signup.
type SignupResult struct {
	ConfirmationID string `json:"confirmation_id"`
	Success        bool   `json:"success"`
	Message        string `json:"message"`
}

// MessageResult is the generic {success, message} reply. Resend and reset
// replies may carry a fresh confirmation id.
type MessageResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ConfirmationID string `json:"confirmation_id,omitempty"`
}

// TeamAPI wraps the backend team endpoints.
type TeamAPI interface {
	List(ctx context.Context) ([]tenant.Team, error)
	Create(ctx context.Context, name, icon string) (*tenant.Team, error)
	Get(ctx context.Context, id int64) (*tenant.TeamDetail, error)
	Update(ctx context.Context, id int64, name, icon string) error
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, teamID, userID int64, role tenant.Role) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
	UpdateMemberRole(ctx context.Context, teamID, userID int64, role tenant.Role) error
	Overview(ctx context.Context, id int64) (*tenant.Overview, error)
	CreateInvitation(ctx context.Context, teamID int64, email string, role tenant.Role) (string, error)
	ListInvitations(ctx context.Context, teamID int64) ([]tenant.Invitation, error)
	RevokeInvitation(ctx context.Context, teamID, invitationID int64) error
	AcceptInvitation(ctx context.Context, token string) (*tenant.AcceptResult, error)
	CheckInvitation(ctx context.Context, token string) (*tenant.InvitationCheck, error)
}

// NotificationAPI wraps the backend notification endpoints.
type NotificationAPI interface {
	List(ctx context.Context) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

// AccountAPI wraps the backend account endpoints.
type AccountAPI interface {
	Profile(ctx context.Context) (*account.Profile, error)
	UpdateProfile(ctx context.Context, name, avatarURL string) (*account.Profile, error)
	ChangeEmail(ctx context.Context, email string) (string, error)
	ConfirmEmailChange(ctx context.Context, confirmationID, code string) error
	ChangePassword(ctx context.Context, current, next string) error
	Preferences(ctx context.Context) (*account.Preferences, error)
	UpdatePreferences(ctx context.Context, prefs account.Preferences) (*account.Preferences, error)
}

// FeedbackAPI wraps the feedback endpoint.
type FeedbackAPI interface {
	Submit(ctx context.Context, message string) error
}

// DashboardAPI wraps the dashboard overview endpoint. The payload is
// passed through untouched.
type DashboardAPI interface {
	Overview(ctx context.Context) (json.RawMessage, error)
}
