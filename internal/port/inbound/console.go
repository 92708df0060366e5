package inbound

import "github.com/gin-gonic/gin"

// SessionHttpPort defines HTTP handler interface for the browser session.
type SessionHttpPort interface {
	RegisterRoutes(r *gin.RouterGroup, requireSession gin.HandlerFunc)

	// GetSession handles GET /session
	GetSession(c *gin.Context)

	// Logout handles POST /session/logout
	Logout(c *gin.Context)
}

// AuthFlowHttpPort defines HTTP handler interface for the sign in screens.
// submit middleware runs in front of every form submission.
type AuthFlowHttpPort interface {
	RegisterRoutes(r *gin.RouterGroup, submit ...gin.HandlerFunc)

	// Mount handles GET /auth/:screen
	Mount(c *gin.Context)

	// Unmount handles DELETE /auth/:screen
	Unmount(c *gin.Context)

	// Login handles POST /auth/login
	Login(c *gin.Context)

	// Signup handles POST /auth/signup
	Signup(c *gin.Context)

	// Verify handles POST /auth/verify
	Verify(c *gin.Context)

	// ResendVerification handles POST /auth/verify/resend
	ResendVerification(c *gin.Context)

	// Resend handles POST /auth/resend
	Resend(c *gin.Context)

	// RequestReset handles POST /auth/reset
	RequestReset(c *gin.Context)

	// ConfirmReset handles POST /auth/reset/confirm
	ConfirmReset(c *gin.Context)

	// OAuth handles GET /auth/oauth/:provider
	OAuth(c *gin.Context)
}

// TeamHttpPort defines HTTP handler interface for tenants and team settings.
type TeamHttpPort interface {
	RegisterRoutes(r *gin.RouterGroup)

	// ListTeams handles GET /teams
	ListTeams(c *gin.Context)

	// CreateTeam handles POST /teams
	CreateTeam(c *gin.Context)

	// SwitchTeam handles POST /teams/switch
	SwitchTeam(c *gin.Context)

	// GetSettings handles GET /teams/:id/settings
	GetSettings(c *gin.Context)

	// UpdateTeam handles PATCH /teams/:id
	UpdateTeam(c *gin.Context)

	// DeleteTeam handles DELETE /teams/:id
	DeleteTeam(c *gin.Context)

	// Invite handles POST /teams/:id/invitations
	Invite(c *gin.Context)

	// RevokeInvitation handles DELETE /teams/:id/invitations/:invId
	RevokeInvitation(c *gin.Context)

	// RemoveMember handles DELETE /teams/:id/members/:uid
	RemoveMember(c *gin.Context)

	// ChangeRole handles PATCH /teams/:id/members/:uid/role
	ChangeRole(c *gin.Context)
}

// InboxHttpPort defines HTTP handler interface for notifications.
type InboxHttpPort interface {
	RegisterRoutes(r *gin.RouterGroup)

	// ListNotifications handles GET /notifications
	ListNotifications(c *gin.Context)

	// MarkRead handles POST /notifications/:id/read
	MarkRead(c *gin.Context)

	// AcceptInvite handles POST /notifications/:id/accept
	AcceptInvite(c *gin.Context)

	// AcceptToken handles POST /invites/accept
	AcceptToken(c *gin.Context)
}

// AccountHttpPort defines HTTP handler interface for account settings.
type AccountHttpPort interface {
	RegisterRoutes(r *gin.RouterGroup)

	// GetProfile handles GET /account/profile
	GetProfile(c *gin.Context)

	// UpdateProfile handles PATCH /account/profile
	UpdateProfile(c *gin.Context)

	// ChangeEmail handles POST /account/email/change
	ChangeEmail(c *gin.Context)

	// ConfirmEmail handles POST /account/email/confirm
	ConfirmEmail(c *gin.Context)

	// ChangePassword handles POST /account/password
	ChangePassword(c *gin.Context)

	// GetPreferences handles GET /account/preferences
	GetPreferences(c *gin.Context)

	// UpdatePreferences handles PATCH /account/preferences
	UpdatePreferences(c *gin.Context)
}

// FeedbackHttpPort defines HTTP handler interface for user feedback.
type FeedbackHttpPort interface {
	RegisterRoutes(r *gin.RouterGroup)

	// Submit handles POST /feedback
	Submit(c *gin.Context)
}

// DashboardHttpPort defines HTTP handler interface for the dashboard.
type DashboardHttpPort interface {
	RegisterRoutes(r *gin.RouterGroup)

	// GetOverview handles GET /dashboard
	GetOverview(c *gin.Context)
}
