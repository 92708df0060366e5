package gin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamdeck/console/internal/module/settings"
	"github.com/teamdeck/console/internal/module/tenantctx"
	"github.com/teamdeck/console/internal/port/inbound"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
)

// teamAdapter implements inbound.TeamHttpPort.
type teamAdapter struct {
	tenants  *tenantctx.Registry
	settings *settings.Service
}

// NewTeamAdapter creates a new team HTTP adapter.
func NewTeamAdapter(tenants *tenantctx.Registry, panel *settings.Service) inbound.TeamHttpPort {
	return &teamAdapter{tenants: tenants, settings: panel}
}

// RegisterRoutes registers team routes. The group must already require a
// session.
func (a *teamAdapter) RegisterRoutes(r *gin.RouterGroup) {
	teams := r.Group("/teams")
	{
		teams.GET("", a.ListTeams)
		teams.POST("", a.CreateTeam)
		teams.POST("/switch", a.SwitchTeam)

		teams.GET("/:id/settings", a.GetSettings)
		teams.PATCH("/:id", a.UpdateTeam)
		teams.DELETE("/:id", a.DeleteTeam)

		teams.POST("/:id/invitations", a.Invite)
		teams.DELETE("/:id/invitations/:invId", a.RevokeInvitation)

		teams.DELETE("/:id/members/:uid", a.RemoveMember)
		teams.PATCH("/:id/members/:uid/role", a.ChangeRole)
	}
}

type createTeamRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type switchTeamRequest struct {
	TeamID int64 `json:"team_id"`
}

type updateTeamRequest struct {
	Name *string `json:"name"`
	Icon *string `json:"icon"`
}

type deleteTeamRequest struct {
	Confirmation string `json:"confirmation"`
}

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type roleRequest struct {
	Role string `json:"role"`
}

// ListTeams returns the caller's teams and the active one.
//
//	@Summary		List teams
//	@Tags			Teams
//	@Produce		json
//	@Security		CookieAuth
//	@Param			refresh	query	bool	false	"Reload from the backend"
//	@Success		200	{object}	tenantctx.Snapshot
//	@Failure		401	{object}	errors.ErrorResponse
//	@Router			/teams [get]
func (a *teamAdapter) ListTeams(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	tc := a.tenants.For(c.Request.Context(), sess.User.Key())

	var (
		snap tenantctx.Snapshot
		err  error
	)
	if force, _ := strconv.ParseBool(c.Query("refresh")); force {
		snap, err = tc.Refresh(c.Request.Context())
	} else {
		snap, err = tc.Ensure(c.Request.Context())
	}
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CreateTeam creates a team and makes it active.
//
//	@Summary		Create team
//	@Tags			Teams
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			request	body	createTeamRequest	true	"Request body"
//	@Success		201	{object}	tenantctx.Snapshot
//	@Failure		422	{object}	errors.ErrorResponse
//	@Router			/teams [post]
func (a *teamAdapter) CreateTeam(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	snap, err := a.tenants.For(c.Request.Context(), sess.User.Key()).Create(c.Request.Context(), req.Name, req.Icon)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// SwitchTeam changes the active team.
//
//	@Summary		Switch team
//	@Tags			Teams
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			request	body	switchTeamRequest	true	"Request body"
//	@Success		200	{object}	tenantctx.Snapshot
//	@Failure		404	{object}	errors.ErrorResponse
//	@Failure		422	{object}	errors.ErrorResponse
//	@Router			/teams/switch [post]
func (a *teamAdapter) SwitchTeam(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	var req switchTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.TeamID <= 0 {
		appErr := apperrors.ValidationError("team_id is required")
		c.JSON(appErr.StatusCode, appErr.ToResponse())
		return
	}
	snap, err := a.tenants.For(c.Request.Context(), sess.User.Key()).SwitchTo(c.Request.Context(), req.TeamID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetSettings loads the settings panel for a team.
//
//	@Summary		Team settings
//	@Tags			Teams
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id	path	int	true	"Team ID"
//	@Success		200	{object}	settings.View
//	@Failure		403	{object}	errors.ErrorResponse
//	@Failure		404	{object}	errors.ErrorResponse
//	@Router			/teams/{id}/settings [get]
func (a *teamAdapter) GetSettings(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	teamID, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := a.settings.Load(c.Request.Context(), sess.User, teamID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateTeam applies a rename, an icon change, or both.
//
//	@Summary		Update team
//	@Tags			Teams
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id	path	int	true	"Team ID"
//	@Param			request	body	updateTeamRequest	true	"Request body"
//	@Success		200	{object}	settings.View
//	@Failure		403	{object}	errors.ErrorResponse
//	@Failure		422	{object}	errors.ErrorResponse
//	@Router			/teams/{id} [patch]
func (a *teamAdapter) UpdateTeam(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	teamID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := a.settings.Update(c.Request.Context(), sess.User, teamID, req.Name, req.Icon)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteTeam deletes a team once its name is typed back.
//
//	@Summary		Delete team
//	@Tags			Teams
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id	path	int	true	"Team ID"
//	@Param			request	body	deleteTeamRequest	true	"Request body"
//	@Success		200	{object}	tenantctx.Snapshot
//	@Failure		403	{object}	errors.ErrorResponse
//	@Failure		428	{object}	errors.ErrorResponse
//	@Router			/teams/{id} [delete]
func (a *teamAdapter) DeleteTeam(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	teamID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req deleteTeamRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	snap, err := a.settings.Delete(c.Request.Context(), sess.User, teamID, req.Confirmation)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Invite sends an invitation to join a team.
//
//	@Summary		Invite member
//	@Tags			Teams
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id	path	int	true	"Team ID"
//	@Param			request	body	inviteRequest	true	"Request body"
//	@Success		201	{object}	settings.View
//	@Failure		403	{object}	errors.ErrorResponse
//	@Failure		422	{object}	errors.ErrorResponse
//	@Router			/teams/{id}/invitations [post]
func (a *teamAdapter) Invite(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	teamID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := a.settings.Invite(c.Request.Context(), sess.User, teamID, req.Email, req.Role)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// RevokeInvitation withdraws a pending invitation.
//
//	@Summary		Revoke invitation
//	@Tags			Teams
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id	path	int	true	"Team ID"
//	@Param			invId	path	int	true	"Invitation ID"
//	@Success		200	{object}	settings.View
//	@Failure		403	{object}	errors.ErrorResponse
//	@Router			/teams/{id}/invitations/{invId} [delete]
func (a *teamAdapter) RevokeInvitation(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	teamID, ok := paramID(c, "id")
	if !ok {
		return
	}
	invID, ok := paramID(c, "invId")
	if !ok {
		return
	}
	view, err := a.settings.RevokeInvitation(c.Request.Context(), sess.User, teamID, invID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveMember needs ?confirm=true.
//
//	@Summary		Remove member
//	@Tags			Teams
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id	path	int	true	"Team ID"
//	@Param			uid	path	int	true	"User ID"
//	@Param			confirm	query	bool	true	"Confirm removal"
//	@Success		200	{object}	settings.View
//	@Failure		403	{object}	errors.ErrorResponse
//	@Failure		428	{object}	errors.ErrorResponse
//	@Router			/teams/{id}/members/{uid} [delete]
func (a *teamAdapter) RemoveMember(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	teamID, ok := paramID(c, "id")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "uid")
	if !ok {
		return
	}
	confirm, _ := strconv.ParseBool(c.Query("confirm"))
	view, err := a.settings.RemoveMember(c.Request.Context(), sess.User, teamID, memberID, confirm)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ChangeRole updates a member's role.
//
//	@Summary		Change member role
//	@Tags			Teams
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id	path	int	true	"Team ID"
//	@Param			uid	path	int	true	"User ID"
//	@Param			request	body	roleRequest	true	"Request body"
//	@Success		200	{object}	settings.View
//	@Failure		403	{object}	errors.ErrorResponse
//	@Failure		422	{object}	errors.ErrorResponse
//	@Router			/teams/{id}/members/{uid}/role [patch]
func (a *teamAdapter) ChangeRole(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	teamID, ok := paramID(c, "id")
	if !ok {
		return
	}
	memberID, ok := paramID(c, "uid")
	if !ok {
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := a.settings.ChangeRole(c.Request.Context(), sess.User, teamID, memberID, req.Role)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
