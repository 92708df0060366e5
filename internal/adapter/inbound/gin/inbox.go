package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamdeck/console/internal/module/inbox"
	"github.com/teamdeck/console/internal/port/inbound"
)

// inboxAdapter implements inbound.InboxHttpPort.
type inboxAdapter struct {
	inbox *inbox.Service
}

// NewInboxAdapter creates a new notifications HTTP adapter.
func NewInboxAdapter(svc *inbox.Service) inbound.InboxHttpPort {
	return &inboxAdapter{inbox: svc}
}

// RegisterRoutes registers notification routes.
func (a *inboxAdapter) RegisterRoutes(r *gin.RouterGroup) {
	n := r.Group("/notifications")
	{
		n.GET("", a.ListNotifications)
		n.POST("/:id/read", a.MarkRead)
		n.POST("/:id/accept", a.AcceptInvite)
	}
	r.POST("/invites/accept", a.AcceptToken)
}

type acceptTokenRequest struct {
	Token string `json:"token"`
}

// ListNotifications returns the inbox with invitation status resolved.
//
//	@Summary		List notifications
//	@Tags			Inbox
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	inbox.View
//	@Failure		401	{object}	errors.ErrorResponse
//	@Router			/notifications [get]
func (a *inboxAdapter) ListNotifications(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	view, err := a.inbox.Load(c.Request.Context(), sess.User.Key())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MarkRead marks a notification as read.
//
//	@Summary		Mark notification read
//	@Tags			Inbox
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id	path	int	true	"Notification ID"
//	@Success		204
//	@Failure		404	{object}	errors.ErrorResponse
//	@Router			/notifications/{id}/read [post]
func (a *inboxAdapter) MarkRead(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := a.inbox.MarkRead(c.Request.Context(), sess.User.Key(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AcceptInvite accepts the invitation carried by a notification.
//
//	@Summary		Accept invitation
//	@Tags			Inbox
//	@Produce		json
//	@Security		CookieAuth
//	@Param			id	path	int	true	"Notification ID"
//	@Success		200	{object}	inbox.AcceptOutcome
//	@Failure		400	{object}	errors.ErrorResponse
//	@Failure		404	{object}	errors.ErrorResponse
//	@Router			/notifications/{id}/accept [post]
func (a *inboxAdapter) AcceptInvite(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := a.inbox.Accept(c.Request.Context(), sess.User.Key(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// AcceptToken accepts an invitation from an emailed link.
//
//	@Summary		Accept invitation token
//	@Tags			Inbox
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			request	body	acceptTokenRequest	true	"Request body"
//	@Success		200	{object}	inbox.AcceptOutcome
//	@Failure		410	{object}	errors.ErrorResponse
//	@Router			/invites/accept [post]
func (a *inboxAdapter) AcceptToken(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	var req acceptTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	out, err := a.inbox.AcceptToken(c.Request.Context(), sess.User.Key(), req.Token)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
