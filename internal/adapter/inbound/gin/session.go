package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamdeck/console/internal/domain/session"
	sessionmod "github.com/teamdeck/console/internal/module/session"
	"github.com/teamdeck/console/internal/module/tenantctx"
	"github.com/teamdeck/console/internal/port/inbound"
	"github.com/teamdeck/console/internal/utils/middleware"
)

// sessionAdapter implements inbound.SessionHttpPort.
type sessionAdapter struct {
	resolver *sessionmod.Resolver
	tenants  *tenantctx.Registry
}

// NewSessionAdapter creates a new session HTTP adapter.
func NewSessionAdapter(resolver *sessionmod.Resolver, tenants *tenantctx.Registry) inbound.SessionHttpPort {
	return &sessionAdapter{resolver: resolver, tenants: tenants}
}

// RegisterRoutes registers session routes.
func (a *sessionAdapter) RegisterRoutes(r *gin.RouterGroup, requireSession gin.HandlerFunc) {
	s := r.Group("/session")
	{
		s.GET("", a.GetSession)
		s.POST("/logout", requireSession, a.Logout)
	}
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user"`
}

// GetSession never fails for anonymous callers; it reports them as such.
//
//	@Summary		Current session
//	@Tags			Session
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	sessionResponse
//	@Router			/session [get]
func (a *sessionAdapter) GetSession(c *gin.Context) {
	sess, err := a.resolver.Resolve(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if sess == nil {
		c.JSON(http.StatusOK, sessionResponse{})
		return
	}
	user := sess.User
	c.JSON(http.StatusOK, sessionResponse{Authenticated: true, User: &user})
}

// Logout ends the session and forgets the caller's team state.
//
//	@Summary		Log out
//	@Tags			Session
//	@Produce		json
//	@Security		CookieAuth
//	@Success		204
//	@Failure		401	{object}	errors.ErrorResponse
//	@Router			/session/logout [post]
func (a *sessionAdapter) Logout(c *gin.Context) {
	a.resolver.Logout(c.Request.Context())
	if key := middleware.GetUserKey(c); key != "" {
		a.tenants.Drop(key)
	}
	c.Status(http.StatusNoContent)
}
