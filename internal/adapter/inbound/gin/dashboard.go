package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamdeck/console/internal/module/dashboard"
	"github.com/teamdeck/console/internal/port/inbound"
)

// dashboardAdapter implements inbound.DashboardHttpPort.
type dashboardAdapter struct {
	dashboard *dashboard.Service
}

// NewDashboardAdapter creates a new dashboard HTTP adapter.
func NewDashboardAdapter(svc *dashboard.Service) inbound.DashboardHttpPort {
	return &dashboardAdapter{dashboard: svc}
}

// RegisterRoutes registers dashboard routes.
func (a *dashboardAdapter) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", a.GetOverview)
}

// GetOverview returns the dashboard summary for the active team.
//
//	@Summary		Dashboard overview
//	@Tags			Dashboard
//	@Produce		json
//	@Security		CookieAuth
//	@Success		200	{object}	dashboard.Overview
//	@Failure		401	{object}	errors.ErrorResponse
//	@Router			/dashboard [get]
func (a *dashboardAdapter) GetOverview(c *gin.Context) {
	sess, ok := GetSessionFromContext(c)
	if !ok {
		return
	}
	out, err := a.dashboard.Overview(c.Request.Context(), sess.User.Key())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
