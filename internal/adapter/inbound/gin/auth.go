package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamdeck/console/internal/domain/auth"
	"github.com/teamdeck/console/internal/module/authflow"
	"github.com/teamdeck/console/internal/port/inbound"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
)

// authAdapter implements inbound.AuthFlowHttpPort.
type authAdapter struct {
	flows      *authflow.Service
	flowCookie string
}

// NewAuthAdapter creates a new auth flow HTTP adapter. flowCookie names the
// cookie that ties a browser to its screen state.
func NewAuthAdapter(flows *authflow.Service, flowCookie string) inbound.AuthFlowHttpPort {
	return &authAdapter{flows: flows, flowCookie: flowCookie}
}

// RegisterRoutes registers auth routes.
func (a *authAdapter) RegisterRoutes(r *gin.RouterGroup, submit ...gin.HandlerFunc) {
	g := r.Group("/auth")
	post := func(path string, h gin.HandlerFunc) {
		g.POST(path, append(append([]gin.HandlerFunc{}, submit...), h)...)
	}
	{
		g.GET("/oauth/:provider", a.OAuth)
		g.GET("/:screen", a.Mount)
		g.DELETE("/:screen", a.Unmount)

		post("/login", a.Login)
		post("/signup", a.Signup)
		post("/verify", a.Verify)
		post("/verify/resend", a.ResendVerification)
		post("/resend", a.Resend)
		post("/reset", a.RequestReset)
		post("/reset/confirm", a.ConfirmReset)
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	CID  string `json:"cid"`
	Code string `json:"code"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type confirmResetRequest struct {
	CID      string `json:"cid"`
	Code     string `json:"code"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

func (a *authAdapter) screen(c *gin.Context) (auth.Screen, bool) {
	screen, ok := auth.ParseScreen(c.Param("screen"))
	if !ok {
		appErr := apperrors.NotFound("Screen")
		c.JSON(appErr.StatusCode, appErr.ToResponse())
	}
	return screen, ok
}

func (a *authAdapter) Mount(c *gin.Context) {
	screen, ok := a.screen(c)
	if !ok {
		return
	}
	id := flowID(c, a.flowCookie)
	view := a.flows.Mount(c.Request.Context(), id, screen, c.Query("cid"), c.Query("email"))
	c.JSON(http.StatusOK, view)
}

func (a *authAdapter) Unmount(c *gin.Context) {
	screen, ok := a.screen(c)
	if !ok {
		return
	}
	a.flows.Unmount(flowID(c, a.flowCookie), screen)
	c.Status(http.StatusNoContent)
}

// respond writes the screen view. Failures the user should read are part of
// the view; only throttling, double submits and navigation are errors.
func respond(c *gin.Context, view auth.View, err error) {
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (a *authAdapter) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := a.flows.Login(c.Request.Context(), flowID(c, a.flowCookie), req.Email, req.Password)
	respond(c, view, err)
}

func (a *authAdapter) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := a.flows.Signup(c.Request.Context(), flowID(c, a.flowCookie), req.Email, req.Password)
	respond(c, view, err)
}

func (a *authAdapter) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := a.flows.Verify(c.Request.Context(), flowID(c, a.flowCookie), req.CID, req.Code)
	respond(c, view, err)
}

func (a *authAdapter) ResendVerification(c *gin.Context) {
	a.resend(c, auth.ScreenVerify)
}

func (a *authAdapter) Resend(c *gin.Context) {
	a.resend(c, auth.ScreenResend)
}

func (a *authAdapter) resend(c *gin.Context, screen auth.Screen) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := a.flows.Resend(c.Request.Context(), flowID(c, a.flowCookie), screen, req.Email)
	respond(c, view, err)
}

func (a *authAdapter) RequestReset(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := a.flows.RequestReset(c.Request.Context(), flowID(c, a.flowCookie), req.Email)
	respond(c, view, err)
}

func (a *authAdapter) ConfirmReset(c *gin.Context) {
	var req confirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := a.flows.ConfirmReset(c.Request.Context(), flowID(c, a.flowCookie),
		req.CID, req.Code, req.Password, req.Confirm)
	respond(c, view, err)
}

// OAuth sends the browser to the backend's provider sign in.
func (a *authAdapter) OAuth(c *gin.Context) {
	target, err := a.flows.OAuthURL(c.Param("provider"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
