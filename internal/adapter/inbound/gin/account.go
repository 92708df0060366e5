package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainaccount "github.com/teamdeck/console/internal/domain/account"
	"github.com/teamdeck/console/internal/module/account"
	"github.com/teamdeck/console/internal/port/inbound"
)

// accountAdapter implements inbound.AccountHttpPort.
type accountAdapter struct {
	account *account.Service
}

// NewAccountAdapter creates a new account HTTP adapter.
func NewAccountAdapter(svc *account.Service) inbound.AccountHttpPort {
	return &accountAdapter{account: svc}
}

// RegisterRoutes registers account routes.
func (a *accountAdapter) RegisterRoutes(r *gin.RouterGroup) {
	acc := r.Group("/account")
	{
		acc.GET("/profile", a.GetProfile)
		acc.PATCH("/profile", a.UpdateProfile)
		acc.POST("/email/change", a.ChangeEmail)
		acc.POST("/email/confirm", a.ConfirmEmail)
		acc.POST("/password", a.ChangePassword)
		acc.GET("/preferences", a.GetPreferences)
		acc.PATCH("/preferences", a.UpdatePreferences)
	}
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type changeEmailRequest struct {
	Email string `json:"email"`
}

type confirmEmailRequest struct {
	CID  string `json:"cid"`
	Code string `json:"code"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type preferencesRequest struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

func (a *accountAdapter) GetProfile(c *gin.Context) {
	profile, err := a.account.Profile(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (a *accountAdapter) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	profile, err := a.account.UpdateProfile(c.Request.Context(), req.Name, req.AvatarURL)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (a *accountAdapter) ChangeEmail(c *gin.Context) {
	var req changeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cid, err := a.account.ChangeEmail(c.Request.Context(), req.Email)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"confirmation_id": cid})
}

func (a *accountAdapter) ConfirmEmail(c *gin.Context) {
	var req confirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := a.account.ConfirmEmailChange(c.Request.Context(), req.CID, req.Code); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *accountAdapter) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := a.account.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *accountAdapter) GetPreferences(c *gin.Context) {
	prefs, err := a.account.Preferences(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	a.syncLocale(c, prefs)
	c.JSON(http.StatusOK, prefs)
}

func (a *accountAdapter) UpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	prefs, err := a.account.UpdatePreferences(c.Request.Context(), req.Theme, req.Language)
	if err != nil {
		handleError(c, err)
		return
	}
	a.syncLocale(c, prefs)
	c.JSON(http.StatusOK, prefs)
}

// syncLocale rewrites the locale cookie when it disagrees with the saved
// language.
func (a *accountAdapter) syncLocale(c *gin.Context, prefs domainaccount.Preferences) {
	current, _ := c.Cookie(a.account.CookieName())
	if cookie := a.account.LocaleCookie(prefs, current); cookie != nil {
		http.SetCookie(c.Writer, cookie)
	}
}
