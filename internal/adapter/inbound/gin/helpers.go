package gin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teamdeck/console/internal/domain/session"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
	"github.com/teamdeck/console/internal/utils/middleware"
)

// flowCookieMaxAge keeps a browser's auth flow id for a day.
const flowCookieMaxAge = 24 * 60 * 60

// GetSessionFromContext returns the session set by the session middleware.
// It writes a 401 and returns false when there is none.
func GetSessionFromContext(c *gin.Context) (*session.Session, bool) {
	sess := middleware.GetSession(c)
	if sess == nil {
		appErr := apperrors.Unauthorized("Not signed in")
		c.JSON(http.StatusUnauthorized, appErr.ToResponse())
		return nil, false
	}
	return sess, true
}

// paramID parses a positive int64 path parameter, writing a 400 on failure.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		appErr := apperrors.BadRequest("invalid " + name)
		c.JSON(appErr.StatusCode, appErr.ToResponse())
		return 0, false
	}
	return id, true
}

// flowID returns the browser's auth flow id, issuing a new cookie when the
// browser has none.
func flowID(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil {
		if _, perr := uuid.Parse(v); perr == nil {
			return v
		}
	}
	id := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   flowCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
