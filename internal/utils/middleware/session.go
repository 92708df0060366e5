package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teamdeck/console/internal/domain/session"
	"github.com/teamdeck/console/internal/port/outbound"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
)

const (
	// SessionKey is the gin context key for the resolved session.
	SessionKey = "session"
	// UserKeyKey is the gin context key for the session owner key.
	UserKeyKey = "user_key"
)

// SessionResolver resolves the current session. A nil session without an
// error means the caller is not signed in.
type SessionResolver interface {
	Resolve(ctx context.Context) (*session.Session, error)
}

// RequireSession rejects requests without a session. Browser navigations
// are redirected to loginPath with a next parameter; API calls get a 401.
func RequireSession(resolver SessionResolver, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := resolver.Resolve(c.Request.Context())
		if err != nil {
			var nav *outbound.NavigationError
			if errors.As(err, &nav) {
				abortWith(c, apperrors.Navigate(nav.Location))
				return
			}
			abortWith(c, apperrors.Internal("failed to resolve session", err))
			return
		}
		if sess == nil {
			if WantsHTML(c.Request) {
				target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
				c.Redirect(http.StatusFound, target)
				c.Abort()
				return
			}
			abortWith(c, apperrors.Unauthorized("Not signed in"))
			return
		}

		c.Set(SessionKey, sess)
		c.Set(UserKeyKey, sess.User.Key())
		c.Next()
	}
}

// OptionalSession attaches the session when one exists and never rejects.
func OptionalSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, err := resolver.Resolve(c.Request.Context()); err == nil && sess != nil {
			c.Set(SessionKey, sess)
			c.Set(UserKeyKey, sess.User.Key())
		}
		c.Next()
	}
}

// GetSession returns the session set by RequireSession, or nil.
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// GetUserKey returns the session owner key, or "".
func GetUserKey(c *gin.Context) string {
	return c.GetString(UserKeyKey)
}

// WantsHTML reports whether the request is a browser navigation rather than
// a fetch from script.
func WantsHTML(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, err.ToResponse())
}
