package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/teamdeck/console/internal/utils/requestctx"
)

func TestCredentials(t *testing.T) {
	t.Run("forwards browser headers", func(t *testing.T) {
		var got requestctx.Credentials
		router := gin.New()
		router.Use(Credentials())
		router.GET("/test", func(c *gin.Context) {
			got = requestctx.CredentialsFrom(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Cookie", "session=abc")
		req.Header.Set("Authorization", "Bearer t")
		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "session=abc", got.Cookie)
		assert.Equal(t, "Bearer t", got.Authorization)
	})

	t.Run("relays backend cookies on json responses", func(t *testing.T) {
		router := gin.New()
		router.Use(Credentials())
		router.GET("/test", func(c *gin.Context) {
			requestctx.Sink(c.Request.Context()).Add("session=new; Path=/; HttpOnly")
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, []string{"session=new; Path=/; HttpOnly"}, w.Header().Values("Set-Cookie"))
	})

	t.Run("relays backend cookies on empty responses", func(t *testing.T) {
		router := gin.New()
		router.Use(Credentials())
		router.POST("/logout", func(c *gin.Context) {
			requestctx.Sink(c.Request.Context()).Add("session=; Max-Age=0")
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/logout", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "session=; Max-Age=0", w.Header().Get("Set-Cookie"))
	})
}
