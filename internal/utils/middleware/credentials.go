package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamdeck/console/internal/utils/requestctx"
)

// Credentials forwards the browser's Cookie and Authorization headers to
// backend calls made while serving the request, and relays any Set-Cookie
// values the backend returns.
func Credentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		sink := &requestctx.CookieSink{}
		ctx := requestctx.WithCredentials(c.Request.Context(), requestctx.Credentials{
			Cookie:        c.GetHeader("Cookie"),
			Authorization: c.GetHeader("Authorization"),
		})
		ctx = requestctx.WithCookieSink(ctx, sink)
		c.Request = c.Request.WithContext(ctx)
		c.Writer = &cookieRelayWriter{ResponseWriter: c.Writer, sink: sink}

		c.Next()

		// Handlers that never wrote a body still get their cookies.
		c.Writer.WriteHeaderNow()
	}
}

// cookieRelayWriter copies drained backend cookies into the response
// headers right before they are sent.
type cookieRelayWriter struct {
	gin.ResponseWriter
	sink *requestctx.CookieSink
}

func (w *cookieRelayWriter) relay() {
	if w.Written() {
		return
	}
	for _, v := range w.sink.Drain() {
		w.Header().Add("Set-Cookie", v)
	}
}

func (w *cookieRelayWriter) WriteHeader(code int) {
	w.relay()
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieRelayWriter) WriteHeaderNow() {
	w.relay()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *cookieRelayWriter) Write(b []byte) (int, error) {
	w.relay()
	return w.ResponseWriter.Write(b)
}

func (w *cookieRelayWriter) WriteString(s string) (int, error) {
	w.relay()
	return w.ResponseWriter.WriteString(s)
}

var _ http.ResponseWriter = (*cookieRelayWriter)(nil)
