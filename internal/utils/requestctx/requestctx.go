package requestctx

import (
	"context"
	"sync"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	credentialsKey
	cookieSinkKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(requestIDKey).(string); ok {
		return s
	}
	return ""
}

// Credentials are the browser credentials forwarded to the backend.
type Credentials struct {
	// Cookie is the raw Cookie header of the browser request.
	Cookie string
	// Authorization is forwarded verbatim when the browser sent one.
	Authorization string
}

// Empty reports whether nothing would be forwarded.
func (c Credentials) Empty() bool {
	return c.Cookie == "" && c.Authorization == ""
}

func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, credentialsKey, creds)
}

func CredentialsFrom(ctx context.Context) Credentials {
	if ctx == nil {
		return Credentials{}
	}
	if c, ok := ctx.Value(credentialsKey).(Credentials); ok {
		return c
	}
	return Credentials{}
}

// CookieSink collects Set-Cookie values returned by the backend so they can
// be relayed to the browser.
type CookieSink struct {
	mu      sync.Mutex
	cookies []string
}

// Add appends raw Set-Cookie header values.
func (s *CookieSink) Add(values ...string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.cookies = append(s.cookies, values...)
	s.mu.Unlock()
}

// Drain returns and clears the collected values.
func (s *CookieSink) Drain() []string {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.cookies
	s.cookies = nil
	return out
}

func WithCookieSink(ctx context.Context, sink *CookieSink) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, cookieSinkKey, sink)
}

// Sink returns the request's cookie sink, or nil.
func Sink(ctx context.Context) *CookieSink {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(cookieSinkKey).(*CookieSink)
	return s
}
