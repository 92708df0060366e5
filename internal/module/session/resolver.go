package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/domain/session"
	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/utils/requestctx"
)

// Resolver answers "who is the current user" by asking the backend.
type Resolver struct {
	auth        outbound.AuthAPI
	tokenCookie string
	logger      *zap.Logger
}

// NewResolver creates a session resolver. tokenCookie names the access token
// cookie used for log hints.
func NewResolver(auth outbound.AuthAPI, tokenCookie string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{auth: auth, tokenCookie: tokenCookie, logger: logger}
}

// Resolve returns the current session, or nil when the caller is not
// authenticated. Backend failures count as unauthenticated. The only error
// returned is a navigation instruction from the backend.
func (r *Resolver) Resolve(ctx context.Context) (*session.Session, error) {
	hint := TokenHint(requestctx.CredentialsFrom(ctx).Cookie, r.tokenCookie)

	user, err := r.auth.Me(ctx)
	if err != nil {
		if _, ok := outbound.NavigationTarget(err); ok {
			return nil, err
		}
		r.logger.Debug("session probe failed",
			zap.String("hint", hint),
			zap.String("request_id", requestctx.RequestID(ctx)),
			zap.Error(err),
		)
		return nil, nil
	}
	if user == nil || !user.Authenticated() {
		return nil, nil
	}
	return &session.Session{User: *user, TokenHint: hint}, nil
}

// Active reports whether a session exists. Navigation errors count as
// inactive here.
func (r *Resolver) Active(ctx context.Context) bool {
	sess, err := r.Resolve(ctx)
	return err == nil && sess != nil
}

// Logout ends the backend session. Failures are logged and swallowed; the
// browser is signed out locally either way.
func (r *Resolver) Logout(ctx context.Context) {
	if err := r.auth.Logout(ctx); err != nil {
		r.logger.Debug("backend logout failed", zap.Error(err))
	}
}
