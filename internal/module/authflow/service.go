package authflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/domain/auth"
	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/shared/config"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
	"github.com/teamdeck/console/internal/utils/metrics"
)

// Fallback messages used when neither the backend nor the transport
// explains a failure.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgRegisterFailed     = "Could not register"
	msgVerifyFailed       = "Could not verify email"
	msgResendFailed       = "Could not resend verification email"
	msgResetFailed        = "Failed to request password reset"
	msgConfirmFailed      = "Failed to reset password"
)

// ReadyPath is where a completed password reset lands.
const ReadyPath = "/auth/ready"

// SessionProbe reports whether the caller already has a session.
type SessionProbe interface {
	Active(ctx context.Context) bool
}

// paths are the navigable screen paths used in flow URLs.
var paths = map[auth.Screen]string{
	auth.ScreenLogin:  "/auth/login",
	auth.ScreenSignup: "/auth/signup",
	auth.ScreenVerify: "/auth/verify",
	auth.ScreenReset:  "/auth/forgot",
	auth.ScreenResend: "/auth/resend",
}

// Service drives the auth screens. Each browser gets one Flow per screen,
// keyed by its flow id.
type Service struct {
	api        outbound.AuthAPI
	probe      SessionProbe
	cooldowns  outbound.CooldownStore
	cooldown   time.Duration
	policy     auth.PasswordPolicy
	homePath   string
	backendURL string
	metrics    *metrics.Metrics
	logger     *zap.Logger

	mu    sync.Mutex
	flows *lru.Cache[string, *auth.Flow]
}

// NewService creates the auth flow service.
func NewService(
	api outbound.AuthAPI,
	probe SessionProbe,
	cooldowns outbound.CooldownStore,
	cfg config.AuthConfig,
	backendURL string,
	maxFlows int,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxFlows <= 0 {
		maxFlows = 10000
	}
	flows, err := lru.New[string, *auth.Flow](maxFlows)
	if err != nil {
		return nil, err
	}
	cooldown := cfg.ResendCooldown
	if cooldown <= 0 {
		cooldown = 60 * time.Second
	}
	home := cfg.HomePath
	if home == "" {
		home = "/dashboard"
	}
	return &Service{
		api:        api,
		probe:      probe,
		cooldowns:  cooldowns,
		cooldown:   cooldown,
		policy:     PolicyFromConfig(cfg.Password),
		homePath:   home,
		backendURL: strings.TrimRight(backendURL, "/"),
		metrics:    m,
		logger:     logger,
		flows:      flows,
	}, nil
}

// PolicyFromConfig converts the configured password rules. An empty config
// yields the default policy.
func PolicyFromConfig(c config.PasswordPolicy) auth.PasswordPolicy {
	if c == (config.PasswordPolicy{}) {
		return auth.DefaultPasswordPolicy()
	}
	return auth.PasswordPolicy{
		MinLength:     c.MinLength,
		MaxLength:     c.MaxLength,
		RequireUpper:  c.RequireUpper,
		RequireLower:  c.RequireLower,
		RequireNumber: c.RequireNumber,
		RequireSymbol: c.RequireSpecial,
	}
}

// Policy returns the active password policy.
func (s *Service) Policy() auth.PasswordPolicy {
	return s.policy
}

func (s *Service) flow(flowID string, screen auth.Screen) *auth.Flow {
	key := flowID + ":" + string(screen)
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows.Get(key)
	if !ok {
		f = auth.NewFlow(screen, paths[screen])
		s.flows.Add(key, f)
	}
	return f
}

// Mount resets the screen and probes the session. An active session turns
// the view into a redirect home unless the screen was remounted while the
// probe ran.
func (s *Service) Mount(ctx context.Context, flowID string, screen auth.Screen, cid, email string) auth.View {
	f := s.flow(flowID, screen)
	token := f.Mount(cid, strings.TrimSpace(email))
	if s.probe.Active(ctx) {
		if err := f.Redirect(token, s.homePath); err != nil {
			s.logger.Debug("discarding stale session probe", zap.String("screen", string(screen)))
		}
	}
	return f.Snapshot()
}

// Unmount invalidates in-flight probes of the screen.
func (s *Service) Unmount(flowID string, screen auth.Screen) {
	s.flow(flowID, screen).Unmount()
}

// View returns the current state of a screen.
func (s *Service) View(flowID string, screen auth.Screen) auth.View {
	return s.flow(flowID, screen).Snapshot()
}

func (s *Service) begin(f *auth.Flow) error {
	if err := f.Begin(); err != nil {
		return apperrors.Conflict(err.Error())
	}
	return nil
}

// record counts the outcome of a submission.
func (s *Service) record(screen auth.Screen, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(string(screen), outcome)
	}
}

// navigation passes backend navigation instructions through untouched.
func navigation(err error) error {
	if loc, ok := outbound.NavigationTarget(err); ok {
		return apperrors.Navigate(loc)
	}
	return nil
}

// Login signs in with email and password.
func (s *Service) Login(ctx context.Context, flowID, email, password string) (auth.View, error) {
	f := s.flow(flowID, auth.ScreenLogin)
	email = auth.NormalizeEmail(email)
	if email == "" || password == "" {
		f.Fail("Email and password are required", "")
		return f.Snapshot(), nil
	}
	if err := s.begin(f); err != nil {
		return f.Snapshot(), err
	}

	err := s.api.Login(ctx, email, password)
	if err == nil {
		s.record(auth.ScreenLogin, "success")
		f.Succeed("", s.homePath)
		return f.Snapshot(), nil
	}
	if nav := navigation(err); nav != nil {
		f.Succeed("", "")
		return f.Snapshot(), nav
	}

	msg := outbound.MessageOf(err, msgInvalidCredentials)
	if auth.OAuthOnlyOnLogin(outbound.StatusOf(err), msg) {
		s.record(auth.ScreenLogin, "oauth_only")
		f.Fail(msg, auth.Providers["google"])
		return f.Snapshot(), nil
	}
	s.record(auth.ScreenLogin, "error")
	f.Fail(msg, "")
	return f.Snapshot(), nil
}

// Signup registers with email and password and continues to verification.
func (s *Service) Signup(ctx context.Context, flowID, email, password string) (auth.View, error) {
	f := s.flow(flowID, auth.ScreenSignup)
	if msg := auth.ValidateEmail(email); msg != "" {
		f.Fail(msg, "")
		return f.Snapshot(), nil
	}
	if msg := s.policy.Validate(password); msg != "" {
		f.Fail(msg, "")
		return f.Snapshot(), nil
	}
	email = auth.NormalizeEmail(email)
	if err := s.begin(f); err != nil {
		return f.Snapshot(), err
	}

	res, err := s.api.Signup(ctx, email, password)
	if err != nil {
		if nav := navigation(err); nav != nil {
			f.Succeed("", "")
			return f.Snapshot(), nav
		}
		msg := outbound.MessageOf(err, msgRegisterFailed)
		if auth.OAuthOnlyOnSignup(outbound.StatusOf(err), msg) {
			s.record(auth.ScreenSignup, "oauth_only")
			f.Fail(msg, auth.Providers["google"])
			return f.Snapshot(), nil
		}
		s.record(auth.ScreenSignup, "error")
		f.Fail(msg, "")
		return f.Snapshot(), nil
	}

	s.record(auth.ScreenSignup, "success")
	f.SetIdentifiers(res.ConfirmationID, email)
	f.Succeed(res.Message, auth.VerifyURL(res.ConfirmationID, email))
	return f.Snapshot(), nil
}

// Verify confirms the email address with the emailed code.
func (s *Service) Verify(ctx context.Context, flowID, cid, code string) (auth.View, error) {
	f := s.flow(flowID, auth.ScreenVerify)
	if cid == "" {
		cid = f.Snapshot().ConfirmationID
	}
	code = strings.TrimSpace(code)
	if cid == "" || code == "" {
		f.Fail("Confirmation id and code are required", "")
		return f.Snapshot(), nil
	}
	if err := s.begin(f); err != nil {
		return f.Snapshot(), err
	}

	if err := s.api.ConfirmEmail(ctx, cid, code); err != nil {
		if nav := navigation(err); nav != nil {
			f.Succeed("", "")
			return f.Snapshot(), nav
		}
		s.record(auth.ScreenVerify, "error")
		f.Fail(outbound.MessageOf(err, msgVerifyFailed), "")
		return f.Snapshot(), nil
	}
	s.record(auth.ScreenVerify, "success")
	f.Succeed("Email verified", s.homePath)
	return f.Snapshot(), nil
}

// Resend sends the verification email again from the given screen, which is
// either verify or resend. It is subject to the resend cooldown.
func (s *Service) Resend(ctx context.Context, flowID string, screen auth.Screen, email string) (auth.View, error) {
	f := s.flow(flowID, screen)
	if email == "" {
		email = f.Snapshot().Email
	}
	email = auth.NormalizeEmail(email)
	if email == "" {
		msg := "Missing email parameter"
		if screen == auth.ScreenVerify {
			msg = "Provide an email address to resend the verification link."
		}
		f.Fail(msg, "")
		return f.Snapshot(), nil
	}
	return s.throttled(ctx, f, screen, email, msgResendFailed, "Verification email sent. Please check your inbox.",
		func(ctx context.Context) (*outbound.MessageResult, error) {
			return s.api.ResendEmail(ctx, email)
		})
}

// RequestReset sends a password reset email. Repeated requests share the
// resend cooldown.
func (s *Service) RequestReset(ctx context.Context, flowID, email string) (auth.View, error) {
	f := s.flow(flowID, auth.ScreenReset)
	if msg := auth.ValidateEmail(email); msg != "" {
		f.Fail(msg, "")
		return f.Snapshot(), nil
	}
	email = auth.NormalizeEmail(email)
	return s.throttled(ctx, f, auth.ScreenReset, email, msgResetFailed, "Check your inbox for the password reset link.",
		func(ctx context.Context) (*outbound.MessageResult, error) {
			return s.api.RequestPasswordReset(ctx, email)
		})
}

// throttled runs a resend style call under the cooldown of (screen, email).
// A successful call restarts the full cooldown; a failed one releases it.
func (s *Service) throttled(ctx context.Context, f *auth.Flow, screen auth.Screen, email, fallback, success string,
	call func(context.Context) (*outbound.MessageResult, error)) (auth.View, error) {
	key := string(screen) + ":" + email
	ok, remaining, err := s.cooldowns.Acquire(ctx, key, s.cooldown)
	if err != nil {
		// A broken store must not lock users out.
		s.logger.Warn("cooldown store unavailable", zap.String("screen", string(screen)), zap.Error(err))
		ok = true
	}
	if !ok {
		s.record(screen, "throttled")
		appErr := apperrors.CooldownActive(remaining)
		f.Throttle(appErr.Message, appErr.Details["retry_after"].(int))
		return f.Snapshot(), appErr
	}

	if err := s.begin(f); err != nil {
		s.release(ctx, key)
		return f.Snapshot(), err
	}
	res, err := call(ctx)
	if err != nil {
		s.release(ctx, key)
		if nav := navigation(err); nav != nil {
			f.Succeed("", "")
			return f.Snapshot(), nav
		}
		s.record(screen, "error")
		f.Fail(outbound.MessageOf(err, fallback), "")
		return f.Snapshot(), nil
	}

	if err := s.cooldowns.Restart(ctx, key, s.cooldown); err != nil {
		s.logger.Warn("restart cooldown", zap.String("screen", string(screen)), zap.Error(err))
	}
	s.record(screen, "success")
	msg := success
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	if res != nil {
		f.SetIdentifiers(res.ConfirmationID, email)
	}
	f.Succeed(msg, "")
	return f.Snapshot(), nil
}

func (s *Service) release(ctx context.Context, key string) {
	if err := s.cooldowns.Release(ctx, key); err != nil {
		s.logger.Debug("release cooldown", zap.Error(err))
	}
}

// ConfirmReset sets a new password with the emailed code.
func (s *Service) ConfirmReset(ctx context.Context, flowID, cid, code, password, confirm string) (auth.View, error) {
	f := s.flow(flowID, auth.ScreenReset)
	if cid == "" {
		cid = f.Snapshot().ConfirmationID
	}
	code = strings.TrimSpace(code)
	if cid == "" || code == "" {
		f.Fail("Reset link is incomplete. Request a new one.", "")
		return f.Snapshot(), nil
	}
	if msg := s.policy.Validate(password); msg != "" {
		f.Fail(msg, "")
		return f.Snapshot(), nil
	}
	if password != confirm {
		f.Fail("Passwords do not match", "")
		return f.Snapshot(), nil
	}
	if err := s.begin(f); err != nil {
		return f.Snapshot(), err
	}

	if err := s.api.ConfirmPasswordReset(ctx, cid, code, password); err != nil {
		if nav := navigation(err); nav != nil {
			f.Succeed("", "")
			return f.Snapshot(), nav
		}
		s.record(auth.ScreenReset, "error")
		f.Fail(outbound.MessageOf(err, msgConfirmFailed), "")
		return f.Snapshot(), nil
	}
	s.record(auth.ScreenReset, "confirmed")
	f.Succeed("Password updated", ReadyPath)
	return f.Snapshot(), nil
}

// ErrUnknownProvider is returned for providers the backend cannot start.
var ErrUnknownProvider = errors.New("unknown oauth provider")

// OAuthURL returns the backend URL that starts the provider sign in.
func (s *Service) OAuthURL(provider string) (string, error) {
	path, ok := auth.Providers[strings.ToLower(provider)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return s.backendURL + path, nil
}
