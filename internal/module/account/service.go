package account

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/domain/account"
	"github.com/teamdeck/console/internal/domain/auth"
	"github.com/teamdeck/console/internal/port/outbound"
	"github.com/teamdeck/console/internal/shared/config"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
)

const maxNameLength = 100

// Service manages the signed in user's profile and preferences.
type Service struct {
	api          outbound.AccountAPI
	languages    *account.Languages
	defaultLang  string
	cookieName   string
	cookieMaxAge time.Duration
	policy       auth.PasswordPolicy
	logger       *zap.Logger
}

// NewService creates the account service.
func NewService(api outbound.AccountAPI, cfg config.I18nConfig, policy auth.PasswordPolicy, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	langs, err := account.NewLanguages(cfg.Supported)
	if err != nil {
		return nil, fmt.Errorf("supported languages: %w", err)
	}
	def := cfg.Default
	if def == "" {
		def = "en"
	}
	name := cfg.CookieName
	if name == "" {
		name = "NEXT_LOCALE"
	}
	maxAge := cfg.CookieMaxAge
	if maxAge <= 0 {
		maxAge = 180 * 24 * time.Hour
	}
	return &Service{
		api:          api,
		languages:    langs,
		defaultLang:  def,
		cookieName:   name,
		cookieMaxAge: maxAge,
		policy:       policy,
		logger:       logger,
	}, nil
}

// Profile returns the account profile.
func (s *Service) Profile(ctx context.Context) (*account.Profile, error) {
	p, err := s.api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile changes the display name and avatar.
func (s *Service) UpdateProfile(ctx context.Context, name, avatarURL string) (*account.Profile, error) {
	name = strings.TrimSpace(name)
	if len(name) > maxNameLength {
		return nil, apperrors.ValidationError(fmt.Sprintf("Name must be at most %d characters", maxNameLength))
	}
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL != "" {
		u, err := url.Parse(avatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, apperrors.ValidationError("Avatar must be an http or https URL")
		}
	}
	p, err := s.api.UpdateProfile(ctx, name, avatarURL)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// ChangeEmail starts an email change and returns the confirmation id.
func (s *Service) ChangeEmail(ctx context.Context, email string) (string, error) {
	if msg := auth.ValidateEmail(email); msg != "" {
		return "", apperrors.ValidationError(msg)
	}
	cid, err := s.api.ChangeEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("change email: %w", err)
	}
	return cid, nil
}

// ConfirmEmailChange completes an email change.
func (s *Service) ConfirmEmailChange(ctx context.Context, cid, code string) error {
	cid, code = strings.TrimSpace(cid), strings.TrimSpace(code)
	if cid == "" || code == "" {
		return apperrors.ValidationError("Confirmation id and code are required")
	}
	if err := s.api.ConfirmEmailChange(ctx, cid, code); err != nil {
		return fmt.Errorf("confirm email change: %w", err)
	}
	return nil
}

// ChangePassword replaces the password. The new one must satisfy the
// password policy.
func (s *Service) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" {
		return apperrors.ValidationError("Current password is required")
	}
	if msg := s.policy.Validate(next); msg != "" {
		return apperrors.ValidationError(msg)
	}
	if next == current {
		return apperrors.ValidationError("New password must differ from the current one")
	}
	if err := s.api.ChangePassword(ctx, current, next); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// Preferences returns the preferences with defaults applied.
func (s *Service) Preferences(ctx context.Context) (account.Preferences, error) {
	p, err := s.api.Preferences(ctx)
	if err != nil {
		return account.Preferences{}, fmt.Errorf("get preferences: %w", err)
	}
	return s.normalize(*p), nil
}

// UpdatePreferences validates and saves preferences. Empty fields keep
// their defaults.
func (s *Service) UpdatePreferences(ctx context.Context, theme, language string) (account.Preferences, error) {
	t, err := account.ParseTheme(theme)
	if err != nil {
		return account.Preferences{}, apperrors.ValidationError(err.Error())
	}
	lang := s.defaultLang
	if strings.TrimSpace(language) != "" {
		lang, err = s.languages.Parse(language)
		if err != nil {
			return account.Preferences{}, apperrors.ValidationError(err.Error())
		}
	}
	p, err := s.api.UpdatePreferences(ctx, account.Preferences{Theme: t, Language: lang})
	if err != nil {
		return account.Preferences{}, fmt.Errorf("update preferences: %w", err)
	}
	return s.normalize(*p), nil
}

func (s *Service) normalize(p account.Preferences) account.Preferences {
	if p.Language != "" {
		if code, err := s.languages.Parse(p.Language); err == nil {
			p.Language = code
		}
	}
	return p.WithDefaults(s.defaultLang)
}

// LocaleCookie returns the cookie that brings the browser locale in line
// with the preferred language, or nil when it already matches.
func (s *Service) LocaleCookie(prefs account.Preferences, current string) *http.Cookie {
	if prefs.Language == "" || prefs.Language == current {
		return nil
	}
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    prefs.Language,
		Path:     "/",
		MaxAge:   int(s.cookieMaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieName is the locale cookie name.
func (s *Service) CookieName() string {
	return s.cookieName
}

// Negotiate picks a supported language for an Accept-Language header.
func (s *Service) Negotiate(acceptLanguage string) string {
	return s.languages.Negotiate(acceptLanguage)
}
