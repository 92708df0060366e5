package account

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

var (
	ErrInvalidTheme    = errors.New("theme must be system, light or dark")
	ErrInvalidLanguage = errors.New("unsupported language")
)

// ParseTheme normalizes a theme value. Empty means system.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return ThemeSystem, nil
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	}
	return "", ErrInvalidTheme
}

// Preferences are the per-account UI preferences.
type Preferences struct {
	Theme    Theme  `json:"theme"`
	Language string `json:"language"`
}

// WithDefaults fills unset fields.
func (p Preferences) WithDefaults(defaultLang string) Preferences {
	if p.Theme == "" {
		p.Theme = ThemeSystem
	}
	if p.Language == "" {
		p.Language = defaultLang
	}
	return p
}

// Profile is the editable account profile.
type Profile struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url"`
}

// Languages matches requested languages against the supported set.
type Languages struct {
	tags    []language.Tag
	codes   []string
	matcher language.Matcher
}

// NewLanguages builds a matcher. The first supported code is the fallback.
func NewLanguages(supported []string) (*Languages, error) {
	if len(supported) == 0 {
		supported = []string{"en"}
	}
	l := &Languages{}
	for _, code := range supported {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, err
		}
		l.tags = append(l.tags, tag)
		l.codes = append(l.codes, code)
	}
	l.matcher = language.NewMatcher(l.tags)
	return l, nil
}

// Parse returns the supported code for an exact or close match of s.
func (l *Languages) Parse(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidLanguage
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", ErrInvalidLanguage
	}
	_, idx, conf := l.matcher.Match(tag)
	if conf < language.High {
		return "", ErrInvalidLanguage
	}
	return l.codes[idx], nil
}

// Negotiate picks the best supported code for an Accept-Language header,
// falling back to the first supported code.
func (l *Languages) Negotiate(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.codes[0]
	}
	_, idx, conf := l.matcher.Match(tags...)
	if conf == language.No {
		return l.codes[0]
	}
	return l.codes[idx]
}
