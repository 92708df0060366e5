package auth

import (
	"net/http"
	"regexp"
)

var googleRe = regexp.MustCompile(`(?i)google`)

// Screen names an auth screen.
type Screen string

const (
	ScreenLogin  Screen = "login"
	ScreenSignup Screen = "signup"
	ScreenVerify Screen = "verify"
	ScreenReset  Screen = "reset"
	ScreenResend Screen = "resend"
)

// ParseScreen validates a screen name.
func ParseScreen(s string) (Screen, bool) {
	switch sc := Screen(s); sc {
	case ScreenLogin, ScreenSignup, ScreenVerify, ScreenReset, ScreenResend:
		return sc, true
	}
	return "", false
}

// Providers are the OAuth providers the backend can start.
var Providers = map[string]string{
	"google": "/auth/google",
	"github": "/auth/github",
}

// ErrorMessage picks the message shown to the user: the backend message,
// then the transport message, then fallback.
func ErrorMessage(backendMessage, transportMessage, fallback string) string {
	switch {
	case backendMessage != "":
		return backendMessage
	case transportMessage != "":
		return transportMessage
	default:
		return fallback
	}
}

// OAuthOnlyOnLogin reports whether a failed login belongs to an account
// that must continue with Google.
func OAuthOnlyOnLogin(status int, message string) bool {
	return status == http.StatusConflict || googleRe.MatchString(message)
}

// OAuthOnlyOnSignup is stricter than login: both signals must be present.
func OAuthOnlyOnSignup(status int, message string) bool {
	return status == http.StatusConflict && googleRe.MatchString(message)
}
