package session

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenHint extracts an email or subject from the access token cookie
// without verifying the signature. The result is never used for access
// decisions.
func TokenHint(cookieHeader, name string) string {
	if cookieHeader == "" || name == "" {
		return ""
	}
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name != name {
			continue
		}
		return hintFromToken(strings.TrimPrefix(c.Value, "Bearer "))
	}
	return ""
}

func hintFromToken(raw string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	sub, _ := claims.GetSubject()
	return sub
}
