package session

import (
	"strings"

	"github.com/teamdeck/console/internal/model"
)

// User is the server issued identity of the current browser session.
type User struct {
	ID    model.ID `json:"id,omitempty"`
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
}

// Authenticated reports whether the backend recognized the caller.
func (u User) Authenticated() bool {
	return u.ID != 0 || strings.TrimSpace(u.Email) != ""
}

// Key identifies the session owner for per-user state. Users without an id
// fall back to their lowercased email.
func (u User) Key() string {
	if u.ID != 0 {
		return u.ID.String()
	}
	return "email:" + strings.ToLower(strings.TrimSpace(u.Email))
}

// Session is the resolved session attached to a request.
type Session struct {
	User User `json:"user"`
	// TokenHint is the unverified email or subject read from the access
	// token cookie. It is only used for log correlation.
	TokenHint string `json:"-"`
}
