package tenant

import (
	"strings"
	"time"

	"github.com/relvacode/iso8601"
)

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRevoked  InvitationStatus = "revoked"
	InvitationExpired  InvitationStatus = "expired"
	// InvitationInvalid marks a token that could not be resolved.
	InvitationInvalid InvitationStatus = "invalid"
)

// Terminal reports whether no further action is possible.
func (s InvitationStatus) Terminal() bool {
	return s != InvitationPending
}

// NormalizeStatus maps a backend status string onto a known status.
func NormalizeStatus(s string) InvitationStatus {
	switch st := InvitationStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case InvitationPending, InvitationAccepted, InvitationRevoked, InvitationExpired:
		return st
	}
	return InvitationInvalid
}

// Invitation is a team invitation as listed in the settings panel.
type Invitation struct {
	ID        int64            `json:"id"`
	Email     string           `json:"email"`
	Role      Role             `json:"role"`
	Token     string           `json:"token,omitempty"`
	Status    InvitationStatus `json:"status"`
	CreatedAt string           `json:"created_at,omitempty"`
	ExpiresAt string           `json:"expires_at"`
}

// Expired reports whether the invitation expired before now. Unparseable
// timestamps count as expired.
func (i Invitation) Expired(now time.Time) bool {
	t, err := ParseTimestamp(i.ExpiresAt)
	if err != nil {
		return true
	}
	return !t.After(now)
}

// PendingInvitations keeps the invitations still actionable at now.
func PendingInvitations(all []Invitation, now time.Time) []Invitation {
	out := make([]Invitation, 0, len(all))
	for _, inv := range all {
		if inv.Status == InvitationPending && !inv.Expired(now) {
			out = append(out, inv)
		}
	}
	return out
}

// InvitationCheck is the live status of an invitation token.
type InvitationCheck struct {
	Status    InvitationStatus `json:"status"`
	TeamID    int64            `json:"team_id"`
	TeamName  string           `json:"team_name"`
	Role      Role             `json:"role"`
	ExpiresAt string           `json:"expires_at,omitempty"`
}

// AcceptResult is returned by a successful accept.
type AcceptResult struct {
	Status   string `json:"status"`
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	Role     Role   `json:"role"`
}

// ParseTimestamp parses an ISO 8601 timestamp as produced by the backend.
func ParseTimestamp(s string) (time.Time, error) {
	return iso8601.ParseString(strings.TrimSpace(s))
}
