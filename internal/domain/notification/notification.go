package notification

import (
	"encoding/json"
	"strings"

	"github.com/teamdeck/console/internal/domain/tenant"
	"github.com/teamdeck/console/internal/model"
)

// KindTeamInvite marks notifications that carry a team invitation.
const KindTeamInvite = "team_invite"

// Notification is an inbox entry in its normalized shape.
type Notification struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id,omitempty"`
	Type      string  `json:"type"`
	Data      string  `json:"data"`
	ReadAt    *string `json:"read_at,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// IsInvite reports whether n embeds an invitation reference.
func (n Notification) IsInvite() bool {
	return n.Type == KindTeamInvite
}

// Read reports the raw read flag.
func (n Notification) Read() bool {
	return n.ReadAt != nil && *n.ReadAt != ""
}

// InvitePayload is the invitation reference embedded in Data.
type InvitePayload struct {
	TeamID   model.ID `json:"team_id,omitempty"`
	TeamName string   `json:"team_name,omitempty"`
	Token    string   `json:"token,omitempty"`
	Role     string   `json:"role,omitempty"`
}

// ParseInvite decodes the embedded payload. Malformed data yields an empty
// payload rather than an error.
func ParseInvite(data string) InvitePayload {
	var p InvitePayload
	data = strings.TrimSpace(data)
	if data == "" {
		return p
	}
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return InvitePayload{}
	}
	p.Token = strings.TrimSpace(p.Token)
	return p
}

// InviteStatus is the reconciled state of an invite notification.
type InviteStatus string

const (
	InviteUnchecked InviteStatus = ""
	InvitePending   InviteStatus = InviteStatus(tenant.InvitationPending)
	InviteAccepted  InviteStatus = InviteStatus(tenant.InvitationAccepted)
	InviteExpired   InviteStatus = InviteStatus(tenant.InvitationExpired)
	InviteRevoked   InviteStatus = InviteStatus(tenant.InvitationRevoked)
	InviteInvalid   InviteStatus = InviteStatus(tenant.InvitationInvalid)
)

// FromInvitation maps a live invitation status.
func FromInvitation(s tenant.InvitationStatus) InviteStatus {
	return InviteStatus(tenant.NormalizeStatus(string(s)))
}

// Known reports whether a check has resolved the status.
func (s InviteStatus) Known() bool {
	return s != InviteUnchecked
}

// Badge is the label shown next to a resolved invite.
func (s InviteStatus) Badge() string {
	switch s {
	case InviteUnchecked, InvitePending:
		return ""
	case InviteAccepted:
		return "Accepted"
	case InviteExpired:
		return "Expired"
	case InviteInvalid:
		return "Invalid"
	default:
		return "Revoked"
	}
}

// ConsideredRead derives the read state from the raw flag and the invite
// status side channel.
func ConsideredRead(n Notification, status InviteStatus) bool {
	if n.Read() {
		return true
	}
	if !n.IsInvite() {
		return false
	}
	return status.Known() && status != InvitePending
}
