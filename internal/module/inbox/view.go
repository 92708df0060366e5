package inbox

import (
	"github.com/teamdeck/console/internal/domain/notification"
)

// Invite is the invitation part of an inbox item. The token stays on the
// server: invite items never expose the raw data payload.
type Invite struct {
	TeamID   int64  `json:"team_id,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Item is one notification with its reconciled invite state.
type Item struct {
	notification.Notification
	Invite *Invite                   `json:"invite,omitempty"`
	Status notification.InviteStatus `json:"invite_status,omitempty"`
	Badge  string                    `json:"badge,omitempty"`
	// Actionable is true for a pending invite that can still be accepted.
	Actionable bool `json:"actionable"`
	Read       bool `json:"read"`
}

// View is the inbox split into unread and read tabs.
type View struct {
	Unread []Item `json:"unread"`
	Read   []Item `json:"read"`
	// Stale marks a load that finished after a newer one began. Its items
	// were not kept.
	Stale bool `json:"stale,omitempty"`
}

func newItem(n notification.Notification, status notification.InviteStatus) Item {
	item := Item{Notification: n}
	if n.IsInvite() {
		p := notification.ParseInvite(n.Data)
		// The raw payload carries the token.
		item.Data = ""
		item.Invite = &Invite{TeamID: p.TeamID.Int64(), TeamName: p.TeamName, Role: p.Role}
		item.Status = status
		item.Badge = status.Badge()
		item.Actionable = status == notification.InvitePending && !n.Read()
	}
	item.Read = notification.ConsideredRead(n, status)
	return item
}

// buildView derives the tabs. Read state is recomputed from the raw flag and
// the statuses on every call.
func buildView(list []notification.Notification, statuses map[int64]notification.InviteStatus) View {
	v := View{Unread: []Item{}, Read: []Item{}}
	for _, n := range list {
		item := newItem(n, statuses[n.ID])
		if item.Read {
			v.Read = append(v.Read, item)
		} else {
			v.Unread = append(v.Unread, item)
		}
	}
	return v
}
