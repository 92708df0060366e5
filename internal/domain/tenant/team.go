package tenant

import (
	"strings"
)

// Kind names the tenant vocabulary used in storage keys.
type Kind string

const KindTeam Kind = "team"

// Role is a membership role inside a team.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

// Assignable reports whether r can be granted through invite or role change.
func (r Role) Assignable() bool {
	return r == RoleAdmin || r == RoleRegular
}

// ParseRole normalizes a role string.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleOwner, RoleAdmin, RoleRegular:
		return r, nil
	case "":
		return RoleRegular, nil
	}
	return "", ErrInvalidRole
}

// Team is one tenant the user belongs to.
type Team struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon,omitempty"`
	OwnerID int64  `json:"owner_id"`
}

// Member is one membership entry of a team.
type Member struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// TeamDetail is a team with its member list.
type TeamDetail struct {
	Team
	Members []Member `json:"members"`
}

// Overview is the per team summary.
type Overview struct {
	Team  Team          `json:"team"`
	Stats OverviewStats `json:"stats"`
}

// OverviewStats holds team counters.
type OverviewStats struct {
	MembersCount int `json:"members_count"`
}

// Capabilities are UI gates derived from the session user and the team.
// The backend re-validates every mutation.
type Capabilities struct {
	IsOwner   bool `json:"is_owner"`
	IsManager bool `json:"is_manager"`
}

// ResolveCapabilities compares the caller against the owner and the member list.
func ResolveCapabilities(meID int64, team Team, members []Member) Capabilities {
	isOwner := meID != 0 && team.OwnerID == meID
	caps := Capabilities{IsOwner: isOwner, IsManager: isOwner}
	if caps.IsManager {
		return caps
	}
	for _, m := range members {
		if m.ID == meID {
			caps.IsManager = m.Role == RoleAdmin
			break
		}
	}
	return caps
}

// ValidateName trims and checks a team name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if len(name) > 100 {
		return "", ErrNameTooLong
	}
	return name, nil
}

// Find returns the team with id, or false.
func Find(teams []Team, id int64) (Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}
