package backend

import (
	"context"
	"net/http"

	"github.com/teamdeck/console/internal/domain/tenant"
	"github.com/teamdeck/console/internal/port/outbound"
)

// Teams wraps the /teams endpoints.
type Teams struct {
	c *Client
}

// NewTeams returns the team wrapper.
func NewTeams(c *Client) *Teams {
	return &Teams{c: c}
}

func (t *Teams) List(ctx context.Context) ([]tenant.Team, error) {
	var teams []tenant.Team
	if err := t.c.do(ctx, call{op: "teams.list", method: http.MethodGet, path: "/teams"}, &teams); err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []tenant.Team{}
	}
	return teams, nil
}

func (t *Teams) Create(ctx context.Context, name, icon string) (*tenant.Team, error) {
	body := map[string]any{"name": name}
	if icon != "" {
		body["icon"] = icon
	}
	var team tenant.Team
	if err := t.c.do(ctx, call{op: "teams.create", method: http.MethodPost, path: "/teams", body: body}, &team); err != nil {
		return nil, err
	}
	if team.Name == "" {
		team.Name = name
	}
	return &team, nil
}

func (t *Teams) Get(ctx context.Context, id int64) (*tenant.TeamDetail, error) {
	var detail tenant.TeamDetail
	if err := t.c.do(ctx, call{op: "teams.get", method: http.MethodGet, path: pathf("/teams/%d", id)}, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (t *Teams) Update(ctx context.Context, id int64, name, icon string) error {
	body := map[string]any{"name": name}
	if icon != "" {
		body["icon"] = icon
	}
	return t.c.do(ctx, call{op: "teams.update", method: http.MethodPatch, path: pathf("/teams/%d", id), body: body}, nil)
}

func (t *Teams) Delete(ctx context.Context, id int64) error {
	return t.c.do(ctx, call{op: "teams.delete", method: http.MethodDelete, path: pathf("/teams/%d", id)}, nil)
}

func (t *Teams) AddMember(ctx context.Context, teamID, userID int64, role tenant.Role) error {
	body := map[string]any{"user_id": userID, "role": role}
	return t.c.do(ctx, call{op: "teams.add_member", method: http.MethodPost, path: pathf("/teams/%d/members", teamID), body: body}, nil)
}

func (t *Teams) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return t.c.do(ctx, call{op: "teams.remove_member", method: http.MethodDelete, path: pathf("/teams/%d/members/%d", teamID, userID)}, nil)
}

func (t *Teams) UpdateMemberRole(ctx context.Context, teamID, userID int64, role tenant.Role) error {
	body := map[string]any{"role": role}
	return t.c.do(ctx, call{op: "teams.update_role", method: http.MethodPatch, path: pathf("/teams/%d/members/%d/role", teamID, userID), body: body}, nil)
}

func (t *Teams) Overview(ctx context.Context, id int64) (*tenant.Overview, error) {
	var ov tenant.Overview
	if err := t.c.do(ctx, call{op: "teams.overview", method: http.MethodGet, path: pathf("/teams/%d/overview", id)}, &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}

func (t *Teams) CreateInvitation(ctx context.Context, teamID int64, email string, role tenant.Role) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	body := map[string]any{"email": email, "role": role}
	if err := t.c.do(ctx, call{op: "teams.invite", method: http.MethodPost, path: pathf("/teams/%d/invitations", teamID), body: body}, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}

func (t *Teams) ListInvitations(ctx context.Context, teamID int64) ([]tenant.Invitation, error) {
	var list []tenant.Invitation
	if err := t.c.do(ctx, call{op: "teams.list_invitations", method: http.MethodGet, path: pathf("/teams/%d/invitations", teamID)}, &list); err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Status = tenant.NormalizeStatus(string(list[i].Status))
	}
	return list, nil
}

func (t *Teams) RevokeInvitation(ctx context.Context, teamID, invitationID int64) error {
	return t.c.do(ctx, call{op: "teams.revoke_invitation", method: http.MethodDelete, path: pathf("/teams/%d/invitations/%d", teamID, invitationID)}, nil)
}

func (t *Teams) AcceptInvitation(ctx context.Context, token string) (*tenant.AcceptResult, error) {
	var res tenant.AcceptResult
	body := map[string]string{"token": token}
	if err := t.c.do(ctx, call{op: "teams.accept_invitation", method: http.MethodPost, path: "/teams/invitations/accept", body: body}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (t *Teams) CheckInvitation(ctx context.Context, token string) (*tenant.InvitationCheck, error) {
	var res tenant.InvitationCheck
	body := map[string]string{"token": token}
	if err := t.c.do(ctx, call{op: "teams.check_invitation", method: http.MethodPost, path: "/teams/invitations/check", body: body}, &res); err != nil {
		return nil, err
	}
	res.Status = tenant.NormalizeStatus(string(res.Status))
	return &res, nil
}

var _ outbound.TeamAPI = (*Teams)(nil)
