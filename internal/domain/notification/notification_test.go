package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdeck/console/internal/domain/tenant"
)

func strptr(s string) *string { return &s }

func TestParseInvite(t *testing.T) {
	tests := []struct {
		name string
		data string
		want InvitePayload
	}{
		{"well formed", `{"team_id":7,"team_name":"Acme","token":"tok","role":"admin"}`,
			InvitePayload{TeamID: 7, TeamName: "Acme", Token: "tok", Role: "admin"}},
		{"string team id", `{"team_id":"8","token":" t2 "}`, InvitePayload{TeamID: 8, Token: "t2"}},
		{"malformed", `{"team_id":`, InvitePayload{}},
		{"not an object", `[1,2]`, InvitePayload{}},
		{"empty", ``, InvitePayload{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInvite(tt.data))
		})
	}
}

func TestConsideredRead(t *testing.T) {
	invite := Notification{ID: 1, Type: KindTeamInvite}
	other := Notification{ID: 2, Type: "system"}

	tests := []struct {
		name   string
		n      Notification
		status InviteStatus
		want   bool
	}{
		{"unread pending invite", invite, InvitePending, false},
		{"unchecked invite", invite, InviteUnchecked, false},
		{"expired invite without read flag", invite, InviteExpired, true},
		{"revoked invite", invite, InviteRevoked, true},
		{"invalid invite", invite, InviteInvalid, true},
		{"read flag wins", Notification{Type: KindTeamInvite, ReadAt: strptr("2026-01-01T00:00:00Z")}, InvitePending, true},
		{"plain notification ignores status", other, InviteExpired, false},
		{"empty read flag is unread", Notification{Type: "system", ReadAt: strptr("")}, InviteUnchecked, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConsideredRead(tt.n, tt.status))
		})
	}
}

func TestBadge(t *testing.T) {
	assert.Equal(t, "Accepted", InviteAccepted.Badge())
	assert.Equal(t, "Expired", InviteExpired.Badge())
	assert.Equal(t, "Revoked", InviteRevoked.Badge())
	assert.Equal(t, "Invalid", InviteInvalid.Badge())
	assert.Empty(t, InvitePending.Badge())
	assert.Equal(t, InviteRevoked, FromInvitation(tenant.InvitationRevoked))
	assert.Equal(t, InviteInvalid, FromInvitation(tenant.InvitationStatus("bogus")))
}

func TestNormalize(t *testing.T) {
	raw := []byte(`[
		{"id": 1, "type": "team_invite", "data": "{\"token\":\"a\"}", "read_at": null, "created_at": "2026-01-01T00:00:00Z"},
		{"ID": 2, "Type": "team_invite", "Data": "{}", "ReadAt": "2026-01-02T00:00:00Z", "UserID": 9},
		{"id": "3", "type": "system", "data": {"inline": true}}
	]`)

	list, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, `{"token":"a"}`, list[0].Data)
	assert.False(t, list[0].Read())

	assert.Equal(t, int64(2), list[1].ID)
	assert.Equal(t, int64(9), list[1].UserID)
	assert.True(t, list[1].Read())
	assert.True(t, list[1].IsInvite())

	assert.Equal(t, int64(3), list[2].ID)
	assert.JSONEq(t, `{"inline": true}`, list[2].Data)
}

func TestNormalize_NonArray(t *testing.T) {
	list, err := Normalize([]byte(`{"error":"nope"}`))
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = Normalize([]byte(`<html>`))
	assert.Error(t, err)
}
