package notification

import (
	"encoding/json"
	"strings"

	"github.com/teamdeck/console/internal/model"
)

// record accepts both snake_case and PascalCase field names.
type record struct {
	ID         *model.ID       `json:"id"`
	IDP        *model.ID       `json:"ID"`
	UserID     *model.ID       `json:"user_id"`
	UserIDP    *model.ID       `json:"UserID"`
	Type       *string         `json:"type"`
	TypeP      *string         `json:"Type"`
	Data       json.RawMessage `json:"data"`
	DataP      json.RawMessage `json:"Data"`
	ReadAt     *string         `json:"read_at"`
	ReadAtP    *string         `json:"ReadAt"`
	CreatedAt  *string         `json:"created_at"`
	CreatedAtP *string         `json:"CreatedAt"`
	UpdatedAt  *string         `json:"updated_at"`
	UpdatedAtP *string         `json:"UpdatedAt"`
}

// Normalize decodes a backend notification list. Non-array payloads yield an
// empty list.
func Normalize(raw []byte) ([]Notification, error) {
	var recs []record
	if err := json.Unmarshal(raw, &recs); err != nil {
		var probe any
		if json.Unmarshal(raw, &probe) == nil {
			return []Notification{}, nil
		}
		return nil, err
	}

	out := make([]Notification, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.normalize())
	}
	return out, nil
}

func (r record) normalize() Notification {
	n := Notification{
		ID:        int64(firstID(r.ID, r.IDP)),
		UserID:    int64(firstID(r.UserID, r.UserIDP)),
		Type:      firstString(r.Type, r.TypeP),
		Data:      dataString(r.Data, r.DataP),
		CreatedAt: firstString(r.CreatedAt, r.CreatedAtP),
		UpdatedAt: firstString(r.UpdatedAt, r.UpdatedAtP),
	}
	if v := firstString(r.ReadAt, r.ReadAtP); v != "" {
		n.ReadAt = &v
	}
	return n
}

func firstID(vals ...*model.ID) model.ID {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstString(vals ...*string) string {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return ""
}

// dataString returns data as a JSON string. Backends sometimes inline the
// payload as an object instead of a serialized string.
func dataString(vals ...json.RawMessage) string {
	for _, v := range vals {
		if len(v) == 0 || string(v) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		return strings.TrimSpace(string(v))
	}
	return ""
}
