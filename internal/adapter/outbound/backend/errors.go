package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sony/gobreaker/v2"

	"github.com/teamdeck/console/internal/port/outbound"
)

// extractMessage reads {message} then {error} from a JSON error body. Plain
// text bodies are used as is when short.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var payload struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s := messageString(payload.Message); s != "" {
			return s
		}
		return messageString(payload.Error)
	}
	if looksLikeHTML(body) || len(trimmed) > 200 {
		return ""
	}
	return trimmed
}

// messageString accepts a string or a nested {message} object.
func messageString(v any) string {
	switch m := v.(type) {
	case string:
		return strings.TrimSpace(m)
	case map[string]any:
		if s, ok := m["message"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func unavailable(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("backend %s: circuit open: %w", op, errors.Join(outbound.ErrUnavailable, err))
	}
	return fmt.Errorf("backend %s: %w", op, errors.Join(outbound.ErrUnavailable, err))
}
