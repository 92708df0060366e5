package outbound

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"backend message", &APIError{Status: 400, Message: "bad email"}, "bad email"},
		{"wrapped backend message", fmt.Errorf("login: %w", &APIError{Status: 401, Message: "nope"}), "nope"},
		{"backend without message", &APIError{Status: 500}, "fallback"},
		{"transport", fmt.Errorf("x: %w", ErrUnavailable), GenericMessage},
		{"unknown", errors.New("boom"), "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageOf(tt.err, "fallback"))
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &APIError{Status: http.StatusNotFound})
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsStatus(err, http.StatusConflict))
	assert.Equal(t, 0, StatusOf(errors.New("plain")))
}

func TestNavigationTarget(t *testing.T) {
	loc, ok := NavigationTarget(fmt.Errorf("me: %w", &NavigationError{Location: "/auth/verify"}))
	assert.True(t, ok)
	assert.Equal(t, "/auth/verify", loc)

	_, ok = NavigationTarget(&APIError{Status: 302})
	assert.False(t, ok)
}
