package outbound

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/teamdeck/console/internal/domain/auth"
)

// GenericMessage is shown when no response reached the console.
const GenericMessage = "Network error. Please try again."

// ErrUnavailable wraps transport failures and an open circuit.
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx backend answer.
type APIError struct {
	Op      string
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s: status %d", e.Op, e.Status)
}

// NavigationError means the backend answered with a page or a redirect the
// browser must load instead of data.
type NavigationError struct {
	Op       string
	Location string
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("backend %s: navigate to %s", e.Op, e.Location)
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsStatus reports whether err is an APIError with status.
func IsStatus(err error, status int) bool {
	return StatusOf(err) == status
}

// IsNotFound reports a 404 answer.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// MessageOf picks the human readable message for err: the backend's own
// message, then the generic network message, then fallback.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var backendMsg, transportMsg string
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		backendMsg = apiErr.Message
	} else if errors.Is(err, ErrUnavailable) {
		transportMsg = GenericMessage
	}
	return auth.ErrorMessage(backendMsg, transportMsg, fallback)
}

// NavigationTarget returns the location when err asks the browser to move.
func NavigationTarget(err error) (string, bool) {
	var nav *NavigationError
	if errors.As(err, &nav) {
		return nav.Location, true
	}
	return "", false
}
