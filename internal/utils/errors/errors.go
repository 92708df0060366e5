package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Common error types.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrConflict          = errors.New("resource conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrServiceUnavail    = errors.New("service unavailable")
	ErrNavigate          = errors.New("navigation required")
	ErrConfirmation      = errors.New("confirmation required")
	ErrCooldown          = errors.New("cooldown active")
	ErrInvitationInvalid = errors.New("invitation invalid")
	ErrBackend           = errors.New("backend error")
)

// AppError represents an application error with HTTP status and error code.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	StatusCode int            `json:"-"`
	Err        error          `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse represents the JSON error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Err:        ErrUnauthorized,
	}
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
		Err:        ErrForbidden,
	}
}

// BadRequest creates a bad request error.
func BadRequest(message string) *AppError {
	return &AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        ErrBadRequest,
	}
}

// ValidationError creates a validation error.
func ValidationError(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Err:        ErrBadRequest,
	}
}

// Conflict creates a conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
		Err:        ErrConflict,
	}
}

// Internal creates an internal error.
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// RateLimited creates a rate limited error.
func RateLimited(message string) *AppError {
	if message == "" {
		message = "too many requests"
	}
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		Err:        ErrRateLimited,
	}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(message string) *AppError {
	if message == "" {
		message = "service temporarily unavailable"
	}
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Err:        ErrServiceUnavail,
	}
}

// --- Console specific errors ---

// Navigate tells the browser to load location instead of treating the
// response as data.
func Navigate(location string) *AppError {
	return &AppError{
		Code:       "NAVIGATE",
		Message:    "navigation required",
		Details:    map[string]any{"redirect": location},
		StatusCode: http.StatusSeeOther,
		Err:        ErrNavigate,
	}
}

// ConfirmationRequired guards destructive actions.
func ConfirmationRequired(action string) *AppError {
	return &AppError{
		Code:       "CONFIRMATION_REQUIRED",
		Message:    fmt.Sprintf("%s requires explicit confirmation", action),
		StatusCode: http.StatusPreconditionRequired,
		Err:        ErrConfirmation,
	}
}

// CooldownActive rejects a resend issued before the cooldown elapsed.
func CooldownActive(retryAfter time.Duration) *AppError {
	secs := int(retryAfter.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return &AppError{
		Code:       "COOLDOWN_ACTIVE",
		Message:    fmt.Sprintf("please wait %ds before resending", secs),
		Details:    map[string]any{"retry_after": secs},
		StatusCode: http.StatusTooManyRequests,
		Err:        ErrCooldown,
	}
}

// InvitationInvalid is terminal: the invite cannot be retried.
func InvitationInvalid(message string) *AppError {
	if message == "" {
		message = "this invitation is no longer valid"
	}
	return &AppError{
		Code:       "INVITE_INVALID",
		Message:    message,
		Details:    map[string]any{"request_new": true},
		StatusCode: http.StatusGone,
		Err:        ErrInvitationInvalid,
	}
}

// Backend relays a backend failure with its extracted message.
func Backend(status int, message string, err error) *AppError {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	return &AppError{
		Code:       "BACKEND_ERROR",
		Message:    message,
		StatusCode: status,
		Err:        errors.Join(ErrBackend, err),
	}
}

// ToResponse converts an AppError to ErrorResponse.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		},
	}
}

// Is reports whether target matches this error.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Err, target)
}
