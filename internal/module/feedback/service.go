package feedback

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/teamdeck/console/internal/port/outbound"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
)

const (
	maxLength        = 5000
	msgLimitReached  = "Daily feedback limit reached. Please try again tomorrow."
	msgSubmitFailure = "Failed to send feedback"
)

// Service forwards user feedback to the backend.
type Service struct {
	api    outbound.FeedbackAPI
	logger *zap.Logger
}

// NewService creates the feedback service.
func NewService(api outbound.FeedbackAPI, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// Submit sends a trimmed, non-empty message.
func (s *Service) Submit(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return apperrors.ValidationError("Feedback message is required")
	}
	if utf8.RuneCountInString(message) > maxLength {
		return apperrors.ValidationError("Feedback message is too long")
	}

	err := s.api.Submit(ctx, message)
	switch {
	case err == nil:
		return nil
	case outbound.IsStatus(err, http.StatusTooManyRequests):
		return apperrors.RateLimited(msgLimitReached)
	default:
		s.logger.Warn("feedback submit failed", zap.Error(err))
		return apperrors.Backend(outbound.StatusOf(err), msgSubmitFailure, err)
	}
}
