package gin

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/teamdeck/console/internal/domain/auth"
	"github.com/teamdeck/console/internal/domain/tenant"
	"github.com/teamdeck/console/internal/module/authflow"
	"github.com/teamdeck/console/internal/module/inbox"
	"github.com/teamdeck/console/internal/port/outbound"
	apperrors "github.com/teamdeck/console/internal/utils/errors"
)

// toAppError maps module, domain and backend errors to the console's
// error envelope.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if loc, ok := outbound.NavigationTarget(err); ok {
		return apperrors.Navigate(loc)
	}

	switch {
	case errors.Is(err, tenant.ErrTeamNotFound), errors.Is(err, tenant.ErrSelectionAbsent):
		return apperrors.NotFound("Team")
	case errors.Is(err, tenant.ErrNameRequired),
		errors.Is(err, tenant.ErrNameTooLong),
		errors.Is(err, tenant.ErrInvalidIcon),
		errors.Is(err, tenant.ErrInvalidRole):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, tenant.ErrOwnerImmutable), errors.Is(err, tenant.ErrInsufficientCap):
		return apperrors.Forbidden(err.Error())
	case errors.Is(err, inbox.ErrNotificationNotFound):
		return apperrors.NotFound("Notification")
	case errors.Is(err, inbox.ErrNotInvite):
		return apperrors.BadRequest(err.Error())
	case errors.Is(err, auth.ErrAlreadySubmitting), errors.Is(err, auth.ErrStaleMount):
		return apperrors.Conflict(err.Error())
	case errors.Is(err, authflow.ErrUnknownProvider):
		return apperrors.NotFound("Provider")
	case errors.Is(err, outbound.ErrUnavailable):
		return apperrors.ServiceUnavailable(outbound.GenericMessage)
	}

	if status := outbound.StatusOf(err); status != 0 {
		return apperrors.Backend(status, outbound.MessageOf(err, "Request failed"), err)
	}
	return apperrors.Internal("Internal server error", err)
}

// handleError writes err as a JSON error response.
func handleError(c *gin.Context, err error) {
	appErr := toAppError(err)
	_ = c.Error(err)
	c.JSON(appErr.StatusCode, appErr.ToResponse())
}

// bindError reports a malformed request body.
func bindError(c *gin.Context, err error) {
	appErr := apperrors.BadRequest("Invalid request body: " + err.Error())
	c.JSON(appErr.StatusCode, appErr.ToResponse())
}
