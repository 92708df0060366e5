package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamdeck/console/internal/module/feedback"
	"github.com/teamdeck/console/internal/port/inbound"
)

// feedbackAdapter implements inbound.FeedbackHttpPort.
type feedbackAdapter struct {
	feedback *feedback.Service
}

// NewFeedbackAdapter creates a new feedback HTTP adapter.
func NewFeedbackAdapter(svc *feedback.Service) inbound.FeedbackHttpPort {
	return &feedbackAdapter{feedback: svc}
}

// RegisterRoutes registers feedback routes.
func (a *feedbackAdapter) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/feedback", a.Submit)
}

type feedbackRequest struct {
	Message string `json:"message"`
}

// Submit forwards product feedback.
//
//	@Summary		Send feedback
//	@Tags			Feedback
//	@Accept			json
//	@Produce		json
//	@Security		CookieAuth
//	@Param			request	body	feedbackRequest	true	"Request body"
//	@Success		202	{object}	map[string]string
//	@Failure		422	{object}	errors.ErrorResponse
//	@Failure		429	{object}	errors.ErrorResponse
//	@Router			/feedback [post]
func (a *feedbackAdapter) Submit(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := a.feedback.Submit(c.Request.Context(), req.Message); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Thanks for your feedback!"})
}
