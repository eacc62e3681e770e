package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/api/response"
	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/models"
)

// CaptureService abstracts the capture service for testability.
type CaptureService interface {
	Capture(ctx context.Context, req models.CaptureRequest) bool
}

// CaptureHandler handles 404 event capture requests.
type CaptureHandler struct {
	logger  logging.Logger
	service CaptureService
}

// NewCaptureHandler creates a new capture handler.
func NewCaptureHandler(logger logging.Logger, service CaptureService) *CaptureHandler {
	return &CaptureHandler{
		logger:  logger.With(zap.String("handler", "capture")),
		service: service,
	}
}

// CaptureResponse reports whether the event was recorded or skipped.
type CaptureResponse struct {
	Recorded bool `json:"recorded" example:"true"`
	Skipped  bool `json:"skipped" example:"false"`
} // @name CaptureResponse

// Capture godoc
// @Summary Record a not-found event
// @Description Records one 404 occurrence. Paths containing a configured skip pattern are silently ignored. Storage faults never fail this endpoint.
// @Tags Capture
// @Accept json
// @Produce json
// @Param event body models.CaptureRequest true "Not-found event"
// @Success 202 {object} response.SuccessResponse{data=CaptureResponse} "Event recorded"
// @Success 200 {object} response.SuccessResponse{data=CaptureResponse} "Event skipped"
// @Failure 400 {object} response.ErrorResponse "Missing domain or path"
// @Router /api/v1/events [post]
func (h *CaptureHandler) Capture(c *gin.Context) {
	var req models.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid capture request",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)))
		response.BadRequest(c, "invalid capture request", err.Error())
		return
	}

	// The reporting layer may omit the agent; fall back to the header of
	// the request that carried the report.
	if req.UserAgent == nil {
		if ua := c.GetHeader("User-Agent"); ua != "" {
			req.UserAgent = &ua
		}
	}

	recorded := h.service.Capture(c.Request.Context(), req)
	if !recorded {
		response.OK(c, CaptureResponse{Skipped: true})
		return
	}

	response.Accepted(c, CaptureResponse{Recorded: true}, "")
}
