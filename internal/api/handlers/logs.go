package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/api/response"
	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/models"
)

// AggregationService abstracts the aggregation engine for testability.
type AggregationService interface {
	ListGroups(ctx context.Context, query models.GroupQuery) (models.GroupListResponse, error)
	GroupDetail(ctx context.Context, domain, path string, windowDays int) (*models.GroupDetailResponse, error)
	DeleteGroup(ctx context.Context, domain, path string) (int64, error)
}

// LogsHandler handles aggregated not-found log queries.
type LogsHandler struct {
	logger  logging.Logger
	service AggregationService
}

// NewLogsHandler creates a new logs handler.
func NewLogsHandler(logger logging.Logger, service AggregationService) *LogsHandler {
	return &LogsHandler{
		logger:  logger.With(zap.String("handler", "logs")),
		service: service,
	}
}

// ListGroups godoc
// @Summary List aggregated not-found groups
// @Description Groups events by (domain, path) with count and first/last occurrence. Filters act on the aggregated groups, not raw rows.
// @Tags Logs
// @Produce json
// @Param domain query string false "Case-insensitive substring filter on domain"
// @Param path query string false "Case-insensitive substring filter on path"
// @Param min_count query int false "Inclusive lower bound on group count"
// @Param max_count query int false "Inclusive upper bound on group count"
// @Param sort query string false "Sort field" Enums(count, url_domain, url_path, last_occurrence) default(count)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Groups per page" default(20) minimum(1) maximum(100)
// @Success 200 {object} response.SuccessResponse{data=models.GroupListResponse}
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/logs [get]
func (h *LogsHandler) ListGroups(c *gin.Context) {
	var query models.GroupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("invalid group listing query",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)))
		response.BadRequest(c, "invalid query parameters", err.Error())
		return
	}

	result, err := h.service.ListGroups(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("group listing failed", zap.Error(err))
		response.InternalServerError(c, "failed to list groups")
		return
	}

	response.OK(c, result)
}

// GroupDetail godoc
// @Summary Detail view for one group
// @Description Raw events (newest first), summary stats, and a zero-filled daily series for a trailing window.
// @Tags Logs
// @Produce json
// @Param domain query string true "Exact domain"
// @Param path query string true "Exact path"
// @Param window_days query int false "Series window in days" default(30)
// @Success 200 {object} response.SuccessResponse{data=models.GroupDetailResponse}
// @Failure 400 {object} response.ErrorResponse "Missing domain or path"
// @Failure 404 {object} response.ErrorResponse "Group has no events"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/logs/detail [get]
func (h *LogsHandler) GroupDetail(c *gin.Context) {
	domain := c.Query("domain")
	path := c.Query("path")
	if domain == "" || path == "" {
		response.BadRequest(c, "domain and path parameters are required", nil)
		return
	}

	windowDays := 0
	if raw := c.Query("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "window_days must be a positive integer", nil)
			return
		}
		windowDays = parsed
	}

	detail, err := h.service.GroupDetail(c.Request.Context(), domain, path, windowDays)
	if err != nil {
		h.logger.Error("group detail failed",
			zap.String("domain", domain),
			zap.String("path", path),
			zap.Error(err))
		response.InternalServerError(c, "failed to load group detail")
		return
	}
	if detail == nil {
		response.NotFound(c, "no events for this domain and path")
		return
	}

	response.OK(c, detail)
}

// DeleteGroupResponse reports a bulk group deletion.
type DeleteGroupResponse struct {
	DeletedCount int64 `json:"deleted_count" example:"3"`
} // @name DeleteGroupResponse

// DeleteGroup godoc
// @Summary Delete all events of one group
// @Description Removes every event matching the exact (domain, path) pair.
// @Tags Logs
// @Produce json
// @Param domain query string true "Exact domain"
// @Param path query string true "Exact path"
// @Success 200 {object} response.SuccessResponse{data=DeleteGroupResponse}
// @Failure 400 {object} response.ErrorResponse "Missing domain or path"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/logs [delete]
func (h *LogsHandler) DeleteGroup(c *gin.Context) {
	domain := c.Query("domain")
	path := c.Query("path")
	if domain == "" || path == "" {
		response.BadRequest(c, "domain and path parameters are required", nil)
		return
	}

	deleted, err := h.service.DeleteGroup(c.Request.Context(), domain, path)
	if err != nil {
		h.logger.Error("group delete failed",
			zap.String("domain", domain),
			zap.String("path", path),
			zap.Error(err))
		response.InternalServerError(c, "failed to delete group")
		return
	}

	response.OK(c, DeleteGroupResponse{DeletedCount: deleted})
}
