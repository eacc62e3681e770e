package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fourohfour/notfound-tracker/internal/api/response"
	"github.com/fourohfour/notfound-tracker/internal/logging"
	"github.com/fourohfour/notfound-tracker/internal/models"
)

// StatsProvider exposes store-wide statistics for the health payload.
type StatsProvider interface {
	Stats(ctx context.Context) (*models.StoreStats, error)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger logging.Logger
	stats  StatsProvider
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(logger logging.Logger, stats StatsProvider) *HealthHandler {
	return &HealthHandler{logger: logger, stats: stats}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string             `json:"status" example:"ok"`
	Service string             `json:"service" example:"notfound-tracker"`
	Version string             `json:"version" example:"1.0.0"`
	Store   *models.StoreStats `json:"store,omitempty"`
} // @name HealthResponse

// Health godoc
// @Summary Health check endpoint
// @Description Returns service status plus event-store statistics when the store is reachable.
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:  "ok",
		Service: "notfound-tracker",
		Version: "1.0.0",
	}

	if h.stats != nil {
		stats, err := h.stats.Stats(c.Request.Context())
		if err != nil {
			h.logger.Warn("health stats unavailable", zap.Error(err))
			resp.Status = "degraded"
		} else {
			resp.Store = stats
		}
	}

	response.OK(c, resp)
}
