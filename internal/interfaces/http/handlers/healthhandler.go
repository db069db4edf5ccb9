package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
	"helpdesk/internal/shared/version"
)

// Pinger reports whether the database answers.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping   Pinger
	logger logger.Interface
}

func NewHealthHandler(ping Pinger, log logger.Interface) *HealthHandler {
	return &HealthHandler{ping: ping, logger: log}
}

// Info handles GET /api
func (h *HealthHandler) Info(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Helpdesk API", gin.H{
		"service": "helpdesk",
		"version": version.String(),
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles GET /api/health
// @Summary Service health
// @Tags system
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	health, dbStatus, status := "healthy", "up", http.StatusOK
	if h.ping != nil {
		if err := h.ping(ctx); err != nil {
			h.logger.Errorw("database health check failed", "error", err)
			health, dbStatus, status = "unhealthy", "down", http.StatusServiceUnavailable
		}
	}

	c.JSON(status, utils.APIResponse{
		Success: status == http.StatusOK,
		Data: gin.H{
			"status":    health,
			"database":  dbStatus,
			"version":   version.String(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
