package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sincherer/wui/internal/metrics"
	"github.com/sincherer/wui/internal/services"
	"github.com/sincherer/wui/internal/version"
)

// HealthHandler reports process health, a host snapshot and whether the
// surge CLI is usable.
type HealthHandler struct {
	surge  *services.SurgeCLI
	logger *slog.Logger
}

func NewHealthHandler(surge *services.SurgeCLI, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{surge: surge, logger: logger}
}

// Health responds with the overall service status.
// GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cliAvailable := h.surge.CheckInstalled(ctx) == nil

	snap, err := metrics.Collect(ctx)
	if err != nil {
		h.logger.Warn("system snapshot failed", "error", err)
	}

	status := "ok"
	if !cliAvailable {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"surge_cli": cliAvailable,
		"system":    snap,
		"version":   version.Info(),
		"timestamp": timestamp(),
	})
}

// Version responds with the build information only.
// GET /api/version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Info())
}
