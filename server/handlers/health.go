package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"exclusioncheck/internal/monitoring"
)

// HealthHandler reports service health.
type HealthHandler struct {
	checker *monitoring.HealthChecker
}

func NewHealthHandler(checker *monitoring.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// HandleHealthGin answers 200 unless a component is unhealthy.
// @Summary Service health
// @Description Reports the reference cache, runs and clients directories
// @Tags health
// @Produce json
// @Success 200 {object} monitoring.HealthCheckResult
// @Failure 503 {object} monitoring.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) HandleHealthGin(c *gin.Context) {
	result := h.checker.Check(c.Request.Context())

	status := http.StatusOK
	if result.Status == monitoring.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, result)
}
