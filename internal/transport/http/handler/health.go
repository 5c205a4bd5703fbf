package handler

import (
	"net/http"

	"github.com/ErlanBelekov/item-tracker/internal/health"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// GET /health
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, h.checker.Liveness(c.Request.Context()))
}

// GET /health/ready
func (h *HealthHandler) Readiness(c *gin.Context) {
	res := h.checker.Readiness(c.Request.Context())
	status := http.StatusOK
	if res.Status != health.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, res)
}
