package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokerpath/backend/internal/common/health"
)

// HealthHandler serves liveness/readiness endpoints.
type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health returns the full dependency check.
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.checker.Check()
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// Liveness only confirms the process is serving.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness confirms the database is reachable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.checker.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
