package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokerpath/backend/internal/common/errors"
	"github.com/pokerpath/backend/internal/common/middleware"
	"github.com/pokerpath/backend/internal/progression/models"
	"github.com/pokerpath/backend/internal/progression/services"
)

// Handler bundles the progression services behind the HTTP surface.
type Handler struct {
	answers   *services.AnswerService
	sessions  *services.SessionService
	placement *services.PlacementService
	stats     *services.StatsService
}

func NewHandler(answers *services.AnswerService, sessions *services.SessionService, placement *services.PlacementService, stats *services.StatsService) *Handler {
	return &Handler{
		answers:   answers,
		sessions:  sessions,
		placement: placement,
		stats:     stats,
	}
}

// RegisterRoutes wires the progression endpoints under the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/answers", h.SubmitAnswer)
	group.POST("/sessions/complete", h.CompleteSession)
	group.POST("/placement/submit", h.SubmitPlacement)
	group.POST("/placement/reset", h.ResetPlacement)
	group.GET("/stats", h.GetStats)
	group.GET("/progress", h.GetProgress)
	group.GET("/achievements", h.GetAchievements)
	group.GET("/modules", h.GetModules)
}

// SubmitAnswer records one answer and returns the full progress delta.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user identity"))
		return
	}

	var req models.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid answer submission", err.Error()))
		return
	}

	response, err := h.answers.SubmitAnswer(userID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// CompleteSession applies an end-of-session summary.
func (h *Handler) CompleteSession(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user identity"))
		return
	}

	var req models.CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid session summary", err.Error()))
		return
	}

	response, err := h.sessions.CompleteSession(userID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SubmitPlacement runs the one-time placement classification.
func (h *Handler) SubmitPlacement(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user identity"))
		return
	}

	var req models.PlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid placement submission", err.Error()))
		return
	}

	response, err := h.placement.SubmitPlacement(userID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ResetPlacement clears the placement completion flag and history.
func (h *Handler) ResetPlacement(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user identity"))
		return
	}

	if err := h.placement.ResetPlacement(userID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

// GetStats returns the aggregate snapshot.
func (h *Handler) GetStats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user identity"))
		return
	}

	response, err := h.stats.GetStats(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetProgress returns per-module progress.
func (h *Handler) GetProgress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user identity"))
		return
	}

	progress, err := h.stats.GetProgress(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetAchievements returns the catalog with unlock status.
func (h *Handler) GetAchievements(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user identity"))
		return
	}

	achievements, err := h.stats.GetAchievements(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

// GetModules returns the curriculum with per-user lock state.
func (h *Handler) GetModules(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, errors.Unauthorized("missing user identity"))
		return
	}

	modules, err := h.stats.GetModules(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, modules)
}
