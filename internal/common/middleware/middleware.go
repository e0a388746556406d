package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pokerpath/backend/internal/common/errors"
	"github.com/pokerpath/backend/pkg/metrics"
)

// AuthRequired resolves the calling user from the session cookie or the
// Authorization header and stores the numeric user id in the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie("session_id")
		if err != nil || raw == "" {
			raw = c.GetHeader("Authorization")
		}
		if raw == "" {
			appErr := errors.Unauthorized("missing or invalid authentication")
			c.JSON(appErr.Status, appErr)
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			appErr := errors.Unauthorized("invalid user identity")
			c.JSON(appErr.Status, appErr)
			c.Abort()
			return
		}

		c.Set("user_id", uint(userID))
		c.Next()
	}
}

// UserID reads the authenticated user id set by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CORS allows browser clients to reach the API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// RequestLogger logs each request through zap and records its latency.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.RequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		)
	}
}

// ErrorHandler recovers panics into a consistent error response.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", zap.Any("panic", r))
				appErr := errors.Internal("internal server error", "")
				c.AbortWithStatusJSON(appErr.Status, appErr)
			}
		}()
		c.Next()
	}
}

// JSONErrorResponse writes an error in the standard AppError shape.
func JSONErrorResponse(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	c.JSON(appErr.Status, appErr)
}
