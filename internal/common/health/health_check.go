package health

import (
	"runtime"
	"time"

	"gorm.io/gorm"
)

// Status is the overall health snapshot.
type Status struct {
	Status    string                 `json:"status"` // "healthy" or "unhealthy"
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Checks    map[string]interface{} `json:"checks"`
	Duration  int64                  `json:"duration_ms"`
}

// Checker reports the health of the service's dependencies.
type Checker struct {
	db        *gorm.DB
	version   string
	startTime time.Time
}

func NewChecker(db *gorm.DB, version string) *Checker {
	return &Checker{db: db, version: version, startTime: time.Now()}
}

// Check performs a full health check.
func (c *Checker) Check() Status {
	start := time.Now()
	status := Status{
		Status:    "healthy",
		Timestamp: start,
		Version:   c.version,
		Checks:    map[string]interface{}{},
	}

	if err := c.Ping(); err != nil {
		status.Status = "unhealthy"
		status.Checks["database"] = map[string]interface{}{"healthy": false, "error": err.Error()}
	} else {
		status.Checks["database"] = map[string]interface{}{"healthy": true}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	status.Checks["system"] = map[string]interface{}{
		"memory_usage_mb": memStats.Alloc / 1024 / 1024,
		"goroutine_count": runtime.NumGoroutine(),
		"uptime_seconds":  int64(time.Since(c.startTime).Seconds()),
	}

	status.Duration = time.Since(start).Milliseconds()
	return status
}

// Ping verifies database connectivity.
func (c *Checker) Ping() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
