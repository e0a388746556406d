// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnswersProcessed counts answer submissions by result.
	AnswersProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokerpath_answers_total",
		Help: "Answer submissions processed, labeled by result.",
	}, []string{"result"})

	// XPGranted accumulates XP awarded across all sources.
	XPGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerpath_xp_granted_total",
		Help: "Total XP granted to users.",
	})

	// AchievementsUnlocked counts achievement unlocks.
	AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerpath_achievements_unlocked_total",
		Help: "Achievements unlocked.",
	})

	// StreaksLost counts streak resets after missed days.
	StreaksLost = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerpath_streaks_lost_total",
		Help: "Streaks lost to missed days.",
	})

	// FreezesUsed counts streak freezes consumed.
	FreezesUsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerpath_streak_freezes_used_total",
		Help: "Streak freezes consumed to bridge missed days.",
	})

	// RequestDuration observes HTTP latency per route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokerpath_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
