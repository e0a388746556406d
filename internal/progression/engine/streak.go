package engine

import (
	"time"

	"github.com/pokerpath/backend/internal/progression/models"
)

const (
	// MaxStreakFreezes caps the banked freeze credits.
	MaxStreakFreezes = 3
	// FreezeEarnInterval grants a freeze at every streak multiple.
	FreezeEarnInterval = 7
)

// StreakFlags describes what AdvanceStreak did to the record.
type StreakFlags struct {
	Maintained      bool
	Lost            bool
	FreezeUsed      bool
	NewFreezeEarned bool
}

// calendarDate normalizes a timestamp to midnight UTC of its calendar day.
// Comparisons are by calendar date, not a rolling 24h window.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameCalendarDay reports whether two timestamps fall on the same UTC day.
func SameCalendarDay(a, b time.Time) bool {
	return calendarDate(a).Equal(calendarDate(b))
}

// AdvanceStreak applies one activity event at "now" to a streak record and
// returns the next record plus flags. A nil record means first-ever
// activity. Calling again on the same calendar day is a no-op, which makes
// network retries safe on this path.
func AdvanceStreak(record *models.StreakRecord, now time.Time) (models.StreakRecord, StreakFlags) {
	if record == nil {
		return models.StreakRecord{
			CurrentStreak:    1,
			LongestStreak:    1,
			LastActivityDate: now,
			StreakFreezes:    0,
		}, StreakFlags{Maintained: true}
	}

	next := *record

	today := calendarDate(now)
	last := calendarDate(record.LastActivityDate)

	if today.Equal(last) {
		return next, StreakFlags{Maintained: true}
	}

	flags := StreakFlags{Maintained: true}
	daysMissed := int(today.Sub(last) / (24 * time.Hour))

	switch {
	case daysMissed == 1:
		next.CurrentStreak++
	case daysMissed == 2 && next.StreakFreezes > 0:
		// A freeze bridges exactly one missed day. It never stacks to
		// cover longer gaps.
		next.StreakFreezes--
		next.CurrentStreak++
		flags.FreezeUsed = true
	default:
		flags.Lost = record.CurrentStreak > 0
		flags.Maintained = !flags.Lost
		next.CurrentStreak = 1
	}

	if next.CurrentStreak > 0 && next.CurrentStreak%FreezeEarnInterval == 0 && next.StreakFreezes < MaxStreakFreezes {
		next.StreakFreezes++
		flags.NewFreezeEarned = true
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastActivityDate = now

	return next, flags
}
