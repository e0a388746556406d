package engine

import (
	"github.com/pokerpath/backend/internal/progression/models"
)

const (
	// MasteryMinAnswers is the minimum answer count before a module can
	// be mastered.
	MasteryMinAnswers = 20
	// MasteryScoreThreshold is the blended score required for mastery.
	MasteryScoreThreshold = 80.0
	// CompletedAccuracyThreshold drives the per-answer COMPLETED check
	// against overall accuracy.
	CompletedAccuracyThreshold = 70.0
	// SessionPassAccuracyThreshold drives the session-level COMPLETED
	// check.
	SessionPassAccuracyThreshold = 50.0

	overallWeight = 0.4
	recentWeight  = 0.6

	// MasteryXPBonus is granted once, on the transition into mastered.
	MasteryXPBonus = 100
)

// MasteryResult reports the outcome of recording one answer or applying a
// session result.
type MasteryResult struct {
	MasteryScore float64
	Status       models.ModuleStatus
	MasteredNow  bool
}

// BlendedScore weights all-time accuracy at 40% and the recent window at
// 60%.
func BlendedScore(overallAccuracy, recentAccuracy float64) float64 {
	return overallAccuracy*overallWeight + recentAccuracy*recentWeight
}

// NextStatus is the single authority for module status transitions. Both
// the per-answer path and the session-completion path go through it;
// sessionPassed carries the session channel's >=50% accuracy result.
// Mastered is terminal: once reached it is never downgraded.
func NextStatus(current models.ModuleStatus, totalAnswers int, overallAccuracy, masteryScore float64, sessionPassed bool) models.ModuleStatus {
	if current == models.StatusMastered {
		return models.StatusMastered
	}
	if totalAnswers >= MasteryMinAnswers && masteryScore >= MasteryScoreThreshold {
		return models.StatusMastered
	}
	if totalAnswers == 0 {
		if sessionPassed {
			return models.StatusCompleted
		}
		return current
	}
	if sessionPassed || overallAccuracy >= CompletedAccuracyThreshold {
		return models.StatusCompleted
	}
	return models.StatusInProgress
}

// RecordAnswer folds one answer outcome into the progress record: counters,
// the bounded recent window, the blended mastery score, and the status
// machine. Mutates progress in place and reports whether this call crossed
// into mastered.
func RecordAnswer(progress *models.ModuleProgress, isCorrect bool) MasteryResult {
	progress.TotalAnswers++
	if isCorrect {
		progress.CorrectAnswers++
	}
	progress.RecentAnswers = progress.RecentAnswers.Push(isCorrect)

	overall := float64(progress.CorrectAnswers) / float64(progress.TotalAnswers) * 100
	progress.MasteryScore = BlendedScore(overall, progress.RecentAnswers.Accuracy())

	prev := progress.Status
	progress.Status = NextStatus(prev, progress.TotalAnswers, overall, progress.MasteryScore, false)

	return MasteryResult{
		MasteryScore: progress.MasteryScore,
		Status:       progress.Status,
		MasteredNow:  prev != models.StatusMastered && progress.Status == models.StatusMastered,
	}
}

// ApplySession routes a session summary through the same status authority.
// The session's accuracy only feeds the >=50% completion channel; counters
// and the mastery score are owned by the per-answer path.
func ApplySession(progress *models.ModuleProgress, totalQuestions, correctAnswers int) MasteryResult {
	accuracy := 0.0
	if totalQuestions > 0 {
		accuracy = float64(correctAnswers) / float64(totalQuestions) * 100
	}

	overall := 0.0
	if progress.TotalAnswers > 0 {
		overall = float64(progress.CorrectAnswers) / float64(progress.TotalAnswers) * 100
	}

	// A failed session never downgrades a status earned elsewhere; only a
	// pass is routed through the status authority.
	prev := progress.Status
	if accuracy >= SessionPassAccuracyThreshold {
		progress.Status = NextStatus(prev, progress.TotalAnswers, overall, progress.MasteryScore, true)
	}

	return MasteryResult{
		MasteryScore: progress.MasteryScore,
		Status:       progress.Status,
		MasteredNow:  prev != models.StatusMastered && progress.Status == models.StatusMastered,
	}
}
