package services

import (
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pokerpath/backend/internal/progression/engine"
	"github.com/pokerpath/backend/internal/progression/models"
	"github.com/pokerpath/backend/internal/progression/repository"
	"github.com/pokerpath/backend/pkg/metrics"
)

// AchievementService evaluates the catalog against a user's aggregates and
// grants rewards. Evaluate is idempotent: unlocking is insert-if-absent on
// user+achievement, so re-running over the same state never double-grants.
// It can be called inline (answer path) or through the deferred queue
// (session and placement paths).
type AchievementService struct {
	db     *gorm.DB
	logger *zap.Logger

	queue    chan uint
	stopOnce sync.Once
	done     chan struct{}
}

const evaluationQueueSize = 64

func NewAchievementService(db *gorm.DB, logger *zap.Logger) *AchievementService {
	return &AchievementService{
		db:     db,
		logger: logger,
		queue:  make(chan uint, evaluationQueueSize),
		done:   make(chan struct{}),
	}
}

// Evaluate checks every locked achievement for the user, unlocks the
// satisfied ones, grants their XP rewards, and recomputes the level. It
// returns the newly unlocked definitions and the post-grant stats.
func (s *AchievementService) Evaluate(userID uint) ([]models.Achievement, *models.UserStats, error) {
	var (
		newly []models.Achievement
		stats *models.UserStats
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		statsRepo := repository.NewStatsRepository(repository.WithRowLock(tx))
		achievementRepo := repository.NewAchievementRepository(tx)

		var err error
		stats, err = statsRepo.Get(userID)
		if err != nil {
			return err
		}
		if stats == nil {
			return nil // nothing to evaluate before first interaction
		}

		streak, err := repository.NewStreakRepository(tx).Get(userID)
		if err != nil {
			return err
		}
		mastered, err := repository.NewProgressRepository(tx).MasteredSlugs(userID)
		if err != nil {
			return err
		}

		ctx := engine.UserContext{
			TotalXP:         stats.TotalXP,
			Level:           stats.Level,
			TotalQuestions:  stats.TotalQuestions,
			TotalCorrect:    stats.TotalCorrect,
			MasteredModules: mastered,
		}
		if streak != nil {
			ctx.CurrentStreak = streak.CurrentStreak
			ctx.LongestStreak = streak.LongestStreak
		}

		catalog, err := achievementRepo.Catalog()
		if err != nil {
			return err
		}
		unlocked, err := achievementRepo.UnlockedSet(userID)
		if err != nil {
			return err
		}

		satisfied, err := engine.EvaluateAchievements(ctx, catalog, unlocked)
		if err != nil {
			return err
		}

		for _, a := range satisfied {
			inserted, err := achievementRepo.Unlock(userID, a.ID)
			if err != nil {
				return err
			}
			if !inserted {
				continue // concurrent evaluation beat us to it
			}
			stats.TotalXP += a.XPReward
			newly = append(newly, a)
			metrics.AchievementsUnlocked.Inc()
			s.logger.Info("achievement unlocked",
				zap.Uint("user_id", userID),
				zap.String("achievement", a.Slug))
		}

		if len(newly) == 0 {
			return nil
		}
		stats.Level = engine.LevelFromXP(stats.TotalXP)
		if err := statsRepo.Save(stats); err != nil {
			return err
		}
		// Reward XP can cross a module's unlock threshold too.
		return unlockEligibleModules(tx, userID, stats.TotalXP)
	})
	if err != nil {
		return nil, nil, err
	}
	return newly, stats, nil
}

// Enqueue schedules a deferred evaluation. Dropping on a full queue is
// acceptable: evaluation is cumulative, so the next event re-covers it.
func (s *AchievementService) Enqueue(userID uint) {
	select {
	case s.queue <- userID:
	default:
		s.logger.Warn("achievement queue full, dropping evaluation", zap.Uint("user_id", userID))
	}
}

// Start launches the deferred evaluation worker.
func (s *AchievementService) Start() {
	go func() {
		defer close(s.done)
		for userID := range s.queue {
			if _, _, err := s.Evaluate(userID); err != nil {
				s.logger.Error("deferred achievement evaluation failed",
					zap.Uint("user_id", userID), zap.Error(err))
			}
		}
	}()
}

// Stop drains and stops the worker.
func (s *AchievementService) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
		<-s.done
	})
}
