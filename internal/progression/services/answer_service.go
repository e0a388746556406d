package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	contentmodels "github.com/pokerpath/backend/internal/content/models"
	contentrepo "github.com/pokerpath/backend/internal/content/repository"
	"github.com/pokerpath/backend/internal/progression/engine"
	"github.com/pokerpath/backend/internal/progression/models"
	"github.com/pokerpath/backend/internal/progression/repository"
	"github.com/pokerpath/backend/pkg/metrics"
)

// AnswerService runs the per-answer flow: streak advance, XP award, mastery
// update, module unlocking, then achievement evaluation. The whole
// read-modify-write runs in one transaction per user (serialize-per-user).
type AnswerService struct {
	db           *gorm.DB
	logger       *zap.Logger
	achievements *AchievementService
	now          func() time.Time
}

func NewAnswerService(db *gorm.DB, logger *zap.Logger, achievements *AchievementService) *AnswerService {
	return &AnswerService{
		db:           db,
		logger:       logger,
		achievements: achievements,
		now:          time.Now,
	}
}

// SubmitAnswer applies one answer event. Retried submissions carrying the
// same idempotency key are answered from history without re-applying any
// effect.
func (s *AnswerService) SubmitAnswer(userID uint, req models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	question, err := contentrepo.NewQuestionRepository(s.db).GetByID(req.QuestionID)
	if err != nil {
		return nil, err
	}

	if prior, err := repository.NewAnswerRepository(s.db).FindByKey(req.IdempotencyKey); err != nil {
		return nil, err
	} else if prior != nil {
		return s.replayResponse(userID, question, prior)
	}

	isCorrect := answersMatch(req.Answer, question.CorrectAnswer)
	now := s.now()

	var response models.SubmitAnswerResponse

	err = s.db.Transaction(func(tx *gorm.DB) error {
		locked := repository.WithRowLock(tx)
		statsRepo := repository.NewStatsRepository(locked)
		streakRepo := repository.NewStreakRepository(locked)
		progressRepo := repository.NewProgressRepository(locked)

		stats, err := statsRepo.GetOrCreate(userID)
		if err != nil {
			return err
		}

		streak, err := streakRepo.Get(userID)
		if err != nil {
			return err
		}
		isFirstToday := streak == nil || !engine.SameCalendarDay(streak.LastActivityDate, now)

		nextStreak, streakFlags := engine.AdvanceStreak(streak, now)
		if streak != nil {
			nextStreak.ID = streak.ID
			nextStreak.UserID = streak.UserID
			nextStreak.CreatedAt = streak.CreatedAt
		} else {
			nextStreak.UserID = userID
		}
		if err := streakRepo.Save(&nextStreak); err != nil {
			return err
		}

		var xpResult engine.XPResult
		if isCorrect {
			xpResult = engine.ComputeXP(engine.XPInput{
				Difficulty:    question.Difficulty,
				CurrentStreak: nextStreak.CurrentStreak,
				IsFirstToday:  isFirstToday,
				BaseXP:        question.XPValue,
			})
		}

		entryLevel := stats.Level
		stats.TotalQuestions++
		if isCorrect {
			stats.TotalCorrect++
		}
		stats.TotalXP += xpResult.Total

		progress, err := progressRepo.Get(userID, question.ModuleSlug)
		if err != nil {
			return err
		}
		if progress == nil {
			progress = &models.ModuleProgress{
				UserID:     userID,
				ModuleSlug: question.ModuleSlug,
				Status:     models.StatusUnlocked,
			}
		}
		masteryResult := engine.RecordAnswer(progress, isCorrect)
		if masteryResult.MasteredNow {
			stats.TotalXP += engine.MasteryXPBonus
			s.logger.Info("module mastered",
				zap.Uint("user_id", userID),
				zap.String("module", question.ModuleSlug))
		}
		if err := progressRepo.Save(progress); err != nil {
			return err
		}

		stats.Level = engine.LevelFromXP(stats.TotalXP)
		if err := statsRepo.Save(stats); err != nil {
			return err
		}

		if err := unlockEligibleModules(tx, userID, stats.TotalXP); err != nil {
			return err
		}

		key := req.IdempotencyKey
		if key == "" {
			key = uuid.NewString()
		}
		record := &models.AnswerRecord{
			UserID:         userID,
			QuestionID:     question.ID,
			ModuleSlug:     question.ModuleSlug,
			IdempotencyKey: key,
			IsCorrect:      isCorrect,
			XPAwarded:      xpResult.Total,
			XPBase:         xpResult.Breakdown.Base,
			XPDifficulty:   xpResult.Breakdown.DifficultyBonus,
			XPStreak:       xpResult.Breakdown.StreakBonus,
			XPDaily:        xpResult.Breakdown.DailyBonus,
			IsPlacement:    question.IsPlacement,
		}
		if err := repository.NewAnswerRepository(tx).Create(record); err != nil {
			return err
		}

		response = models.SubmitAnswerResponse{
			IsCorrect:     isCorrect,
			CorrectAnswer: question.CorrectAnswer,
			XPEarned:      xpResult.Total,
			XPBreakdown: models.XPBreakdownDTO{
				Base:            xpResult.Breakdown.Base,
				DifficultyBonus: xpResult.Breakdown.DifficultyBonus,
				StreakBonus:     xpResult.Breakdown.StreakBonus,
				DailyBonus:      xpResult.Breakdown.DailyBonus,
			},
			TotalXP:       stats.TotalXP,
			Level:         stats.Level,
			XPToNextLevel: engine.XPToNextLevel(stats.TotalXP, stats.Level),
			LeveledUp:     stats.Level > entryLevel,
			Streak:        streakDTO(&nextStreak, streakFlags),
			MasteryScore:  masteryResult.MasteryScore,
			ModuleStatus:  masteryResult.Status,
			MasteredNow:   masteryResult.MasteredNow,
		}

		observeAnswerMetrics(isCorrect, xpResult.Total, streakFlags)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Achievement evaluation runs after the primary transaction commits so
	// a reward failure never rolls back the answer itself.
	newly, stats, err := s.achievements.Evaluate(userID)
	if err != nil {
		s.logger.Warn("achievement evaluation failed", zap.Uint("user_id", userID), zap.Error(err))
	} else {
		response.NewAchievements = newly
		if stats != nil {
			response.TotalXP = stats.TotalXP
			response.Level = stats.Level
			response.XPToNextLevel = engine.XPToNextLevel(stats.TotalXP, stats.Level)
		}
	}
	if response.NewAchievements == nil {
		response.NewAchievements = []models.Achievement{}
	}

	return &response, nil
}

// replayResponse rebuilds a response for a deduplicated retry from the
// stored answer record and current state, applying no new effects.
func (s *AnswerService) replayResponse(userID uint, question *contentmodels.Question, prior *models.AnswerRecord) (*models.SubmitAnswerResponse, error) {
	stats, err := repository.NewStatsRepository(s.db).GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	streak, err := repository.NewStreakRepository(s.db).Get(userID)
	if err != nil {
		return nil, err
	}
	progress, err := repository.NewProgressRepository(s.db).Get(userID, question.ModuleSlug)
	if err != nil {
		return nil, err
	}

	response := &models.SubmitAnswerResponse{
		IsCorrect:     prior.IsCorrect,
		CorrectAnswer: question.CorrectAnswer,
		XPEarned:      prior.XPAwarded,
		XPBreakdown: models.XPBreakdownDTO{
			Base:            prior.XPBase,
			DifficultyBonus: prior.XPDifficulty,
			StreakBonus:     prior.XPStreak,
			DailyBonus:      prior.XPDaily,
		},
		TotalXP:         stats.TotalXP,
		Level:           stats.Level,
		XPToNextLevel:   engine.XPToNextLevel(stats.TotalXP, stats.Level),
		NewAchievements: []models.Achievement{},
	}
	if streak != nil {
		response.Streak = streakDTO(streak, engine.StreakFlags{Maintained: true})
	}
	if progress != nil {
		response.MasteryScore = progress.MasteryScore
		response.ModuleStatus = progress.Status
	}
	return response, nil
}

// unlockEligibleModules creates UNLOCKED progress rows for every module
// whose XP threshold the user's total now meets. Called after every XP
// change, achievement rewards included.
func unlockEligibleModules(tx *gorm.DB, userID uint, totalXP int) error {
	modules, err := contentrepo.NewModuleRepository(tx).List()
	if err != nil {
		return err
	}
	progressRepo := repository.NewProgressRepository(tx)
	existing, err := progressRepo.ListByUser(userID)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.ModuleSlug] = true
	}

	for _, m := range modules {
		if have[m.Slug] || m.XPRequired > totalXP {
			continue
		}
		row := &models.ModuleProgress{
			UserID:     userID,
			ModuleSlug: m.Slug,
			Status:     models.StatusUnlocked,
		}
		if err := progressRepo.Create(row); err != nil {
			return err
		}
	}
	return nil
}

func answersMatch(given, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(correct))
}

func streakDTO(record *models.StreakRecord, flags engine.StreakFlags) models.StreakDTO {
	return models.StreakDTO{
		CurrentStreak:   record.CurrentStreak,
		LongestStreak:   record.LongestStreak,
		StreakFreezes:   record.StreakFreezes,
		Maintained:      flags.Maintained,
		Lost:            flags.Lost,
		FreezeUsed:      flags.FreezeUsed,
		NewFreezeEarned: flags.NewFreezeEarned,
	}
}

func observeAnswerMetrics(isCorrect bool, xp int, flags engine.StreakFlags) {
	result := "incorrect"
	if isCorrect {
		result = "correct"
	}
	metrics.AnswersProcessed.WithLabelValues(result).Inc()
	metrics.XPGranted.Add(float64(xp))
	if flags.Lost {
		metrics.StreaksLost.Inc()
	}
	if flags.FreezeUsed {
		metrics.FreezesUsed.Inc()
	}
}
