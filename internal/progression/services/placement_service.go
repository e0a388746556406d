package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/pokerpath/backend/internal/common/errors"
	contentrepo "github.com/pokerpath/backend/internal/content/repository"
	"github.com/pokerpath/backend/internal/progression/engine"
	"github.com/pokerpath/backend/internal/progression/models"
	"github.com/pokerpath/backend/internal/progression/repository"
)

// PlacementService maps the one-time placement test to a starting state.
type PlacementService struct {
	db           *gorm.DB
	logger       *zap.Logger
	achievements *AchievementService
}

func NewPlacementService(db *gorm.DB, logger *zap.Logger, achievements *AchievementService) *PlacementService {
	return &PlacementService{db: db, logger: logger, achievements: achievements}
}

// SubmitPlacement classifies the raw score, sets (not adds) the starting
// XP, unlocks the first N modules by curriculum order, and marks the test
// completed. Runs once; a second submission is rejected.
func (s *PlacementService) SubmitPlacement(userID uint, req models.PlacementRequest) (*models.PlacementResponse, error) {
	outcome := engine.ClassifyPlacement(req.Score)

	var response models.PlacementResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		statsRepo := repository.NewStatsRepository(repository.WithRowLock(tx))

		stats, err := statsRepo.GetOrCreate(userID)
		if err != nil {
			return err
		}
		if stats.PlacementCompleted {
			return apperrors.Conflict("placement test already completed")
		}

		stats.TotalXP = outcome.XPGranted // absolute set at onboarding
		stats.Level = engine.LevelFromXP(stats.TotalXP)
		stats.PlacementCompleted = true
		if err := statsRepo.Save(stats); err != nil {
			return err
		}

		modules, err := contentrepo.NewModuleRepository(tx).FirstN(outcome.ModulesUnlocked)
		if err != nil {
			return err
		}
		progressRepo := repository.NewProgressRepository(tx)
		var unlockedSlugs []string
		for _, m := range modules {
			existing, err := progressRepo.Get(userID, m.Slug)
			if err != nil {
				return err
			}
			if existing == nil {
				row := &models.ModuleProgress{
					UserID:     userID,
					ModuleSlug: m.Slug,
					Status:     models.StatusUnlocked,
				}
				if err := progressRepo.Create(row); err != nil {
					return err
				}
			}
			unlockedSlugs = append(unlockedSlugs, m.Slug)
		}

		attempt := &models.PlacementAttempt{
			UserID:          userID,
			Score:           outcome.Score,
			LevelLabel:      outcome.LevelLabel,
			XPGranted:       outcome.XPGranted,
			ModulesUnlocked: outcome.ModulesUnlocked,
		}
		if err := repository.NewPlacementRepository(tx).Create(attempt); err != nil {
			return err
		}

		response = models.PlacementResponse{
			Score:           outcome.Score,
			LevelLabel:      outcome.LevelLabel,
			XPGranted:       outcome.XPGranted,
			ModulesUnlocked: unlockedSlugs,
			Level:           stats.Level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("placement completed",
		zap.Uint("user_id", userID),
		zap.Int("score", req.Score),
		zap.String("label", response.LevelLabel))
	s.achievements.Enqueue(userID)

	return &response, nil
}

// ResetPlacement clears the completion flag and the placement answer
// history so the test can be retaken.
func (s *PlacementService) ResetPlacement(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		statsRepo := repository.NewStatsRepository(repository.WithRowLock(tx))

		stats, err := statsRepo.Get(userID)
		if err != nil {
			return err
		}
		if stats == nil || !stats.PlacementCompleted {
			return apperrors.NotFound("placement attempt")
		}

		stats.PlacementCompleted = false
		if err := statsRepo.Save(stats); err != nil {
			return err
		}
		if err := repository.NewPlacementRepository(tx).DeleteByUser(userID); err != nil {
			return err
		}
		return repository.NewAnswerRepository(tx).DeletePlacementAnswers(userID)
	})
}
