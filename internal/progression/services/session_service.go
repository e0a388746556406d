package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	contentrepo "github.com/pokerpath/backend/internal/content/repository"
	"github.com/pokerpath/backend/internal/progression/engine"
	"github.com/pokerpath/backend/internal/progression/models"
	"github.com/pokerpath/backend/internal/progression/repository"
)

// SessionService applies end-of-session summaries. Its completion check
// routes through the same status authority as the per-answer path.
type SessionService struct {
	db           *gorm.DB
	logger       *zap.Logger
	achievements *AchievementService
}

func NewSessionService(db *gorm.DB, logger *zap.Logger, achievements *AchievementService) *SessionService {
	return &SessionService{db: db, logger: logger, achievements: achievements}
}

// CompleteSession records the session and applies the session-level
// completion channel to module status.
func (s *SessionService) CompleteSession(userID uint, req models.CompleteSessionRequest) (*models.CompleteSessionResponse, error) {
	if _, err := contentrepo.NewModuleRepository(s.db).GetBySlug(req.ModuleSlug); err != nil {
		return nil, err
	}

	accuracy := float64(req.CorrectAnswers) / float64(req.TotalQuestions) * 100

	var response models.CompleteSessionResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		progressRepo := repository.NewProgressRepository(repository.WithRowLock(tx))

		progress, err := progressRepo.Get(userID, req.ModuleSlug)
		if err != nil {
			return err
		}
		if progress == nil {
			progress = &models.ModuleProgress{
				UserID:     userID,
				ModuleSlug: req.ModuleSlug,
				Status:     models.StatusUnlocked,
			}
		}

		result := engine.ApplySession(progress, req.TotalQuestions, req.CorrectAnswers)
		if err := progressRepo.Save(progress); err != nil {
			return err
		}

		session := &models.SessionResult{
			UserID:         userID,
			ModuleSlug:     req.ModuleSlug,
			TotalQuestions: req.TotalQuestions,
			CorrectAnswers: req.CorrectAnswers,
			Accuracy:       accuracy,
		}
		if err := progressRepo.CreateSession(session); err != nil {
			return err
		}

		response = models.CompleteSessionResponse{
			Accuracy:     accuracy,
			ModuleStatus: result.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.achievements.Enqueue(userID)
	return &response, nil
}
