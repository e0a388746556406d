package services

import (
	"gorm.io/gorm"

	contentrepo "github.com/pokerpath/backend/internal/content/repository"
	"github.com/pokerpath/backend/internal/progression/engine"
	"github.com/pokerpath/backend/internal/progression/models"
	"github.com/pokerpath/backend/internal/progression/repository"
)

// StatsService serves read-only progress snapshots.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// GetStats returns the user's aggregate snapshot.
func (s *StatsService) GetStats(userID uint) (*models.UserStatsResponse, error) {
	stats, err := repository.NewStatsRepository(s.db).GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	streak, err := repository.NewStreakRepository(s.db).Get(userID)
	if err != nil {
		return nil, err
	}

	accuracy := 0.0
	if stats.TotalQuestions > 0 {
		accuracy = float64(stats.TotalCorrect) / float64(stats.TotalQuestions) * 100
	}

	response := &models.UserStatsResponse{
		TotalXP:            stats.TotalXP,
		Level:              stats.Level,
		XPToNextLevel:      engine.XPToNextLevel(stats.TotalXP, stats.Level),
		TotalQuestions:     stats.TotalQuestions,
		TotalCorrect:       stats.TotalCorrect,
		Accuracy:           accuracy,
		PlacementCompleted: stats.PlacementCompleted,
	}
	if streak != nil {
		response.Streak = models.StreakDTO{
			CurrentStreak: streak.CurrentStreak,
			LongestStreak: streak.LongestStreak,
			StreakFreezes: streak.StreakFreezes,
		}
	}
	return response, nil
}

// GetProgress returns per-module progress rows.
func (s *StatsService) GetProgress(userID uint) ([]*models.ModuleProgress, error) {
	return repository.NewProgressRepository(s.db).ListByUser(userID)
}

// GetAchievements returns the catalog annotated with the user's unlocks.
func (s *StatsService) GetAchievements(userID uint) ([]models.AchievementWithStatus, error) {
	achievementRepo := repository.NewAchievementRepository(s.db)
	catalog, err := achievementRepo.Catalog()
	if err != nil {
		return nil, err
	}
	unlocked, err := achievementRepo.ListUnlocked(userID)
	if err != nil {
		return nil, err
	}

	unlockedAt := make(map[uint]*models.UnlockedAchievement, len(unlocked))
	for _, u := range unlocked {
		unlockedAt[u.AchievementID] = u
	}

	result := make([]models.AchievementWithStatus, 0, len(catalog))
	for _, a := range catalog {
		entry := models.AchievementWithStatus{Achievement: a}
		if u, ok := unlockedAt[a.ID]; ok {
			entry.Unlocked = true
			at := u.UnlockedAt
			entry.UnlockedAt = &at
		}
		result = append(result, entry)
	}
	return result, nil
}

// GetModules returns the ordered curriculum with each module's lock state
// for the user.
func (s *StatsService) GetModules(userID uint) ([]models.ModuleWithProgress, error) {
	modules, err := contentrepo.NewModuleRepository(s.db).List()
	if err != nil {
		return nil, err
	}
	progress, err := repository.NewProgressRepository(s.db).ListByUser(userID)
	if err != nil {
		return nil, err
	}

	byModule := make(map[string]*models.ModuleProgress, len(progress))
	for _, p := range progress {
		byModule[p.ModuleSlug] = p
	}

	result := make([]models.ModuleWithProgress, 0, len(modules))
	for _, m := range modules {
		entry := models.ModuleWithProgress{
			Slug:       m.Slug,
			Title:      m.Title,
			Position:   m.Position,
			XPRequired: m.XPRequired,
			Status:     models.StatusLocked,
		}
		if p, ok := byModule[m.Slug]; ok {
			entry.Status = p.Status
			entry.MasteryScore = p.MasteryScore
		}
		result = append(result, entry)
	}
	return result, nil
}
