package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/pokerpath/backend/internal/common/errors"
	"github.com/pokerpath/backend/internal/progression/models"
)

// AchievementRepository reads the immutable catalog and records unlocks.
type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Catalog returns every achievement definition.
func (r *AchievementRepository) Catalog() ([]models.Achievement, error) {
	var catalog []models.Achievement
	result := r.db.Order("id ASC").Find(&catalog)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to fetch achievement catalog", result.Error.Error())
	}
	return catalog, nil
}

// UnlockedSet returns the IDs of achievements the user already holds.
func (r *AchievementRepository) UnlockedSet(userID uint) (map[uint]bool, error) {
	var ids []uint
	result := r.db.Model(&models.UnlockedAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to fetch unlocked achievements", result.Error.Error())
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// Unlock inserts the unlock row if absent. The unique user+achievement
// index makes re-running harmless; it reports whether this call inserted.
func (r *AchievementRepository) Unlock(userID, achievementID uint) (bool, error) {
	row := models.UnlockedAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return false, apperrors.Internal("failed to unlock achievement", result.Error.Error())
	}
	return result.RowsAffected > 0, nil
}

// ListUnlocked returns the user's unlocks with definitions preloaded.
func (r *AchievementRepository) ListUnlocked(userID uint) ([]*models.UnlockedAchievement, error) {
	var rows []*models.UnlockedAchievement
	result := r.db.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to fetch unlocked achievements", result.Error.Error())
	}
	return rows, nil
}
