package repository

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/pokerpath/backend/internal/common/errors"
	"github.com/pokerpath/backend/internal/progression/models"
)

// StatsRepository persists per-user aggregate stats.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get returns the stats row, or nil when the user has no stats yet.
func (r *StatsRepository) Get(userID uint) (*models.UserStats, error) {
	var stats models.UserStats
	result := r.db.Where("user_id = ?", userID).First(&stats)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to fetch user stats", result.Error.Error())
	}
	return &stats, nil
}

// GetOrCreate lazily creates the stats row on first interaction.
func (r *StatsRepository) GetOrCreate(userID uint) (*models.UserStats, error) {
	stats, err := r.Get(userID)
	if err != nil {
		return nil, err
	}
	if stats != nil {
		return stats, nil
	}
	stats = &models.UserStats{UserID: userID, Level: 1}
	if result := r.db.Create(stats); result.Error != nil {
		return nil, apperrors.Internal("failed to create user stats", result.Error.Error())
	}
	return stats, nil
}

func (r *StatsRepository) Save(stats *models.UserStats) error {
	if result := r.db.Save(stats); result.Error != nil {
		return apperrors.Internal("failed to update user stats", result.Error.Error())
	}
	return nil
}

// StreakRepository persists the per-user streak record.
type StreakRepository struct {
	db *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// Get returns the streak record, or nil before the first activity.
func (r *StreakRepository) Get(userID uint) (*models.StreakRecord, error) {
	var record models.StreakRecord
	result := r.db.Where("user_id = ?", userID).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to fetch streak", result.Error.Error())
	}
	return &record, nil
}

func (r *StreakRepository) Save(record *models.StreakRecord) error {
	if result := r.db.Save(record); result.Error != nil {
		return apperrors.Internal("failed to update streak", result.Error.Error())
	}
	return nil
}
