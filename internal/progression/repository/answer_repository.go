package repository

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/pokerpath/backend/internal/common/errors"
	"github.com/pokerpath/backend/internal/progression/models"
)

// AnswerRepository persists answer history and backs submission dedup.
type AnswerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

func (r *AnswerRepository) Create(record *models.AnswerRecord) error {
	if result := r.db.Create(record); result.Error != nil {
		return apperrors.Internal("failed to create answer record", result.Error.Error())
	}
	return nil
}

// FindByKey returns the previously recorded answer for an idempotency key,
// or nil when the key is unseen.
func (r *AnswerRepository) FindByKey(key string) (*models.AnswerRecord, error) {
	if key == "" {
		return nil, nil
	}
	var record models.AnswerRecord
	result := r.db.Where("idempotency_key = ?", key).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to fetch answer record", result.Error.Error())
	}
	return &record, nil
}

// DeletePlacementAnswers clears placement answer history for a reset.
func (r *AnswerRepository) DeletePlacementAnswers(userID uint) error {
	result := r.db.Where("user_id = ? AND is_placement = ?", userID, true).
		Delete(&models.AnswerRecord{})
	if result.Error != nil {
		return apperrors.Internal("failed to delete placement answers", result.Error.Error())
	}
	return nil
}

// PlacementRepository persists placement attempts.
type PlacementRepository struct {
	db *gorm.DB
}

func NewPlacementRepository(db *gorm.DB) *PlacementRepository {
	return &PlacementRepository{db: db}
}

func (r *PlacementRepository) Create(attempt *models.PlacementAttempt) error {
	if result := r.db.Create(attempt); result.Error != nil {
		return apperrors.Internal("failed to create placement attempt", result.Error.Error())
	}
	return nil
}

func (r *PlacementRepository) DeleteByUser(userID uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&models.PlacementAttempt{})
	if result.Error != nil {
		return apperrors.Internal("failed to delete placement attempts", result.Error.Error())
	}
	return nil
}
