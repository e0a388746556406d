package repository

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/pokerpath/backend/internal/common/errors"
	"github.com/pokerpath/backend/internal/progression/models"
)

// ProgressRepository persists per-user per-module progress.
type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get returns progress for one module, or nil when none exists yet.
func (r *ProgressRepository) Get(userID uint, moduleSlug string) (*models.ModuleProgress, error) {
	var progress models.ModuleProgress
	result := r.db.Where("user_id = ? AND module_slug = ?", userID, moduleSlug).First(&progress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("failed to fetch module progress", result.Error.Error())
	}
	return &progress, nil
}

// ListByUser returns every progress row for the user.
func (r *ProgressRepository) ListByUser(userID uint) ([]*models.ModuleProgress, error) {
	var rows []*models.ModuleProgress
	result := r.db.Where("user_id = ?", userID).Find(&rows)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to fetch module progress", result.Error.Error())
	}
	return rows, nil
}

// MasteredSlugs returns the slugs of every mastered module for the user.
func (r *ProgressRepository) MasteredSlugs(userID uint) ([]string, error) {
	var slugs []string
	result := r.db.Model(&models.ModuleProgress{}).
		Where("user_id = ? AND status = ?", userID, models.StatusMastered).
		Pluck("module_slug", &slugs)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to fetch mastered modules", result.Error.Error())
	}
	return slugs, nil
}

func (r *ProgressRepository) Save(progress *models.ModuleProgress) error {
	if result := r.db.Save(progress); result.Error != nil {
		return apperrors.Internal("failed to update module progress", result.Error.Error())
	}
	return nil
}

func (r *ProgressRepository) Create(progress *models.ModuleProgress) error {
	if result := r.db.Create(progress); result.Error != nil {
		return apperrors.Internal("failed to create module progress", result.Error.Error())
	}
	return nil
}

// CreateSession records a completed session.
func (r *ProgressRepository) CreateSession(session *models.SessionResult) error {
	if result := r.db.Create(session); result.Error != nil {
		return apperrors.Internal("failed to create session result", result.Error.Error())
	}
	return nil
}
