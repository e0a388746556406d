package repository

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/pokerpath/backend/internal/common/errors"
	"github.com/pokerpath/backend/internal/content/models"
)

// QuestionRepository reads the question bank.
type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetByID fetches one question; unknown ids surface as NotFound.
func (r *QuestionRepository) GetByID(id uint) (*models.Question, error) {
	var question models.Question
	result := r.db.First(&question, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("question")
		}
		return nil, apperrors.Internal("failed to fetch question", result.Error.Error())
	}
	return &question, nil
}

// ModuleRepository reads the ordered curriculum catalog.
type ModuleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

// List returns every module in curriculum order.
func (r *ModuleRepository) List() ([]*models.Module, error) {
	var modules []*models.Module
	result := r.db.Order("position ASC").Find(&modules)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to fetch modules", result.Error.Error())
	}
	return modules, nil
}

// FirstN returns the first n modules by curriculum order.
func (r *ModuleRepository) FirstN(n int) ([]*models.Module, error) {
	var modules []*models.Module
	result := r.db.Order("position ASC").Limit(n).Find(&modules)
	if result.Error != nil {
		return nil, apperrors.Internal("failed to fetch modules", result.Error.Error())
	}
	return modules, nil
}

// GetBySlug fetches one module by slug.
func (r *ModuleRepository) GetBySlug(slug string) (*models.Module, error) {
	var module models.Module
	result := r.db.Where("slug = ?", slug).First(&module)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("module")
		}
		return nil, apperrors.Internal("failed to fetch module", result.Error.Error())
	}
	return &module, nil
}
