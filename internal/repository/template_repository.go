// File: internal/repository/template_repository.go
package repository

import (
	"context"

	"github.com/iyunix/go-chatpal/internal/domain"
	"gorm.io/gorm"
)

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, tmpl *domain.PromptTemplate) (*domain.PromptTemplate, error) {
	if err := r.db.WithContext(ctx).Create(tmpl).Error; err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (r *templateRepository) FindByID(ctx context.Context, id uint) (*domain.PromptTemplate, error) {
	var tmpl domain.PromptTemplate
	err := r.db.WithContext(ctx).First(&tmpl, id).Error
	return &tmpl, err
}

func (r *templateRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.PromptTemplate, error) {
	var templates []domain.PromptTemplate
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("usage_count DESC").Find(&templates).Error
	return templates, err
}

func (r *templateRepository) IncrementUsage(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&domain.PromptTemplate{}).Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}

func (r *templateRepository) Delete(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.PromptTemplate{}).Error
}
