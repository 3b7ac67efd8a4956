package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"docflow/internal/domain"

	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) GetByID(ctx context.Context, templateID string) (*domain.DocumentTemplate, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model DocumentTemplateModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", templateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var required []domain.RequiredSignature
	if err := json.Unmarshal(model.RequiredSignatures, &required); err != nil {
		return nil, fmt.Errorf("decode required signatures: %w", err)
	}
	return &domain.DocumentTemplate{
		ID:                 model.ID,
		Name:               model.Name,
		RequiredSignatures: required,
		IsActive:           model.IsActive,
		CreatedAt:          model.CreatedAt,
	}, nil
}
