package db

import (
	"context"
	"errors"

	"docflow/internal/domain"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) GetByID(ctx context.Context, documentID string) (*domain.Document, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model DocumentModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", documentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	doc := documentFromModel(model)
	return &doc, nil
}

// SetStatus transitions the document to status only when it is not already
// there, which keeps completion recompute idempotent.
func (r *DocumentRepository) SetStatus(ctx context.Context, documentID string, status domain.DocumentStatus) error {
	if r.db == nil {
		return errDBUnavailable
	}
	return r.db.WithContext(ctx).
		Model(&DocumentModel{}).
		Where("id = ? AND status <> ?", documentID, string(status)).
		Update("status", string(status)).Error
}

func documentFromModel(model DocumentModel) domain.Document {
	return domain.Document{
		ID:               model.ID,
		TemplateID:       model.TemplateID,
		Title:            model.Title,
		StudentID:        model.StudentID,
		GroupID:          model.GroupID,
		Status:           domain.DocumentStatus(model.Status),
		StorageRef:       model.StorageRef,
		OriginalFilename: model.OriginalFilename,
		ContentType:      model.ContentType,
		ReviewerID:       model.ReviewerID,
		ReviewComment:    model.ReviewComment,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}
