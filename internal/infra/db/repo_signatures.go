package db

import (
	"context"
	"errors"

	"docflow/internal/domain"

	"gorm.io/gorm"
)

type SignatureRepository struct {
	db *gorm.DB
}

func NewSignatureRepository(db *gorm.DB) *SignatureRepository {
	return &SignatureRepository{db: db}
}

func (r *SignatureRepository) GetBySlot(ctx context.Context, documentID, slotName string) (*domain.DocumentSignature, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model DocumentSignatureModel
	err := r.db.WithContext(ctx).
		First(&model, "document_id = ? AND slot_name = ?", documentID, slotName).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	sig := signatureFromModel(model)
	return &sig, nil
}

func (r *SignatureRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.DocumentSignature, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []DocumentSignatureModel
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("signed_at").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.DocumentSignature, 0, len(models))
	for _, model := range models {
		out = append(out, signatureFromModel(model))
	}
	return out, nil
}

// Create inserts the signed-slot row and marks the redeemed token used in
// one transaction. The unique index on (document_id, slot_name) is the
// serialization point: a loser of a concurrent race gets ErrAlreadySigned
// here, not a duplicate row.
func (r *SignatureRepository) Create(ctx context.Context, sig domain.DocumentSignature, tokenHash string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := DocumentSignatureModel{
		ID:                sig.ID,
		DocumentID:        sig.DocumentID,
		SlotName:          sig.SlotName,
		SignedByUserID:    sig.SignedByUserID,
		SignatureImageRef: sig.SignatureImageRef,
		SignedAsName:      sig.SignedAsName,
		Status:            sig.Status,
		SignedAt:          sig.SignedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if tokenHash == "" {
			return nil
		}
		return tx.Model(&SignatureTokenModel{}).
			Where("token_hash = ? AND used_at IS NULL", tokenHash).
			Update("used_at", sig.SignedAt).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadySigned
		}
		return err
	}
	return nil
}

func signatureFromModel(model DocumentSignatureModel) domain.DocumentSignature {
	return domain.DocumentSignature{
		ID:                model.ID,
		DocumentID:        model.DocumentID,
		SlotName:          model.SlotName,
		SignedByUserID:    model.SignedByUserID,
		SignatureImageRef: model.SignatureImageRef,
		SignedAsName:      model.SignedAsName,
		Status:            model.Status,
		SignedAt:          model.SignedAt,
	}
}
