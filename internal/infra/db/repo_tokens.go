package db

import (
	"context"
	"errors"

	"docflow/internal/domain"

	"gorm.io/gorm"
)

// TokenRepository is the signature_tokens ledger: every issued capability is
// recorded by token hash, and redemption stamps used_at.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Record(ctx context.Context, entry domain.GrantLedgerEntry) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := SignatureTokenModel{
		TokenHash:    entry.TokenHash,
		DocumentID:   entry.DocumentID,
		SlotName:     entry.SlotName,
		SignerUserID: entry.SignerUserID,
		ExpiresAt:    entry.ExpiresAt,
		UsedAt:       entry.UsedAt,
		CreatedAt:    entry.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *TokenRepository) Get(ctx context.Context, tokenHash string) (*domain.GrantLedgerEntry, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model SignatureTokenModel
	err := r.db.WithContext(ctx).First(&model, "token_hash = ?", tokenHash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.GrantLedgerEntry{
		TokenHash:    model.TokenHash,
		DocumentID:   model.DocumentID,
		SlotName:     model.SlotName,
		SignerUserID: model.SignerUserID,
		ExpiresAt:    model.ExpiresAt,
		UsedAt:       model.UsedAt,
		CreatedAt:    model.CreatedAt,
	}, nil
}
