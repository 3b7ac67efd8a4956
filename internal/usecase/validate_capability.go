package usecase

import (
	"context"
	"errors"
	"time"

	"docflow/internal/domain"
)

// ValidateCapability answers the unauthenticated pre-signing check the
// remote device performs before rendering the signature pad. Beyond the
// cryptographic check it consults the ledger, so consumed or unissued
// tokens read as invalid here even while their JWT is still unexpired.
type ValidateCapability struct {
	Tokens TokenService
	Ledger TokenLedger
	Clock  func() time.Time
}

func (uc *ValidateCapability) Execute(ctx context.Context, tok string) (*domain.SignatureGrant, error) {
	grant, err := uc.Tokens.Validate(tok)
	if err != nil {
		return nil, err
	}
	entry, err := uc.Ledger.Get(ctx, uc.Tokens.Hash(tok))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if entry.UsedAt != nil {
		return nil, domain.ErrInvalidToken
	}
	if uc.now().After(entry.ExpiresAt) {
		return nil, domain.ErrInvalidToken
	}
	return &grant, nil
}

func (uc *ValidateCapability) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock().UTC()
	}
	return time.Now().UTC()
}
