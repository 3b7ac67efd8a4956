package usecase

import (
	"context"
	"errors"

	"docflow/internal/domain"
)

// SlotStatusQuery backs the polling endpoint the requesting device watches
// while the remote signer works.
type SlotStatusQuery struct {
	Documents  DocumentRepository
	Signatures SignatureRepository
}

func (q *SlotStatusQuery) Execute(ctx context.Context, documentID, slotName string) (*domain.SlotStatus, error) {
	if _, err := q.Documents.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	status := &domain.SlotStatus{DocumentID: documentID, SlotName: slotName}
	sig, err := q.Signatures.GetBySlot(ctx, documentID, slotName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return status, nil
		}
		return nil, err
	}
	status.Signed = true
	status.SignedAt = &sig.SignedAt
	status.SignedByName = sig.SignedAsName
	return status, nil
}
