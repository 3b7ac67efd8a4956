package usecase

import (
	"context"

	"docflow/internal/domain"
)

// CompletionTracker aggregates slot signatures against a template's
// required-signatures list. Recompute runs after every successful capture
// and is a no-op on an already complete document.
type CompletionTracker struct {
	Documents  DocumentRepository
	Templates  TemplateRepository
	Signatures SignatureRepository
}

func (t *CompletionTracker) State(ctx context.Context, documentID string) (*domain.CompletionState, error) {
	doc, err := t.Documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	tpl, err := t.Templates.GetByID(ctx, doc.TemplateID)
	if err != nil {
		return nil, err
	}
	sigs, err := t.Signatures.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	signed := make(map[string]bool, len(sigs))
	signedSlots := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		if !signed[sig.SlotName] {
			signed[sig.SlotName] = true
			signedSlots = append(signedSlots, sig.SlotName)
		}
	}
	required := make([]string, 0, len(tpl.RequiredSignatures))
	missing := make([]string, 0)
	for _, rs := range tpl.RequiredSignatures {
		required = append(required, rs.Role)
		if !signed[rs.Role] {
			missing = append(missing, rs.Role)
		}
	}
	return &domain.CompletionState{
		DocumentID:    documentID,
		Status:        doc.Status,
		RequiredSlots: required,
		SignedSlots:   signedSlots,
		MissingSlots:  missing,
	}, nil
}

func (t *CompletionTracker) Recompute(ctx context.Context, documentID string) error {
	state, err := t.State(ctx, documentID)
	if err != nil {
		return err
	}
	if !state.Complete() {
		return nil
	}
	return t.Documents.SetStatus(ctx, documentID, domain.DocumentStatusFullySigned)
}
