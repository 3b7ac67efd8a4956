package usecase

import (
	"context"
	"errors"
	"net/url"
	"time"

	"docflow/internal/domain"
)

type IssueCapabilityRequest struct {
	Principal  domain.Principal
	DocumentID string
	SlotName   string
}

type IssueCapabilityResponse struct {
	Token        string
	SignatureURL string
	ExpiresAt    time.Time
}

// IssueCapability is the slot authorization engine plus token issuance:
// it decides whether the requesting principal may obtain a signing
// capability for a (document, slot) pair and, on grant, mints the token
// and records it in the ledger.
type IssueCapability struct {
	Documents  DocumentRepository
	Templates  TemplateRepository
	Signatures SignatureRepository
	Groups     GroupRepository
	Users      UserRepository
	Policy     domain.SignerPolicy
	Tokens     TokenService
	Ledger     TokenLedger

	PublicBaseURL string
	Clock         func() time.Time
}

func (uc *IssueCapability) Execute(ctx context.Context, req IssueCapabilityRequest) (*IssueCapabilityResponse, error) {
	doc, err := uc.Documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	tpl, err := uc.Templates.GetByID(ctx, doc.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tpl.HasSlot(req.SlotName) {
		return nil, domain.ErrInvalidSlot
	}

	// Completed slots never get a fresh capability.
	if _, err := uc.Signatures.GetBySlot(ctx, req.DocumentID, req.SlotName); err == nil {
		return nil, domain.ErrAlreadySigned
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Authorization always re-reads the user row; the session claim may be
	// stale with respect to role changes or deactivation.
	user, err := uc.Users.GetByID(ctx, req.Principal.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	if !domain.SignableRoles[req.SlotName] {
		return nil, domain.ErrForbidden
	}

	curates := false
	if user.Role == domain.RoleCurator {
		curates, err = uc.Groups.CuratesStudent(ctx, user.ID, doc.StudentID)
		if err != nil {
			return nil, err
		}
	}
	eligible, err := uc.Policy.Eligible(ctx, domain.EligibilityInput{
		Role:         string(user.Role),
		SlotName:     req.SlotName,
		CuratesGroup: curates,
	})
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domain.ErrForbidden
	}

	tok, grant, err := uc.Tokens.Issue(domain.SignatureGrant{
		DocumentID:    doc.ID,
		SlotName:      req.SlotName,
		SignerUserID:  user.ID,
		SignerName:    user.FullName,
		DocumentTitle: doc.Title,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.Ledger.Record(ctx, domain.GrantLedgerEntry{
		TokenHash:    uc.Tokens.Hash(tok),
		DocumentID:   grant.DocumentID,
		SlotName:     grant.SlotName,
		SignerUserID: grant.SignerUserID,
		ExpiresAt:    grant.ExpiresAt,
		CreatedAt:    uc.now(),
	}); err != nil {
		return nil, err
	}

	return &IssueCapabilityResponse{
		Token:        tok,
		SignatureURL: uc.PublicBaseURL + "/sign?token=" + url.QueryEscape(tok),
		ExpiresAt:    grant.ExpiresAt,
	}, nil
}

func (uc *IssueCapability) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock().UTC()
	}
	return time.Now().UTC()
}
