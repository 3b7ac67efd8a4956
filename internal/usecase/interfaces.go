package usecase

import (
	"context"
	"io"

	"docflow/internal/domain"
)

type DocumentRepository interface {
	GetByID(ctx context.Context, documentID string) (*domain.Document, error)
	SetStatus(ctx context.Context, documentID string, status domain.DocumentStatus) error
}

type TemplateRepository interface {
	GetByID(ctx context.Context, templateID string) (*domain.DocumentTemplate, error)
}

type SignatureRepository interface {
	GetBySlot(ctx context.Context, documentID, slotName string) (*domain.DocumentSignature, error)
	ListByDocument(ctx context.Context, documentID string) ([]domain.DocumentSignature, error)
	Create(ctx context.Context, sig domain.DocumentSignature, tokenHash string) error
}

type TokenLedger interface {
	Record(ctx context.Context, entry domain.GrantLedgerEntry) error
	Get(ctx context.Context, tokenHash string) (*domain.GrantLedgerEntry, error)
}

type GroupRepository interface {
	CuratesStudent(ctx context.Context, curatorID, studentID string) (bool, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

type TokenService interface {
	Issue(grant domain.SignatureGrant) (string, domain.SignatureGrant, error)
	Validate(token string) (domain.SignatureGrant, error)
	Hash(token string) string
}

type BlobStore interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
	Download(ctx context.Context, blobID string) (io.ReadCloser, string, error)
}
