package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"docflow/internal/domain"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

type SubmitSignatureRequest struct {
	Token     string
	ImageData string
}

type SubmitSignatureResponse struct {
	SignatureID   string
	AlreadySigned bool
}

// SubmitSignature redeems a capability token: it decodes the captured
// image, stores it, and records the signed slot. The token payload is
// authoritative; nothing else in the request names a document or slot.
type SubmitSignature struct {
	Tokens     TokenService
	Signatures SignatureRepository
	Blobs      BlobStore
	Completion *CompletionTracker
	Log        *zap.Logger
	Clock      func() time.Time
}

func (uc *SubmitSignature) Execute(ctx context.Context, req SubmitSignatureRequest) (*SubmitSignatureResponse, error) {
	grant, err := uc.Tokens.Validate(req.Token)
	if err != nil {
		return nil, err
	}

	// A slot that is already signed answers a benign acknowledgment, so a
	// legitimate double-submit is indistinguishable from a replay by
	// design. The ledger keeps the audit trail either way.
	existing, err := uc.Signatures.GetBySlot(ctx, grant.DocumentID, grant.SlotName)
	if err == nil {
		return &SubmitSignatureResponse{SignatureID: existing.ID, AlreadySigned: true}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	contentType, data, ext, err := decodeImageData(req.ImageData)
	if err != nil {
		return nil, err
	}

	// Running without a storage client reads as a storage outage, not a
	// panic: the capture cannot be persisted either way.
	if uc.Blobs == nil {
		return nil, domain.ErrStorageUnavailable
	}

	signedAt := uc.now()
	filename := fmt.Sprintf("signature_%s_%s_%d.%s", grant.DocumentID, grant.SlotName, signedAt.Unix(), ext)
	blobID, err := uc.Blobs.Upload(ctx, data, filename, contentType)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	sig := domain.DocumentSignature{
		ID:                id.String(),
		DocumentID:        grant.DocumentID,
		SlotName:          grant.SlotName,
		SignedByUserID:    grant.SignerUserID,
		SignatureImageRef: blobID,
		SignedAsName:      grant.SignerName,
		Status:            domain.SignatureStatusSigned,
		SignedAt:          signedAt,
	}
	if err := uc.Signatures.Create(ctx, sig, uc.Tokens.Hash(req.Token)); err != nil {
		if errors.Is(err, domain.ErrAlreadySigned) {
			// Lost a concurrent race on the unique constraint; answer with
			// the row that won.
			if winner, lookupErr := uc.Signatures.GetBySlot(ctx, grant.DocumentID, grant.SlotName); lookupErr == nil {
				return &SubmitSignatureResponse{SignatureID: winner.ID, AlreadySigned: true}, nil
			}
			return nil, err
		}
		return nil, err
	}

	if uc.Completion != nil {
		if err := uc.Completion.Recompute(ctx, grant.DocumentID); err != nil && uc.Log != nil {
			uc.Log.Warn("completion recompute failed",
				zap.String("document_id", grant.DocumentID),
				zap.Error(err))
		}
	}

	return &SubmitSignatureResponse{SignatureID: sig.ID}, nil
}

func (uc *SubmitSignature) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock().UTC()
	}
	return time.Now().UTC()
}

// decodeImageData parses a data-URL style payload: <mime>;base64,<data>,
// with an optional leading "data:". Structural failures and undecodable
// base64 are distinct errors, and both fire before any storage I/O.
func decodeImageData(imageData string) (contentType string, data []byte, ext string, err error) {
	parts := strings.SplitN(imageData, ";base64,", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", nil, "", domain.ErrInvalidImageFormat
	}
	contentType = strings.TrimPrefix(parts[0], "data:")
	if contentType == "" || !strings.Contains(contentType, "/") {
		return "", nil, "", domain.ErrInvalidImageFormat
	}
	data, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, "", domain.ErrInvalidImageData
	}
	ext = contentType[strings.LastIndex(contentType, "/")+1:]
	if ext == "" {
		ext = "png"
	}
	return contentType, data, ext, nil
}
