// Package token mints and verifies signature capability tokens. A token is
// an HS256 JWT over a process-wide secret; integrity matters, confidentiality
// does not, since tokens travel inside signing URLs.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"docflow/internal/domain"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

type grantClaims struct {
	DocumentID    string `json:"document_id"`
	SlotName      string `json:"slot_name"`
	SignerUserID  string `json:"signer_user_id"`
	SignerName    string `json:"signer_name"`
	DocumentTitle string `json:"document_title"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Service{secret: secret, ttl: ttl, now: time.Now}, nil
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Issue serializes the grant into a signed token. No server-side state is
// written here; the caller records the ledger entry.
func (s *Service) Issue(grant domain.SignatureGrant) (string, domain.SignatureGrant, error) {
	issuedAt := s.now().UTC()
	grant.ExpiresAt = issuedAt.Add(s.ttl)
	jti, err := uuid.NewV4()
	if err != nil {
		return "", domain.SignatureGrant{}, err
	}
	claims := grantClaims{
		DocumentID:    grant.DocumentID,
		SlotName:      grant.SlotName,
		SignerUserID:  grant.SignerUserID,
		SignerName:    grant.SignerName,
		DocumentTitle: grant.DocumentTitle,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(grant.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.SignatureGrant{}, err
	}
	return signed, grant, nil
}

// Validate verifies signature and expiry. Malformed, tampered, and expired
// tokens all collapse into ErrInvalidToken.
func (s *Service) Validate(tok string) (domain.SignatureGrant, error) {
	var claims grantClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return domain.SignatureGrant{}, domain.ErrInvalidToken
	}
	if claims.DocumentID == "" || claims.SlotName == "" || claims.SignerUserID == "" {
		return domain.SignatureGrant{}, domain.ErrInvalidToken
	}
	grant := domain.SignatureGrant{
		DocumentID:    claims.DocumentID,
		SlotName:      claims.SlotName,
		SignerUserID:  claims.SignerUserID,
		SignerName:    claims.SignerName,
		DocumentTitle: claims.DocumentTitle,
	}
	if claims.ExpiresAt != nil {
		grant.ExpiresAt = claims.ExpiresAt.Time
	}
	return grant, nil
}

// Hash is the ledger key for a serialized token.
func Hash(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}

func (s *Service) Hash(tok string) string {
	return Hash(tok)
}
