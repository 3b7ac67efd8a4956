// Package auth verifies bearer session credentials issued by the main
// application login and extracts the acting principal.
package auth

import (
	"context"
	"errors"

	"docflow/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// SessionAuthenticator validates HS256 session JWTs whose subject is the
// user id. It is the process boundary to the identity layer; role checks
// happen downstream against the store.
type SessionAuthenticator struct {
	secret []byte
}

func NewSessionAuthenticator(secret []byte) (*SessionAuthenticator, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	return &SessionAuthenticator{secret: secret}, nil
}

func (a *SessionAuthenticator) Authenticate(_ context.Context, bearerToken string) (domain.Principal, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(bearerToken, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	if claims.Subject == "" || claims.Role == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return domain.Principal{
		UserID:   claims.Subject,
		Role:     domain.Role(claims.Role),
		FullName: claims.FullName,
	}, nil
}
