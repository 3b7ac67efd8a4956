package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"docflow/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

func mintSession(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("mint session: %v", err)
	}
	return tok
}

func TestSessionAuthenticator(t *testing.T) {
	secret := []byte("session-secret")
	a, err := NewSessionAuthenticator(secret)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	tok := mintSession(t, secret, jwt.MapClaims{
		"sub":       "cur-1",
		"role":      "curator",
		"full_name": "Carol Curator",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	principal, err := a.Authenticate(context.Background(), tok)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.UserID != "cur-1" || principal.Role != domain.RoleCurator || principal.FullName != "Carol Curator" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestSessionAuthenticator_Rejections(t *testing.T) {
	secret := []byte("session-secret")
	a, _ := NewSessionAuthenticator(secret)

	cases := []struct {
		name string
		tok  string
	}{
		{"garbage", "garbage"},
		{"wrong secret", mintSession(t, []byte("other"), jwt.MapClaims{"sub": "u", "role": "admin"})},
		{"missing subject", mintSession(t, secret, jwt.MapClaims{"role": "admin"})},
		{"missing role", mintSession(t, secret, jwt.MapClaims{"sub": "u"})},
		{"expired", mintSession(t, secret, jwt.MapClaims{
			"sub":  "u",
			"role": "admin",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := a.Authenticate(context.Background(), tc.tok); !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestNewSessionAuthenticator_RequiresSecret(t *testing.T) {
	if _, err := NewSessionAuthenticator(nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
