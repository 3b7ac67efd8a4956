package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"docflow/internal/domain"
)

func testGrant() domain.SignatureGrant {
	return domain.SignatureGrant{
		DocumentID:    "doc-1",
		SlotName:      "curator",
		SignerUserID:  "cur-1",
		SignerName:    "Carol Curator",
		DocumentTitle: "Internship agreement",
	}
}

func TestService_RoundTrip(t *testing.T) {
	issued := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, err := NewService([]byte("secret"), 30*time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.WithClock(func() time.Time { return issued })

	tok, minted, err := svc.Issue(testGrant())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !minted.ExpiresAt.Equal(issued.Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiry: %v", minted.ExpiresAt)
	}

	grant, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if grant.DocumentID != "doc-1" || grant.SlotName != "curator" || grant.SignerUserID != "cur-1" {
		t.Fatalf("payload mismatch: %+v", grant)
	}
	if grant.SignerName != "Carol Curator" || grant.DocumentTitle != "Internship agreement" {
		t.Fatalf("display fields lost: %+v", grant)
	}
	if !grant.ExpiresAt.Equal(minted.ExpiresAt.Truncate(time.Second)) {
		t.Fatalf("expiry drift: %v vs %v", grant.ExpiresAt, minted.ExpiresAt)
	}
}

func TestService_Expired(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	svc, _ := NewService([]byte("secret"), time.Minute)
	svc.WithClock(func() time.Time { return now })

	tok, _, err := svc.Issue(testGrant())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.WithClock(func() time.Time { return now.Add(2 * time.Minute) })
	if _, err := svc.Validate(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestService_Tampered(t *testing.T) {
	svc, _ := NewService([]byte("secret"), time.Minute)
	tok, _, err := svc.Issue(testGrant())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %s", tok)
	}
	// Swap in a payload signed by nobody.
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := svc.Validate(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestService_WrongSecret(t *testing.T) {
	mint, _ := NewService([]byte("secret-a"), time.Minute)
	check, _ := NewService([]byte("secret-b"), time.Minute)

	tok, _, err := mint.Issue(testGrant())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := check.Validate(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestService_IncompleteClaims(t *testing.T) {
	svc, _ := NewService([]byte("secret"), time.Minute)

	tok, _, err := svc.Issue(domain.SignatureGrant{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Validate(tok); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for incomplete claims, got %v", err)
	}
}

func TestService_RequiresSecret(t *testing.T) {
	if _, err := NewService(nil, time.Minute); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestHash_Stable(t *testing.T) {
	if Hash("abc") != Hash("abc") {
		t.Fatal("hash must be deterministic")
	}
	if Hash("abc") == Hash("abd") {
		t.Fatal("distinct tokens must hash apart")
	}
	if len(Hash("abc")) != 64 {
		t.Fatalf("expected hex sha256, got %q", Hash("abc"))
	}
}
