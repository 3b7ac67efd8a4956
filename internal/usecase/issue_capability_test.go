package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"docflow/internal/domain"
	"docflow/internal/infra/policy"
	"docflow/internal/infra/token"
)

func strPtr(s string) *string { return &s }

func testFixture(t *testing.T) (*IssueCapability, *memTokenLedger, *TokenServiceForTest) {
	t.Helper()

	docs := newMemDocumentRepo(domain.Document{
		ID:         "doc-1",
		TemplateID: "tpl-1",
		Title:      "Internship agreement",
		StudentID:  "stu-1",
		GroupID:    strPtr("grp-1"),
		Status:     domain.DocumentStatusApproved,
	})
	templates := newMemTemplateRepo(domain.DocumentTemplate{
		ID:   "tpl-1",
		Name: "Internship",
		RequiredSignatures: []domain.RequiredSignature{
			{Role: "curator"},
			{Role: "dean"},
		},
		IsActive: true,
	})
	users := newMemUserRepo(
		domain.User{ID: "adm-1", FullName: "Alice Admin", Role: domain.RoleAdmin, IsActive: true},
		domain.User{ID: "cur-1", FullName: "Carol Curator", Role: domain.RoleCurator, IsActive: true},
		domain.User{ID: "cur-2", FullName: "Other Curator", Role: domain.RoleCurator, IsActive: true},
		domain.User{ID: "cur-3", FullName: "Gone Curator", Role: domain.RoleCurator, IsActive: false},
		domain.User{ID: "dean-1", FullName: "Dora Dean", Role: domain.RoleDean, IsActive: true},
		domain.User{ID: "par-1", FullName: "Pat Parent", Role: domain.RoleParent, IsActive: true},
	)
	groups := newMemGroupRepo([2]string{"cur-1", "stu-1"})

	engine, err := policy.NewEngine(context.Background())
	if err != nil {
		t.Fatalf("policy engine: %v", err)
	}
	tokens := newTestTokenService(t)
	ledger := newMemTokenLedger()

	uc := &IssueCapability{
		Documents:     docs,
		Templates:     templates,
		Signatures:    newMemSignatureRepo(),
		Groups:        groups,
		Users:         users,
		Policy:        engine,
		Tokens:        tokens.svc,
		Ledger:        ledger,
		PublicBaseURL: "https://docflow.example",
		Clock: func() time.Time {
			return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		},
	}
	return uc, ledger, tokens
}

type TokenServiceForTest struct {
	svc *token.Service
}

func newTestTokenService(t *testing.T) *TokenServiceForTest {
	t.Helper()
	svc, err := token.NewService([]byte("test-signing-secret"), 30*time.Minute)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return &TokenServiceForTest{svc: svc}
}

func issue(t *testing.T, uc *IssueCapability, principal domain.Principal, documentID, slotName string) (*IssueCapabilityResponse, error) {
	t.Helper()
	return uc.Execute(context.Background(), IssueCapabilityRequest{
		Principal:  principal,
		DocumentID: documentID,
		SlotName:   slotName,
	})
}

func TestIssueCapability_CuratorOfGroup(t *testing.T) {
	uc, ledger, tokens := testFixture(t)

	resp, err := issue(t, uc, domain.Principal{UserID: "cur-1", Role: domain.RoleCurator}, "doc-1", "curator")
	if err != nil {
		t.Fatalf("expected grant, got %v", err)
	}
	if !strings.HasPrefix(resp.SignatureURL, "https://docflow.example/sign?token=") {
		t.Fatalf("unexpected signature url: %s", resp.SignatureURL)
	}

	grant, err := tokens.svc.Validate(resp.Token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if grant.DocumentID != "doc-1" || grant.SlotName != "curator" || grant.SignerUserID != "cur-1" {
		t.Fatalf("grant payload mismatch: %+v", grant)
	}
	if grant.SignerName != "Carol Curator" {
		t.Fatalf("unexpected signer name: %s", grant.SignerName)
	}

	entry, err := ledger.Get(context.Background(), tokens.svc.Hash(resp.Token))
	if err != nil {
		t.Fatalf("ledger entry missing: %v", err)
	}
	if entry.UsedAt != nil {
		t.Fatal("fresh ledger entry must be unused")
	}
}

func TestIssueCapability_CuratorOutsideGroup(t *testing.T) {
	uc, _, _ := testFixture(t)

	_, err := issue(t, uc, domain.Principal{UserID: "cur-2", Role: domain.RoleCurator}, "doc-1", "curator")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestIssueCapability_AdminAlwaysEligible(t *testing.T) {
	uc, _, _ := testFixture(t)

	for _, slot := range []string{"curator", "dean"} {
		if _, err := issue(t, uc, domain.Principal{UserID: "adm-1", Role: domain.RoleAdmin}, "doc-1", slot); err != nil {
			t.Fatalf("admin denied slot %s: %v", slot, err)
		}
	}
}

func TestIssueCapability_UnknownDocument(t *testing.T) {
	uc, _, _ := testFixture(t)

	_, err := issue(t, uc, domain.Principal{UserID: "adm-1", Role: domain.RoleAdmin}, "doc-9", "curator")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIssueCapability_SlotOutsideTemplate(t *testing.T) {
	uc, _, _ := testFixture(t)

	_, err := issue(t, uc, domain.Principal{UserID: "adm-1", Role: domain.RoleAdmin}, "doc-1", "principal")
	if !errors.Is(err, domain.ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
}

func TestIssueCapability_SlotAlreadySigned(t *testing.T) {
	uc, _, _ := testFixture(t)

	sigs := uc.Signatures.(*memSignatureRepo)
	if err := sigs.Create(context.Background(), domain.DocumentSignature{
		ID:         "sig-1",
		DocumentID: "doc-1",
		SlotName:   "curator",
		Status:     domain.SignatureStatusSigned,
	}, ""); err != nil {
		t.Fatalf("seed signature: %v", err)
	}

	_, err := issue(t, uc, domain.Principal{UserID: "adm-1", Role: domain.RoleAdmin}, "doc-1", "curator")
	if !errors.Is(err, domain.ErrAlreadySigned) {
		t.Fatalf("expected ErrAlreadySigned, got %v", err)
	}
}

func TestIssueCapability_RoleMismatch(t *testing.T) {
	uc, _, _ := testFixture(t)

	_, err := issue(t, uc, domain.Principal{UserID: "dean-1", Role: domain.RoleDean}, "doc-1", "curator")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for dean on curator slot, got %v", err)
	}
	_, err = issue(t, uc, domain.Principal{UserID: "par-1", Role: domain.RoleParent}, "doc-1", "dean")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for parent, got %v", err)
	}
}

func TestIssueCapability_InactiveUser(t *testing.T) {
	uc, _, _ := testFixture(t)

	_, err := issue(t, uc, domain.Principal{UserID: "cur-3", Role: domain.RoleCurator}, "doc-1", "curator")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for inactive user, got %v", err)
	}
}

func TestIssueCapability_StaleSessionRole(t *testing.T) {
	uc, _, _ := testFixture(t)

	// Session claims admin but the store says parent; the store wins.
	_, err := issue(t, uc, domain.Principal{UserID: "par-1", Role: domain.RoleAdmin}, "doc-1", "dean")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
