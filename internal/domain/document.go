package domain

import "time"

type DocumentStatus string

const (
	DocumentStatusSubmitted   DocumentStatus = "submitted"
	DocumentStatusUnderReview DocumentStatus = "under_review"
	DocumentStatusApproved    DocumentStatus = "approved"
	DocumentStatusRejected    DocumentStatus = "rejected"
	DocumentStatusFullySigned DocumentStatus = "fully_signed"
)

type Document struct {
	ID               string
	TemplateID       string
	Title            string
	StudentID        string
	GroupID          *string
	Status           DocumentStatus
	StorageRef       *string
	OriginalFilename string
	ContentType      string
	ReviewerID       *string
	ReviewComment    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RequiredSignature is one entry of a template's required-signatures list.
// The role doubles as the slot name.
type RequiredSignature struct {
	Role string `json:"role"`
}

type DocumentTemplate struct {
	ID                 string
	Name               string
	RequiredSignatures []RequiredSignature
	IsActive           bool
	CreatedAt          time.Time
}

// HasSlot reports whether slotName is part of the template's
// required-signatures list.
func (t DocumentTemplate) HasSlot(slotName string) bool {
	for _, rs := range t.RequiredSignatures {
		if rs.Role == slotName {
			return true
		}
	}
	return false
}

const SignatureStatusSigned = "signed"

// DocumentSignature is the signed record for one slot. At most one row
// exists per (DocumentID, SlotName); the storage layer enforces this.
type DocumentSignature struct {
	ID                string
	DocumentID        string
	SlotName          string
	SignedByUserID    string
	SignatureImageRef string
	SignedAsName      string
	Status            string
	SignedAt          time.Time
}

type SlotStatus struct {
	DocumentID   string
	SlotName     string
	Signed       bool
	SignedAt     *time.Time
	SignedByName string
}

// CompletionState is the aggregate view of a document's required slots.
type CompletionState struct {
	DocumentID    string
	Status        DocumentStatus
	RequiredSlots []string
	SignedSlots   []string
	MissingSlots  []string
}

func (c CompletionState) Complete() bool {
	return len(c.RequiredSlots) > 0 && len(c.MissingSlots) == 0
}
