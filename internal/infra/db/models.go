package db

import "time"

type UserModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FullName  string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Role      string    `gorm:"index;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type GroupModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CuratorID string    `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (GroupModel) TableName() string { return "groups" }

type GroupMemberModel struct {
	ID        int64     `gorm:"primaryKey"`
	GroupID   string    `gorm:"type:uuid;uniqueIndex:idx_group_student;not null"`
	StudentID string    `gorm:"type:uuid;uniqueIndex:idx_group_student;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (GroupMemberModel) TableName() string { return "group_members" }

type DocumentTemplateModel struct {
	ID                 string    `gorm:"type:uuid;primaryKey"`
	Name               string    `gorm:"not null"`
	RequiredSignatures []byte    `gorm:"type:jsonb;not null"`
	IsActive           bool      `gorm:"not null;default:true"`
	CreatedAt          time.Time `gorm:"not null"`
}

func (DocumentTemplateModel) TableName() string { return "document_templates" }

type DocumentModel struct {
	ID               string  `gorm:"type:uuid;primaryKey"`
	TemplateID       string  `gorm:"type:uuid;index;not null"`
	Title            string  `gorm:"not null"`
	StudentID        string  `gorm:"type:uuid;index;not null"`
	GroupID          *string `gorm:"type:uuid;index"`
	Status           string  `gorm:"index;not null"`
	StorageRef       *string `gorm:"type:uuid"`
	OriginalFilename string
	ContentType      string
	ReviewerID       *string `gorm:"type:uuid"`
	ReviewComment    string
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

func (DocumentModel) TableName() string { return "documents" }

// DocumentSignatureModel carries the composite unique index that keeps the
// at-most-one-signature-per-slot invariant under concurrent submits.
type DocumentSignatureModel struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	DocumentID        string    `gorm:"type:uuid;uniqueIndex:idx_document_slot;not null"`
	SlotName          string    `gorm:"uniqueIndex:idx_document_slot;not null"`
	SignedByUserID    string    `gorm:"type:uuid;index;not null"`
	SignatureImageRef string    `gorm:"type:uuid;not null"`
	SignedAsName      string    `gorm:"not null"`
	Status            string    `gorm:"not null"`
	SignedAt          time.Time `gorm:"not null"`
}

func (DocumentSignatureModel) TableName() string { return "document_signatures" }

type SignatureTokenModel struct {
	TokenHash    string    `gorm:"size:64;primaryKey"`
	DocumentID   string    `gorm:"type:uuid;index;not null"`
	SlotName     string    `gorm:"not null"`
	SignerUserID string    `gorm:"type:uuid;not null"`
	ExpiresAt    time.Time `gorm:"not null"`
	UsedAt       *time.Time
	CreatedAt    time.Time `gorm:"not null"`
}

func (SignatureTokenModel) TableName() string { return "signature_tokens" }
