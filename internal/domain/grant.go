package domain

import "time"

// SignatureGrant is the decoded payload of a capability token: the right to
// submit exactly one signature for one slot of one document. It travels as a
// bearer token in a URL, so the serialized form must be tamper-evident.
type SignatureGrant struct {
	DocumentID    string
	SlotName      string
	SignerUserID  string
	SignerName    string
	DocumentTitle string
	ExpiresAt     time.Time
}

// GrantLedgerEntry is the persisted record of an issued token, keyed by a
// hash of the serialized token. UsedAt is set transactionally with the
// signature insert, which makes single-use auditable instead of a
// side effect of the slot-uniqueness constraint.
type GrantLedgerEntry struct {
	TokenHash    string
	DocumentID   string
	SlotName     string
	SignerUserID string
	ExpiresAt    time.Time
	UsedAt       *time.Time
	CreatedAt    time.Time
}
