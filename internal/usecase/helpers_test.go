package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"docflow/internal/domain"
)

type memDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]domain.Document
}

func newMemDocumentRepo(docs ...domain.Document) *memDocumentRepo {
	r := &memDocumentRepo{docs: make(map[string]domain.Document)}
	for _, doc := range docs {
		r.docs[doc.ID] = doc
	}
	return r
}

func (r *memDocumentRepo) GetByID(_ context.Context, documentID string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (r *memDocumentRepo) SetStatus(_ context.Context, documentID string, status domain.DocumentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	r.docs[documentID] = doc
	return nil
}

type memTemplateRepo struct {
	templates map[string]domain.DocumentTemplate
}

func newMemTemplateRepo(templates ...domain.DocumentTemplate) *memTemplateRepo {
	r := &memTemplateRepo{templates: make(map[string]domain.DocumentTemplate)}
	for _, tpl := range templates {
		r.templates[tpl.ID] = tpl
	}
	return r
}

func (r *memTemplateRepo) GetByID(_ context.Context, templateID string) (*domain.DocumentTemplate, error) {
	tpl, ok := r.templates[templateID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &tpl, nil
}

// memSignatureRepo mimics the storage layer's unique (document, slot)
// constraint so race behavior can be tested without a database.
type memSignatureRepo struct {
	mu   sync.Mutex
	rows map[string]domain.DocumentSignature
	used map[string]bool
}

func newMemSignatureRepo() *memSignatureRepo {
	return &memSignatureRepo{
		rows: make(map[string]domain.DocumentSignature),
		used: make(map[string]bool),
	}
}

func slotKey(documentID, slotName string) string {
	return documentID + ":" + slotName
}

func (r *memSignatureRepo) GetBySlot(_ context.Context, documentID, slotName string) (*domain.DocumentSignature, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sig, ok := r.rows[slotKey(documentID, slotName)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sig, nil
}

func (r *memSignatureRepo) ListByDocument(_ context.Context, documentID string) ([]domain.DocumentSignature, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.DocumentSignature, 0)
	for _, sig := range r.rows {
		if sig.DocumentID == documentID {
			out = append(out, sig)
		}
	}
	return out, nil
}

func (r *memSignatureRepo) Create(_ context.Context, sig domain.DocumentSignature, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slotKey(sig.DocumentID, sig.SlotName)
	if _, ok := r.rows[key]; ok {
		return domain.ErrAlreadySigned
	}
	r.rows[key] = sig
	if tokenHash != "" {
		r.used[tokenHash] = true
	}
	return nil
}

func (r *memSignatureRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type memTokenLedger struct {
	mu      sync.Mutex
	entries map[string]domain.GrantLedgerEntry
}

func newMemTokenLedger() *memTokenLedger {
	return &memTokenLedger{entries: make(map[string]domain.GrantLedgerEntry)}
}

func (l *memTokenLedger) Record(_ context.Context, entry domain.GrantLedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[entry.TokenHash] = entry
	return nil
}

func (l *memTokenLedger) Get(_ context.Context, tokenHash string) (*domain.GrantLedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[tokenHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

func (l *memTokenLedger) markUsed(tokenHash string, usedAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := l.entries[tokenHash]
	entry.UsedAt = &usedAt
	l.entries[tokenHash] = entry
}

type memGroupRepo struct {
	// curatorID:studentID pairs
	pairs map[string]bool
}

func newMemGroupRepo(pairs ...[2]string) *memGroupRepo {
	r := &memGroupRepo{pairs: make(map[string]bool)}
	for _, pair := range pairs {
		r.pairs[pair[0]+":"+pair[1]] = true
	}
	return r
}

func (r *memGroupRepo) CuratesStudent(_ context.Context, curatorID, studentID string) (bool, error) {
	return r.pairs[curatorID+":"+studentID], nil
}

type memUserRepo struct {
	users map[string]domain.User
}

func newMemUserRepo(users ...domain.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		r.users[user.ID] = user
	}
	return r
}

func (r *memUserRepo) GetByID(_ context.Context, userID string) (*domain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

type memBlobStore struct {
	mu      sync.Mutex
	uploads []string
	fail    error
}

func (b *memBlobStore) Upload(_ context.Context, _ []byte, filename, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return "", b.fail
	}
	b.uploads = append(b.uploads, filename)
	return "blob-" + filename, nil
}

func (b *memBlobStore) Download(_ context.Context, _ string) (io.ReadCloser, string, error) {
	return nil, "", domain.ErrNotFound
}

func (b *memBlobStore) uploadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.uploads)
}
