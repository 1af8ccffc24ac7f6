package eligibility

import (
	"context"
	"sync"
	"time"

	"quorum/internal/storage"
	"quorum/pkg/platform/sentinel"
)

// auditKey is the fixed document key holding the audit list.
const auditKey = "quorum:eligibility-audit:v1"

// AuditStore persists the audit list as one JSON document in the KV
// collaborator. Every mutation is a whole-document read-modify-write; the
// internal mutex serializes writers within this process so concurrent updates
// cannot overwrite each other.
type AuditStore struct {
	mu sync.Mutex
	kv storage.KV
}

func NewAuditStore(kv storage.KV) *AuditStore {
	return &AuditStore{kv: kv}
}

func (s *AuditStore) load(ctx context.Context) ([]AuditRecord, error) {
	var records []AuditRecord
	if err := storage.LoadDocument(ctx, s.kv, auditKey, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Append adds a record to the audit list.
func (s *AuditStore) Append(ctx context.Context, record AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	records = append(records, record)
	return storage.SaveDocument(ctx, s.kv, auditKey, records)
}

// SetStatus updates the record belonging to voteID. Returns
// sentinel.ErrNotFound when no record carries that vote id.
func (s *AuditStore) SetStatus(ctx context.Context, voteID string, status Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range records {
		if records[i].VoteID == voteID {
			records[i].Status = status
			records[i].UpdatedAt = at
			found = true
		}
	}
	if !found {
		return sentinel.ErrNotFound
	}
	return storage.SaveDocument(ctx, s.kv, auditKey, records)
}

// List returns all audit records in insertion order.
func (s *AuditStore) List(ctx context.Context) ([]AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}
