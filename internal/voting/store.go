package voting

import (
	"context"
	"sync"

	"quorum/internal/storage"
)

// ledgerKey is the fixed document key holding topics, sessions, and votes.
const ledgerKey = "quorum:ledger:v1"

// Ledger is the persisted document: three independent record lists related by
// identifier only.
type Ledger struct {
	Topics   []Topic   `json:"topics"`
	Sessions []Session `json:"sessions"`
	Votes    []Vote    `json:"votes"`
}

// SessionByTopic returns the session opened for topicID, if any.
func (l *Ledger) SessionByTopic(topicID string) (Session, bool) {
	for _, s := range l.Sessions {
		if s.TopicID == topicID {
			return s, true
		}
	}
	return Session{}, false
}

// TopicByID returns the topic with the given id, if any.
func (l *Ledger) TopicByID(id string) (Topic, bool) {
	for _, t := range l.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// HasVote reports whether digits already voted in sessionID.
func (l *Ledger) HasVote(sessionID, digits string) bool {
	for _, v := range l.Votes {
		if v.SessionID == sessionID && v.CPF == digits {
			return true
		}
	}
	return false
}

// Store reads and writes the ledger document. Every mutation is a
// whole-document read-modify-write; the mutex is the single-writer
// serialization point that keeps check-then-act sequences (one session per
// topic, one vote per member) atomic within this process.
type Store struct {
	mu sync.Mutex
	kv storage.KV
}

func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// View runs fn against a snapshot of the ledger.
func (s *Store) View(ctx context.Context, fn func(*Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(ledger)
}

// Update runs fn against the ledger and persists the result when fn
// succeeds. fn failing leaves the stored document untouched.
func (s *Store) Update(ctx context.Context, fn func(*Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(ledger); err != nil {
		return err
	}
	return storage.SaveDocument(ctx, s.kv, ledgerKey, ledger)
}

func (s *Store) load(ctx context.Context) (*Ledger, error) {
	ledger := &Ledger{}
	if err := storage.LoadDocument(ctx, s.kv, ledgerKey, ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}
