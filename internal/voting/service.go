package voting

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"quorum/internal/cpf"
	"quorum/internal/eligibility"
	"quorum/internal/platform/metrics"
	dErrors "quorum/pkg/domain-errors"
)

// Auditor is the eligibility side-channel as the ledger sees it: register a
// pending record once a vote is durable, then resolve it in the background.
type Auditor interface {
	RegisterPending(ctx context.Context, record eligibility.AuditRecord) error
	AuditAsync(voteID, rawCPF string)
}

// Service owns topics, sessions, and the vote ledger. It keeps orchestration
// out of handlers and domain logic thin.
type Service struct {
	store          *Store
	auditor        Auditor
	logger         *slog.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
	defaultMinutes float64
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock. Test hook.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDefaultDuration sets the session duration, in minutes, applied when a
// caller passes no usable duration.
func WithDefaultDuration(minutes float64) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.defaultMinutes = minutes
		}
	}
}

func NewService(store *Store, auditor Auditor, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		store:          store,
		auditor:        auditor,
		logger:         logger,
		metrics:        m,
		now:            time.Now,
		defaultMinutes: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTopic registers a new matter for voting. The title is required after
// trimming; topics are immutable once created.
func (s *Service) CreateTopic(ctx context.Context, title, description string) (Topic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Topic{}, dErrors.New(dErrors.CodeValidation, "topic title is required")
	}
	topic := Topic{
		ID:          "topic-" + uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	}
	err := s.store.Update(ctx, func(l *Ledger) error {
		l.Topics = append(l.Topics, topic)
		return nil
	})
	if err != nil {
		return Topic{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist topic")
	}
	s.metrics.TopicCreated()
	s.logger.InfoContext(ctx, "topic created", "topic_id", topic.ID, "title", topic.Title)
	return topic, nil
}

// ListTopics returns all topics, newest first.
func (s *Service) ListTopics(ctx context.Context) ([]Topic, error) {
	var topics []Topic
	err := s.store.View(ctx, func(l *Ledger) error {
		topics = append(topics, l.Topics...)
		return nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load topics")
	}
	sort.Slice(topics, func(i, j int) bool {
		return topics[i].CreatedAt.After(topics[j].CreatedAt)
	})
	return topics, nil
}

// OpenSession opens the single voting window of a topic. A topic gets at most
// one session for the lifetime of the store, open or closed. Non-positive or
// non-finite durations are coerced to one minute.
func (s *Service) OpenSession(ctx context.Context, topicID string, minutes float64) (Session, error) {
	if minutes <= 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		minutes = s.defaultMinutes
	}
	openedAt := s.now()
	session := Session{
		ID:       "session-" + uuid.NewString(),
		TopicID:  topicID,
		OpenedAt: openedAt,
		ClosesAt: openedAt.Add(time.Duration(minutes * float64(time.Minute))),
	}
	err := s.store.Update(ctx, func(l *Ledger) error {
		if _, ok := l.TopicByID(topicID); !ok {
			return dErrors.New(dErrors.CodeNotFound, "topic not found")
		}
		if _, ok := l.SessionByTopic(topicID); ok {
			return dErrors.New(dErrors.CodeConflict, "topic already has an open or closed session")
		}
		l.Sessions = append(l.Sessions, session)
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	s.metrics.SessionOpened()
	s.logger.InfoContext(ctx, "session opened",
		"session_id", session.ID,
		"topic_id", topicID,
		"closes_at", session.ClosesAt,
	)
	return session, nil
}

// SessionForTopic returns the session of a topic together with its derived
// open flag.
func (s *Service) SessionForTopic(ctx context.Context, topicID string) (Session, bool, error) {
	var session Session
	err := s.store.View(ctx, func(l *Ledger) error {
		found, ok := l.SessionByTopic(topicID)
		if !ok {
			return dErrors.New(dErrors.CodeNotFound, "topic has no voting session")
		}
		session = found
		return nil
	})
	if err != nil {
		return Session{}, false, err
	}
	return session, session.Open(s.now()), nil
}

// CastVote records one member's choice. Checks run in ledger order: the
// session must exist, the session must still be open, the member must not
// have voted in it, and the CPF must be real. On success the vote is
// persisted, a pending audit record is appended, and the background
// eligibility check is dispatched without being awaited.
func (s *Service) CastVote(ctx context.Context, topicID, rawCPF string, choice Choice) error {
	if !ValidChoice(choice) {
		s.metrics.VoteCast(string(dErrors.CodeValidation))
		return dErrors.New(dErrors.CodeValidation, "choice must be AFFIRM or REJECT")
	}

	digits := cpf.Digits(rawCPF)
	now := s.now()
	var vote Vote
	err := s.store.Update(ctx, func(l *Ledger) error {
		session, ok := l.SessionByTopic(topicID)
		if !ok {
			return dErrors.New(dErrors.CodeNotFound, "topic has no voting session yet")
		}
		if !session.Open(now) {
			return dErrors.New(dErrors.CodeSessionClosed, "session closed, voting is over")
		}
		if l.HasVote(session.ID, digits) {
			return dErrors.New(dErrors.CodeDuplicateVote, "member already voted on this topic")
		}
		if !cpf.IsValid(digits) {
			return dErrors.New(dErrors.CodeInvalidIdentity, "invalid CPF: a real CPF is required")
		}
		vote = Vote{
			ID:        "vote-" + uuid.NewString(),
			SessionID: session.ID,
			TopicID:   topicID,
			CPF:       digits,
			Choice:    choice,
			CreatedAt: now,
		}
		l.Votes = append(l.Votes, vote)
		return nil
	})
	if err != nil {
		s.metrics.VoteCast(string(dErrors.CodeOf(err)))
		return err
	}

	// The vote is durable from here on. Audit bookkeeping failing must not
	// turn an accepted vote into an error.
	record := eligibility.AuditRecord{
		CPF:       digits,
		TopicID:   topicID,
		SessionID: vote.SessionID,
		VoteID:    vote.ID,
	}
	if err := s.auditor.RegisterPending(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "failed to register eligibility audit record",
			"vote_id", vote.ID,
			"error", err.Error(),
		)
	} else {
		s.auditor.AuditAsync(vote.ID, digits)
	}

	s.metrics.VoteCast("accepted")
	s.logger.InfoContext(ctx, "vote accepted",
		"vote_id", vote.ID,
		"session_id", vote.SessionID,
		"topic_id", topicID,
		"choice", string(choice),
	)
	return nil
}

// Tally counts the votes of a topic's session. The result is recomputed from
// the full vote set on every call; the open flag is derived from the clock,
// never stored.
func (s *Service) Tally(ctx context.Context, topicID string) (Tally, error) {
	var tally Tally
	now := s.now()
	err := s.store.View(ctx, func(l *Ledger) error {
		session, ok := l.SessionByTopic(topicID)
		if !ok {
			return dErrors.New(dErrors.CodeNotFound, "topic has no voting session")
		}
		tally = Tally{
			SessionID: session.ID,
			TopicID:   topicID,
			Open:      session.Open(now),
		}
		for _, v := range l.Votes {
			if v.SessionID != session.ID {
				continue
			}
			tally.Total++
			switch v.Choice {
			case ChoiceAffirm:
				tally.Affirm++
			case ChoiceReject:
				tally.Reject++
			}
		}
		return nil
	})
	if err != nil {
		return Tally{}, err
	}
	return tally, nil
}
