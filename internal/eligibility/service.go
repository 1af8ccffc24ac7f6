package eligibility

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"quorum/internal/cpf"
	"quorum/internal/platform/metrics"
	dErrors "quorum/pkg/domain-errors"
)

// Service gates votes on identity validity and maintains the eligibility
// audit trail. The synchronous gate fails open: the remote service being
// slow, broken, or absent never blocks a vote. The asynchronous audit pass
// exists purely to record a status for later reconciliation.
type Service struct {
	client  Client // nil when no endpoint is configured
	store   *AuditStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	// inflight lets tests wait for detached audits to finish.
	inflight sync.WaitGroup
}

func NewService(client Client, store *AuditStore, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		client:  client,
		store:   store,
		logger:  logger,
		metrics: m,
		timeout: DefaultTimeout,
	}
}

// CheckIdentity is the synchronous pre-vote gate. The checksum check is
// mandatory and blocking; the remote check is advisory. Remote failures
// degrade to StatusEligible.
func (s *Service) CheckIdentity(ctx context.Context, rawCPF string) (Status, error) {
	if !cpf.IsValid(rawCPF) {
		return "", dErrors.New(dErrors.CodeInvalidIdentity, "invalid CPF: a real CPF is required")
	}
	if s.client == nil {
		return StatusEligible, nil
	}
	status, err := s.client.Check(ctx, cpf.Digits(rawCPF))
	if err != nil {
		s.logger.WarnContext(ctx, "eligibility check failed open",
			"error", err.Error(),
		)
		s.metrics.EligibilityCheck(string(StatusError))
		return StatusEligible, nil
	}
	s.metrics.EligibilityCheck(string(status))
	return status, nil
}

// RegisterPending appends an audit record with StatusPending. Called after
// the vote itself has been persisted.
func (s *Service) RegisterPending(ctx context.Context, record AuditRecord) error {
	now := time.Now()
	record.CPF = cpf.Digits(record.CPF)
	record.Status = StatusPending
	record.CreatedAt = now
	record.UpdatedAt = now
	return s.store.Append(ctx, record)
}

// AuditAsync resolves the audit record for voteID in a detached goroutine.
// It is not awaited, never reports errors to the caller, and on any failure
// writes StatusError instead of leaving the record pending.
func (s *Service) AuditAsync(voteID, rawCPF string) {
	digits := cpf.Digits(rawCPF)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.audit(voteID, digits)
	}()
}

// Wait blocks until all detached audits have finished. Test hook.
func (s *Service) Wait() {
	s.inflight.Wait()
}

func (s *Service) audit(voteID, digits string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	status := StatusEligible
	if s.client != nil {
		result, err := s.client.Check(ctx, digits)
		if err != nil {
			status = StatusError
		} else {
			status = result
		}
		s.metrics.EligibilityCheck(string(status))
	}

	// The update runs on a fresh context: the record must not stay PENDING
	// just because the remote step exhausted the deadline.
	if err := s.store.SetStatus(context.Background(), voteID, status, time.Now()); err != nil {
		s.logger.Error("failed to update eligibility audit record",
			"vote_id", voteID,
			"status", string(status),
			"error", err.Error(),
		)
	}
}

// Audit lists the audit trail for reconciliation.
func (s *Service) Audit(ctx context.Context) ([]AuditRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit records")
	}
	return records, nil
}
