package eligibility

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quorum/internal/platform/metrics"
	"quorum/internal/storage"
	dErrors "quorum/pkg/domain-errors"
)

const validCPF = "52998224725"

type stubClient struct {
	status Status
	err    error
	calls  int
}

func (c *stubClient) Check(_ context.Context, _ string) (Status, error) {
	c.calls++
	return c.status, c.err
}

func newTestService(client Client) (*Service, *AuditStore) {
	store := NewAuditStore(storage.NewMemory())
	svc := NewService(client, store, slog.New(slog.DiscardHandler), metrics.New())
	return svc, store
}

func TestCheckIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid checksum rejected before any remote call", func(t *testing.T) {
		client := &stubClient{status: StatusEligible}
		svc, _ := newTestService(client)
		_, err := svc.CheckIdentity(ctx, "11111111111")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidIdentity))
		assert.Zero(t, client.calls)
	})

	t.Run("no endpoint defaults to eligible", func(t *testing.T) {
		svc, _ := newTestService(nil)
		status, err := svc.CheckIdentity(ctx, validCPF)
		require.NoError(t, err)
		assert.Equal(t, StatusEligible, status)
	})

	t.Run("remote answer is passed through", func(t *testing.T) {
		svc, _ := newTestService(&stubClient{status: StatusIneligible})
		status, err := svc.CheckIdentity(ctx, validCPF)
		require.NoError(t, err)
		assert.Equal(t, StatusIneligible, status)
	})

	t.Run("remote failure fails open", func(t *testing.T) {
		svc, _ := newTestService(&stubClient{err: ErrRemote})
		status, err := svc.CheckIdentity(ctx, validCPF)
		require.NoError(t, err)
		assert.Equal(t, StatusEligible, status)
	})
}

func TestRegisterPending(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(nil)

	require.NoError(t, svc.RegisterPending(ctx, AuditRecord{
		CPF:       "529.982.247-25",
		TopicID:   "topic-1",
		SessionID: "session-1",
		VoteID:    "vote-1",
	}))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, validCPF, records[0].CPF, "stored as bare digits")
	assert.Equal(t, StatusPending, records[0].Status)
	assert.False(t, records[0].CreatedAt.IsZero())
	assert.Equal(t, records[0].CreatedAt, records[0].UpdatedAt)
}

func TestAuditAsync(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc *Service) {
		t.Helper()
		require.NoError(t, svc.RegisterPending(ctx, AuditRecord{CPF: validCPF, VoteID: "vote-1"}))
	}

	statusAfterAudit := func(t *testing.T, svc *Service, store *AuditStore) Status {
		t.Helper()
		svc.AuditAsync("vote-1", validCPF)
		svc.Wait()
		records, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		return records[0].Status
	}

	t.Run("remote eligible resolves the record", func(t *testing.T) {
		svc, store := newTestService(&stubClient{status: StatusEligible})
		register(t, svc)
		assert.Equal(t, StatusEligible, statusAfterAudit(t, svc, store))
	})

	t.Run("remote ineligible is recorded without touching the vote", func(t *testing.T) {
		svc, store := newTestService(&stubClient{status: StatusIneligible})
		register(t, svc)
		assert.Equal(t, StatusIneligible, statusAfterAudit(t, svc, store))
	})

	t.Run("remote failure records ERROR instead of staying pending", func(t *testing.T) {
		svc, store := newTestService(&stubClient{err: ErrRemote})
		register(t, svc)
		assert.Equal(t, StatusError, statusAfterAudit(t, svc, store))
	})

	t.Run("no endpoint resolves to eligible", func(t *testing.T) {
		svc, store := newTestService(nil)
		register(t, svc)
		assert.Equal(t, StatusEligible, statusAfterAudit(t, svc, store))
	})

	t.Run("unknown vote id does not panic", func(t *testing.T) {
		svc, _ := newTestService(&stubClient{status: StatusEligible})
		svc.AuditAsync("vote-unknown", validCPF)
		svc.Wait()
	})
}
