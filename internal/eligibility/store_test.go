package eligibility

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quorum/internal/storage"
	"quorum/pkg/platform/sentinel"
)

func TestAuditStore(t *testing.T) {
	ctx := context.Background()

	record := func(voteID string) AuditRecord {
		return AuditRecord{
			CPF:       "52998224725",
			TopicID:   "topic-1",
			SessionID: "session-1",
			VoteID:    voteID,
			Status:    StatusPending,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	t.Run("append and list keep insertion order", func(t *testing.T) {
		store := NewAuditStore(storage.NewMemory())
		require.NoError(t, store.Append(ctx, record("vote-1")))
		require.NoError(t, store.Append(ctx, record("vote-2")))

		records, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "vote-1", records[0].VoteID)
		assert.Equal(t, "vote-2", records[1].VoteID)
	})

	t.Run("set status updates only the matching record", func(t *testing.T) {
		store := NewAuditStore(storage.NewMemory())
		require.NoError(t, store.Append(ctx, record("vote-1")))
		require.NoError(t, store.Append(ctx, record("vote-2")))

		at := time.Now().Add(time.Second)
		require.NoError(t, store.SetStatus(ctx, "vote-2", StatusEligible, at))

		records, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, records[0].Status)
		assert.Equal(t, StatusEligible, records[1].Status)
		assert.WithinDuration(t, at, records[1].UpdatedAt, time.Millisecond)
	})

	t.Run("set status on unknown vote id", func(t *testing.T) {
		store := NewAuditStore(storage.NewMemory())
		err := store.SetStatus(ctx, "vote-missing", StatusError, time.Now())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("corrupt audit document treated as empty", func(t *testing.T) {
		kv := storage.NewMemory()
		require.NoError(t, kv.Set(ctx, "quorum:eligibility-audit:v1", []byte("[broken")))
		store := NewAuditStore(kv)
		records, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
