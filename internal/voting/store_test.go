package voting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quorum/internal/storage"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store yields empty ledger", func(t *testing.T) {
		store := NewStore(storage.NewMemory())
		require.NoError(t, store.View(ctx, func(l *Ledger) error {
			assert.Empty(t, l.Topics)
			assert.Empty(t, l.Sessions)
			assert.Empty(t, l.Votes)
			return nil
		}))
	})

	t.Run("corrupt document yields empty ledger", func(t *testing.T) {
		kv := storage.NewMemory()
		require.NoError(t, kv.Set(ctx, "quorum:ledger:v1", []byte("}{")))
		store := NewStore(kv)
		require.NoError(t, store.View(ctx, func(l *Ledger) error {
			assert.Empty(t, l.Topics)
			return nil
		}))
	})

	t.Run("update persists across store instances", func(t *testing.T) {
		kv := storage.NewMemory()
		store := NewStore(kv)
		require.NoError(t, store.Update(ctx, func(l *Ledger) error {
			l.Topics = append(l.Topics, Topic{ID: "topic-1", Title: "t", CreatedAt: time.Now()})
			return nil
		}))

		reopened := NewStore(kv)
		require.NoError(t, reopened.View(ctx, func(l *Ledger) error {
			require.Len(t, l.Topics, 1)
			assert.Equal(t, "topic-1", l.Topics[0].ID)
			return nil
		}))
	})

	t.Run("failing update leaves document untouched", func(t *testing.T) {
		store := NewStore(storage.NewMemory())
		boom := errors.New("boom")
		err := store.Update(ctx, func(l *Ledger) error {
			l.Topics = append(l.Topics, Topic{ID: "topic-1"})
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.NoError(t, store.View(ctx, func(l *Ledger) error {
			assert.Empty(t, l.Topics)
			return nil
		}))
	})
}

func TestLedgerLookups(t *testing.T) {
	ledger := &Ledger{
		Topics:   []Topic{{ID: "topic-1"}},
		Sessions: []Session{{ID: "session-1", TopicID: "topic-1"}},
		Votes:    []Vote{{ID: "vote-1", SessionID: "session-1", CPF: "52998224725"}},
	}

	_, ok := ledger.TopicByID("topic-1")
	assert.True(t, ok)
	_, ok = ledger.TopicByID("topic-2")
	assert.False(t, ok)

	session, ok := ledger.SessionByTopic("topic-1")
	assert.True(t, ok)
	assert.Equal(t, "session-1", session.ID)
	_, ok = ledger.SessionByTopic("topic-2")
	assert.False(t, ok)

	assert.True(t, ledger.HasVote("session-1", "52998224725"))
	assert.False(t, ledger.HasVote("session-1", "15350946056"))
	assert.False(t, ledger.HasVote("session-2", "52998224725"))
}

func TestSessionOpen(t *testing.T) {
	deadline := time.Date(2026, 3, 14, 10, 1, 0, 0, time.UTC)
	session := Session{ClosesAt: deadline}

	assert.True(t, session.Open(deadline.Add(-time.Second)))
	assert.False(t, session.Open(deadline), "a session is closed exactly at its deadline")
	assert.False(t, session.Open(deadline.Add(time.Second)))
}
