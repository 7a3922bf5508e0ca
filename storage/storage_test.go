package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dialogkit/core"
)

func seedRecords(t *testing.T, store core.ConversationStore) {
	t.Helper()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []core.Record{
		{SessionID: "s1", UserID: "u1", Message: "Hello!", Intent: "greeting", Confidence: 1, Response: "Hi there!", Timestamp: base},
		{SessionID: "s1", UserID: "u1", Message: "I need help", Intent: "help", Confidence: 1, Response: "Sure.", Timestamp: base.Add(time.Minute)},
		{SessionID: "s2", UserID: "u1", Message: "Goodbye", Intent: "farewell", Confidence: 1, Response: "Bye!", Timestamp: base.Add(2 * time.Minute)},
		{SessionID: "s3", UserID: "u2", Message: "What is this?", Intent: "question", Confidence: 0.67, Response: "A demo.", Timestamp: base.Add(3 * time.Minute)},
	}

	for _, rec := range records {
		require.NoError(t, store.Save(context.Background(), rec))
	}
}

func testConversationStore(t *testing.T, store core.ConversationStore) {
	t.Helper()

	ctx := context.Background()
	seedRecords(t, store)

	t.Run("user history newest first", func(t *testing.T) {
		history, err := store.UserHistory(ctx, "u1", 0)
		require.NoError(t, err)

		require.Len(t, history, 3)
		assert.Equal(t, "Goodbye", history[0].Message)
		assert.Equal(t, "I need help", history[1].Message)
		assert.Equal(t, "Hello!", history[2].Message)
	})

	t.Run("user history limit", func(t *testing.T) {
		history, err := store.UserHistory(ctx, "u1", 2)
		require.NoError(t, err)

		require.Len(t, history, 2)
		assert.Equal(t, "Goodbye", history[0].Message)
	})

	t.Run("user history unknown user", func(t *testing.T) {
		history, err := store.UserHistory(ctx, "nobody", 10)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("session history oldest first", func(t *testing.T) {
		history, err := store.SessionHistory(ctx, "s1")
		require.NoError(t, err)

		require.Len(t, history, 2)
		assert.Equal(t, "Hello!", history[0].Message)
		assert.Equal(t, "I need help", history[1].Message)
		assert.Equal(t, "greeting", history[0].Intent)
		assert.InDelta(t, 1.0, history[0].Confidence, 1e-9)
	})

	t.Run("record ids assigned", func(t *testing.T) {
		history, err := store.SessionHistory(ctx, "s1")
		require.NoError(t, err)

		for _, rec := range history {
			assert.NotZero(t, rec.ID)
		}
	})
}

func TestInMemoryStore(t *testing.T) {
	testConversationStore(t, NewInMemoryStore())
}

func TestSQLStore(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	testConversationStore(t, store)
}

func TestSQLStoreOnDisk(t *testing.T) {
	path := t.TempDir() + "/conversations.db"

	store, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), core.Record{
		SessionID: "s1", UserID: "u1", Message: "persisted", Intent: "greeting",
	}))
	require.NoError(t, store.Close())

	// Reopen and read back.
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	history, err := reopened.SessionHistory(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "persisted", history[0].Message)
	assert.False(t, history[0].Timestamp.IsZero(), "zero timestamps are stamped on save")
}

func TestInMemoryStoreTimestampTieBreak(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, msg := range []string{"first", "second", "third"} {
		require.NoError(t, store.Save(ctx, core.Record{
			SessionID: "s1", UserID: "u1", Message: msg, Timestamp: ts,
		}))
	}

	newest, err := store.UserHistory(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, "third", newest[0].Message, "equal timestamps fall back to insertion order")

	oldest, err := store.SessionHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "first", oldest[0].Message)
}
