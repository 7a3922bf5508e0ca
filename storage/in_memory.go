package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/dialogkit/core"
)

// Compile-time check that InMemoryStore satisfies core.ConversationStore.
var _ core.ConversationStore = (*InMemoryStore)(nil)

// InMemoryStore is a slice-backed core.ConversationStore for tests,
// examples and single-process prototypes. It enforces no retention
// limits; for production use SQLStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []core.Record
	nextID  int64
}

// NewInMemoryStore returns an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

// Save persists one processed turn, assigning it the next record ID. A
// zero timestamp is stamped with the current time.
func (s *InMemoryStore) Save(_ context.Context, rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	s.records = append(s.records, rec)

	return nil
}

// UserHistory returns up to limit of the user's most recent turns,
// newest first. limit <= 0 means no limit.
func (s *InMemoryStore) UserHistory(_ context.Context, userID string, limit int) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []core.Record{}
	for _, rec := range s.records {
		if rec.UserID == userID {
			matched = append(matched, rec)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID > matched[j].ID
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

// SessionHistory returns the session's turns, oldest first.
func (s *InMemoryStore) SessionHistory(_ context.Context, sessionID string) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []core.Record{}
	for _, rec := range s.records {
		if rec.SessionID == sessionID {
			matched = append(matched, rec)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.Before(matched[j].Timestamp)
		}
		return matched[i].ID < matched[j].ID
	})

	return matched, nil
}
