package contextstore

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// DefaultTTL is the freshness window applied when none is configured.
const DefaultTTL = time.Hour

// Compile-time check that Store satisfies core.ContextStore.
var _ core.ContextStore = (*Store)(nil)

// Options configures the store.
type Options struct {
	// TTL is the freshness window. Zero or negative disables expiry.
	TTL time.Duration

	// Logger receives expiry debug output.
	Logger logging.Logger

	// Now supplies the current time. Overridable for tests.
	Now func() time.Time
}

// Store is an in-memory core.ContextStore with lazy TTL expiry. It is
// safe for concurrent use; the lock guards the internal maps only, so
// callers needing read-modify-write atomicity for one user across
// calls must serialize those calls themselves.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	logger  logging.Logger
	now     func() time.Time
}

type entry struct {
	data    map[string]any
	touched time.Time
}

// New creates a Store with a one hour TTL.
func New(optFns ...func(o *Options)) *Store {
	opts := Options{
		TTL:    DefaultTTL,
		Logger: logging.NoOpLogger{},
		Now:    time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Store{
		entries: make(map[string]*entry),
		ttl:     opts.TTL,
		logger:  opts.Logger,
		now:     opts.Now,
	}
}

func (s *Store) expired(ent *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(ent.touched) > s.ttl
}

// Get returns a copy of the user's context and refreshes the freshness
// window. Unknown and expired users yield an empty map; no entry is
// created for them.
func (s *Store) Get(userID string) map[string]any {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[userID]
	if !ok {
		return map[string]any{}
	}

	if s.expired(ent, now) {
		delete(s.entries, userID)
		s.logger.Debug("context expired", "user_id", userID)
		return map[string]any{}
	}

	ent.touched = now

	return maps.Clone(ent.data)
}

// Update writes updates into the user's context and refreshes the
// freshness window. With merge set, keys not named in updates survive
// unless the entry had already expired; without merge the context is
// replaced wholesale. The store copies updates, so callers keep
// ownership of the map they pass in.
func (s *Store) Update(userID string, updates map[string]any, merge bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[userID]
	if !ok || !merge || s.expired(ent, now) {
		ent = &entry{data: make(map[string]any, len(updates))}
		s.entries[userID] = ent
	}

	maps.Copy(ent.data, updates)
	ent.touched = now
}

// SetValue sets one key in the user's context and refreshes the
// freshness window. An expired entry is dropped first, so the new key
// never resurrects stale state.
func (s *Store) SetValue(userID, key string, value any) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[userID]
	if !ok || s.expired(ent, now) {
		ent = &entry{data: make(map[string]any, 1)}
		s.entries[userID] = ent
	}

	ent.data[key] = value
	ent.touched = now
}

// GetValue reads one key without refreshing the freshness window and
// without applying expiry. The second result reports presence.
func (s *Store) GetValue(userID, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entries[userID]
	if !ok {
		return nil, false
	}

	value, ok := ent.data[key]

	return value, ok
}

// DeleteKey removes one key without refreshing the freshness window.
func (s *Store) DeleteKey(userID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[userID]; ok {
		delete(ent.data, key)
	}
}

// Has reports whether the user currently holds live, non-empty
// context. Expiry applies but the check neither refreshes the window
// nor drops the expired entry.
func (s *Store) Has(userID string) bool {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entries[userID]
	if !ok || s.expired(ent, now) {
		return false
	}

	return len(ent.data) > 0
}

// Clear removes the user's context entirely.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
}

// ClearAll removes all users' context.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*entry)
}

// ListUsers returns the IDs of users with stored context. Expired
// entries that have not been swept by an access still appear.
func (s *Store) ListUsers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Collect(maps.Keys(s.entries))
}
