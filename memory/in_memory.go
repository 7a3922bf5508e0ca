package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// DefaultTTL is the session freshness window applied when none is
// configured.
const DefaultTTL = time.Hour

// Compile-time check that InMemoryStore satisfies core.ConversationMemory.
var _ core.ConversationMemory = (*InMemoryStore)(nil)

// InMemoryOptions configures InMemoryStore.
type InMemoryOptions struct {
	// TTL is the session freshness window. Zero or negative disables
	// expiry.
	TTL time.Duration

	// Logger receives expiry debug output.
	Logger logging.Logger

	// Now supplies the current time. Overridable for tests.
	Now func() time.Time
}

// InMemoryStore is a process-local core.ConversationMemory. Sessions
// expire lazily: writes refresh the freshness window and drop an
// expired history before appending, reads report expired sessions as
// empty without mutating anything. Safe for concurrent use.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	logger   logging.Logger
	now      func() time.Time
}

type session struct {
	messages []core.Message
	touched  time.Time
}

// NewInMemoryStore creates an InMemoryStore with a one hour TTL.
func NewInMemoryStore(optFns ...func(o *InMemoryOptions)) *InMemoryStore {
	opts := InMemoryOptions{
		TTL:    DefaultTTL,
		Logger: logging.NoOpLogger{},
		Now:    time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &InMemoryStore{
		sessions: make(map[string]*session),
		ttl:      opts.TTL,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

func (s *InMemoryStore) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.touched) > s.ttl
}

// StoreMessage appends msg to the session's history and refreshes the
// freshness window. An expired session is dropped first, so the new
// message starts a fresh history instead of extending a stale one.
func (s *InMemoryStore) StoreMessage(_ context.Context, sessionID string, msg core.Message) error {
	now := s.now()

	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || s.expired(sess, now) {
		sess = &session{}
		s.sessions[sessionID] = sess
	}

	sess.messages = append(sess.messages, msg)
	sess.touched = now

	return nil
}

// History returns up to limit of the session's most recent messages,
// oldest first. limit <= 0 returns everything. Unknown and expired
// sessions yield an empty history; reading neither refreshes the
// freshness window nor sweeps the expired entry.
func (s *InMemoryStore) History(_ context.Context, sessionID string, limit int) ([]core.Message, error) {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return []core.Message{}, nil
	}

	if s.expired(sess, now) {
		s.logger.Debug("session memory expired", "session_id", sessionID)
		return []core.Message{}, nil
	}

	msgs := sess.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]core.Message, len(msgs))
	copy(out, msgs)

	return out, nil
}

// Clear drops the session's history.
func (s *InMemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)

	return nil
}
