package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// Compile-time check that RedisStore satisfies core.ConversationMemory.
var _ core.ConversationMemory = (*RedisStore)(nil)

// RedisOptions configures RedisStore.
type RedisOptions struct {
	// TTL is reapplied to the session list on every write. Zero or
	// negative keeps sessions until cleared.
	TTL time.Duration

	// Logger receives read-degradation warnings.
	Logger logging.Logger
}

// storedMessage is the wire form persisted in the session list. It is
// decoupled from core.Message so the stored JSON stays stable even if
// the API-facing tags change.
type storedMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
	Intent    string    `json:"intent,omitempty"`
}

// RedisStore keeps session history in a redis list, one JSON document
// per message, under session:{id}:messages. Writes refresh the list
// TTL. Reads degrade to an empty history when redis is unreachable, so
// a flaky cache never fails a turn.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewRedisStore creates a RedisStore on the given client with a one
// hour TTL.
func NewRedisStore(client *redis.Client, optFns ...func(o *RedisOptions)) *RedisStore {
	opts := RedisOptions{
		TTL:    DefaultTTL,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &RedisStore{
		client: client,
		ttl:    opts.TTL,
		logger: opts.Logger,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:messages", sessionID)
}

// StoreMessage appends msg to the session list and refreshes its TTL.
func (s *RedisStore) StoreMessage(ctx context.Context, sessionID string, msg core.Message) error {
	stored := storedMessage{
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		UserID:    msg.UserID,
		Intent:    msg.Intent,
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	key := sessionKey(sessionID)

	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("store message: %w", err)
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			s.logger.Warn("session expire failed", "session_id", sessionID, "error", err)
		}
	}

	return nil
}

// History returns up to limit of the session's most recent messages,
// oldest first. limit <= 0 returns everything. Redis errors degrade to
// an empty history, and entries that fail to decode are skipped, both
// with a log line.
func (s *RedisStore) History(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	raw, err := s.client.LRange(ctx, sessionKey(sessionID), start, -1).Result()
	if err != nil {
		s.logger.Error("session history read failed", "session_id", sessionID, "error", err)
		return []core.Message{}, nil
	}

	messages := make([]core.Message, 0, len(raw))

	for _, item := range raw {
		var stored storedMessage
		if err := json.Unmarshal([]byte(item), &stored); err != nil {
			s.logger.Warn("skipping malformed message", "session_id", sessionID, "error", err)
			continue
		}

		messages = append(messages, core.Message{
			Role:      stored.Role,
			Content:   stored.Content,
			Timestamp: stored.Timestamp,
			UserID:    stored.UserID,
			Intent:    stored.Intent,
		})
	}

	return messages, nil
}

// Clear drops the session's history.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	return nil
}
