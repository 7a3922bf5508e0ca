package core

import "context"

// Classifier decides which intent an utterance expresses.
type Classifier interface {
	// Classify scores text against the known intents and returns the
	// winner. convContext is the caller's conversation state and may
	// be nil; classifiers may use it for continuity signals such as
	// the previous intent.
	Classify(text string, convContext map[string]any) IntentResult
}

// Extractor pulls typed entities out of an utterance.
type Extractor interface {
	// Extract returns all entities found in text, ordered by start
	// offset. intent is the classified intent for the utterance and
	// may be empty; extractors may use it to scope custom lookups.
	Extract(text, intent string) []Entity
}

// ContextStore keeps per-user conversation state with a freshness
// window. Entries expire lazily: an entry older than the store's TTL
// is dropped the next time it is read or checked.
//
// Implementations must be safe for concurrent use. They guard their
// own internals only; callers that need read-modify-write atomicity
// across calls for one user must serialize those calls themselves.
type ContextStore interface {
	// Get returns a copy of the user's context and refreshes its
	// freshness window. Unknown or expired users yield an empty map.
	Get(userID string) map[string]any

	// Update writes updates into the user's context and refreshes
	// its freshness window. With merge set, existing keys not named
	// in updates survive; otherwise the context is replaced.
	Update(userID string, updates map[string]any, merge bool)

	// SetValue sets a single key and refreshes the freshness window.
	SetValue(userID, key string, value any)

	// GetValue reads a single key without refreshing the freshness
	// window or applying expiry. The second result reports whether
	// the key was present.
	GetValue(userID, key string) (any, bool)

	// DeleteKey removes a single key without refreshing the
	// freshness window.
	DeleteKey(userID, key string)

	// Has reports whether the user currently has live, non-empty
	// context. Expiry applies; the freshness window is not refreshed.
	Has(userID string) bool

	// Clear removes the user's context entirely.
	Clear(userID string)

	// ClearAll removes all users' context.
	ClearAll()

	// ListUsers returns the IDs of users with stored context,
	// including entries that have expired but not yet been swept.
	ListUsers() []string
}

// Handler produces the reply for a processed turn.
//
// Handlers are registered per intent; the pipeline dispatches each
// turn to the handler registered for its winning intent. A handler
// error is soft: the pipeline logs it and returns the turn result
// without a reply.
type Handler interface {
	// Handle answers the turn. Returning a nil Reply with a nil
	// error means the handler deliberately stayed silent.
	Handle(ctx context.Context, turn *Turn) (*Reply, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, turn *Turn) (*Reply, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, turn *Turn) (*Reply, error) {
	return f(ctx, turn)
}

// Compile-time check that HandlerFunc satisfies Handler.
var _ Handler = (HandlerFunc)(nil)

// RateLimiter decides whether an identity may take another turn.
type RateLimiter interface {
	// Allow reports whether id may proceed and, if so, records the
	// attempt. A denied attempt must not consume quota.
	Allow(ctx context.Context, id string) bool

	// Remaining returns how many attempts id has left in the current
	// window.
	Remaining(ctx context.Context, id string) int
}

// Verdict is a safety filter's judgement of a piece of text.
type Verdict struct {
	// Safe reports whether the text passed all checks.
	Safe bool `json:"safe"`

	// Flags names the checks that matched ("blocked_content",
	// "toxic_language", "possible_pii", ...). Informational flags may
	// be present on safe text.
	Flags []string `json:"flags,omitempty"`

	// Filtered is the replacement text to use when Safe is false.
	Filtered string `json:"filtered,omitempty"`
}

// SafetyFilter screens utterance text before it is processed.
type SafetyFilter interface {
	// Check inspects text and returns a verdict.
	Check(text string) Verdict
}

// ConversationMemory is short-term, session-scoped message history.
type ConversationMemory interface {
	// StoreMessage appends a message to the session's history.
	StoreMessage(ctx context.Context, sessionID string, msg Message) error

	// History returns up to limit of the most recent messages in the
	// session, oldest first. limit <= 0 means no limit.
	History(ctx context.Context, sessionID string, limit int) ([]Message, error)

	// Clear drops the session's history.
	Clear(ctx context.Context, sessionID string) error
}

// ConversationStore is long-term, queryable turn storage.
type ConversationStore interface {
	// Save persists one processed turn.
	Save(ctx context.Context, rec Record) error

	// UserHistory returns up to limit of the user's most recent
	// turns, newest first. limit <= 0 means no limit.
	UserHistory(ctx context.Context, userID string, limit int) ([]Record, error)

	// SessionHistory returns the session's turns, oldest first.
	SessionHistory(ctx context.Context, sessionID string) ([]Record, error)
}
