package testutil

import (
	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// TurnBuilder provides a fluent helper for constructing turns in tests.
// Example:
//
//	turn := NewTurnBuilder().Text("hello").Intent("greeting").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type TurnBuilder struct {
	text        string
	userID      string
	sessionID   string
	channel     string
	intent      string
	confidence  float64
	entities    []core.Entity
	convContext map[string]any
	logger      logging.Logger
}

// NewTurnBuilder creates a builder with default user "user-1" and full
// classification confidence.
func NewTurnBuilder() *TurnBuilder {
	return &TurnBuilder{
		text:       "hello",
		userID:     "user-1",
		intent:     "unknown",
		confidence: 1,
	}
}

// Text sets the utterance text (chainable).
func (b *TurnBuilder) Text(t string) *TurnBuilder { b.text = t; return b }

// User sets the user ID on the underlying utterance (chainable).
func (b *TurnBuilder) User(id string) *TurnBuilder { b.userID = id; return b }

// Session sets the session ID on the underlying utterance (chainable).
func (b *TurnBuilder) Session(id string) *TurnBuilder { b.sessionID = id; return b }

// Channel sets the channel name on the underlying utterance (chainable).
func (b *TurnBuilder) Channel(ch string) *TurnBuilder { b.channel = ch; return b }

// Intent sets the classified intent name (chainable).
func (b *TurnBuilder) Intent(name string) *TurnBuilder { b.intent = name; return b }

// Confidence overrides the default classification confidence of 1 (chainable).
func (b *TurnBuilder) Confidence(c float64) *TurnBuilder { b.confidence = c; return b }

// Entity appends an entity without offsets (chainable).
func (b *TurnBuilder) Entity(entityType, value string) *TurnBuilder {
	b.entities = append(b.entities, core.Entity{Type: entityType, Value: value, Confidence: 1})
	return b
}

// EntityAt appends an entity with start and end offsets (chainable).
func (b *TurnBuilder) EntityAt(entityType, value string, start, end int) *TurnBuilder {
	b.entities = append(b.entities, core.Entity{
		Type:       entityType,
		Value:      value,
		Start:      &start,
		End:        &end,
		Confidence: 1,
	})
	return b
}

// Context sets one conversation context key (chainable).
func (b *TurnBuilder) Context(key string, val any) *TurnBuilder {
	if b.convContext == nil {
		b.convContext = map[string]any{}
	}
	b.convContext[key] = val
	return b
}

// Logger sets the turn logger; tests usually leave it nil (chainable).
func (b *TurnBuilder) Logger(l logging.Logger) *TurnBuilder { b.logger = l; return b }

// Build constructs the *core.Turn value. The context map is always
// non-nil so handlers can read from it without guarding.
func (b *TurnBuilder) Build() *core.Turn {
	utt := core.NewUtterance(b.text, b.userID)
	utt.SessionID = b.sessionID
	utt.Channel = b.channel

	convContext := b.convContext
	if convContext == nil {
		convContext = map[string]any{}
	}

	return core.NewTurn(
		utt,
		core.IntentResult{Name: b.intent, Confidence: b.confidence},
		b.entities,
		convContext,
		b.logger,
	)
}
