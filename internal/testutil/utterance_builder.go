package testutil

import (
	"time"

	"github.com/hupe1980/dialogkit/core"
)

// UtteranceBuilder helps construct utterances with fluent chaining for tests.
// Example:
//
//	utt := NewUtteranceBuilder("hello").User("u1").Session("sess-1").Build()
type UtteranceBuilder struct {
	text      string
	userID    string
	sessionID string
	channel   string
	id        string
	timestamp time.Time
	metadata  map[string]any
}

// NewUtteranceBuilder creates a new builder for an utterance with the given
// text and default user "user-1". Use chainable methods then call Build.
func NewUtteranceBuilder(text string) *UtteranceBuilder {
	return &UtteranceBuilder{text: text, userID: "user-1"}
}

// User sets the user ID (chainable).
func (b *UtteranceBuilder) User(id string) *UtteranceBuilder { b.userID = id; return b }

// Session sets the session ID (chainable).
func (b *UtteranceBuilder) Session(id string) *UtteranceBuilder { b.sessionID = id; return b }

// Channel sets the originating channel name (chainable).
func (b *UtteranceBuilder) Channel(ch string) *UtteranceBuilder { b.channel = ch; return b }

// ID overrides the auto-generated utterance ID (chainable). Use mainly in
// tests where determinism matters.
func (b *UtteranceBuilder) ID(id string) *UtteranceBuilder { b.id = id; return b }

// At overrides the auto-set timestamp (chainable).
func (b *UtteranceBuilder) At(ts time.Time) *UtteranceBuilder { b.timestamp = ts; return b }

// Meta sets or overwrites a metadata key/value pair (chainable).
func (b *UtteranceBuilder) Meta(key string, val any) *UtteranceBuilder {
	if b.metadata == nil {
		b.metadata = map[string]any{}
	}
	b.metadata[key] = val
	return b
}

// Build constructs the core.Utterance value.
func (b *UtteranceBuilder) Build() core.Utterance {
	utt := core.NewUtterance(b.text, b.userID)
	utt.SessionID = b.sessionID
	utt.Channel = b.channel
	utt.Metadata = b.metadata

	if b.id != "" {
		utt.ID = b.id
	}
	if !b.timestamp.IsZero() {
		utt.Timestamp = b.timestamp
	}

	return utt
}
