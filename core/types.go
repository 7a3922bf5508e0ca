package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/dialogkit/logging"
)

// Utterance is a single inbound user message entering the pipeline.
//
// Utterances are channel-agnostic: adapters normalize whatever their
// transport delivers (Slack events, Teams activities, webhook forms)
// into this shape before processing starts.
type Utterance struct {
	// ID uniquely identifies the utterance.
	ID string `json:"id"`

	// Text is the raw message text as the user sent it.
	Text string `json:"text"`

	// UserID identifies the sender. Context, rate limiting and memory
	// are all keyed by this value.
	UserID string `json:"userId"`

	// SessionID groups utterances into a conversation. Optional; when
	// empty the caller decides whether to mint one.
	SessionID string `json:"sessionId,omitempty"`

	// Channel names the transport the utterance arrived on, for
	// example "web" or "slack".
	Channel string `json:"channel,omitempty"`

	// Timestamp records when the utterance was received.
	Timestamp time.Time `json:"timestamp"`

	// Metadata carries channel-specific extras (thread IDs, locale,
	// experiment flags) that handlers may want to inspect.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewUtterance creates an Utterance with a fresh ID and the current
// time. Text and userID are the only required inputs.
func NewUtterance(text, userID string) Utterance {
	return Utterance{
		ID:        uuid.NewString(),
		Text:      text,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// Entity is a typed value extracted from an utterance, for example an
// email address or a date.
type Entity struct {
	// Type names the entity kind ("email", "phone", "url", ...).
	Type string `json:"type"`

	// Value is the matched text.
	Value string `json:"value"`

	// Start and End are byte offsets of the match within the source
	// text. They are nil for extractors that report bare values
	// without positions.
	Start *int `json:"start,omitempty"`
	End   *int `json:"end,omitempty"`

	// Confidence is the extractor's certainty in [0, 1]. Pattern
	// matches leave it unset; custom extractors may report one.
	Confidence float64 `json:"confidence,omitempty"`
}

// StartOrZero returns the entity's start offset, or 0 when the
// extractor did not report positions. Sorting uses this so offset-less
// entities sort ahead of positioned ones.
func (e Entity) StartOrZero() int {
	if e.Start == nil {
		return 0
	}
	return *e.Start
}

// IntentResult is a classifier decision: the winning intent and the
// normalized confidence backing it.
type IntentResult struct {
	// Name is the winning intent, or "unknown" when nothing scored.
	Name string `json:"name"`

	// Confidence is the normalized score in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Reply is a handler's answer to a turn.
type Reply struct {
	// Text is the response shown to the user.
	Text string `json:"text"`

	// Suggestions are optional follow-up prompts the client may
	// render as quick replies.
	Suggestions []string `json:"suggestions,omitempty"`

	// Metadata carries handler-specific extras alongside the text.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Turn is the unit of work a Handler receives: the utterance together
// with everything the pipeline derived from it.
//
// Context is the conversation state as it stood BEFORE this turn was
// merged in, so handlers can distinguish "what the user just said"
// from "what we knew coming in".
type Turn struct {
	// Utterance is the inbound message that started the turn.
	Utterance Utterance

	// Intent is the classifier's decision for the utterance.
	Intent IntentResult

	// Entities are the values extracted from the utterance.
	Entities []Entity

	// Context is the per-user conversation state snapshot taken
	// before this turn updated it.
	Context map[string]any

	// loggerAdapter gives handlers structured logging scoped to the
	// pipeline's logger.
	*loggerAdapter
}

// NewTurn assembles a Turn for handler dispatch. A nil logger is
// replaced with a no-op logger.
func NewTurn(utt Utterance, intent IntentResult, entities []Entity, convContext map[string]any, logger logging.Logger) *Turn {
	return &Turn{
		Utterance:     utt,
		Intent:        intent,
		Entities:      entities,
		Context:       convContext,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// TurnResult is the pipeline's full account of one processed turn.
type TurnResult struct {
	// Message echoes the processed utterance text.
	Message string `json:"message"`

	// Intent is the winning intent name.
	Intent string `json:"intent"`

	// Confidence is the classifier's normalized confidence.
	Confidence float64 `json:"confidence"`

	// Entities are the extracted values, ordered by start offset.
	Entities []Entity `json:"entities"`

	// Context is the conversation state snapshot the turn was
	// processed against, before its own updates were merged.
	Context map[string]any `json:"context"`

	// Reply is the handler's answer, or nil when no handler was
	// registered for the intent or the handler failed.
	Reply *Reply `json:"reply,omitempty"`
}
