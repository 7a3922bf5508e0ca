package core

import "time"

// Message roles used in conversation memory.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one entry in short-term conversation memory.
type Message struct {
	// Role identifies the speaker: RoleUser, RoleAssistant or
	// RoleSystem.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Timestamp records when the message was stored.
	Timestamp time.Time `json:"timestamp"`

	// UserID identifies the user the message belongs to.
	UserID string `json:"userId,omitempty"`

	// Intent is the classified intent for user messages, when known.
	// Summarization uses it to surface the dominant conversation topic.
	Intent string `json:"intent,omitempty"`
}

// Record is one persisted conversation turn in long-term storage.
type Record struct {
	// ID is the storage-assigned row identifier.
	ID int64 `json:"id"`

	// SessionID groups records into conversations.
	SessionID string `json:"sessionId"`

	// UserID identifies the user the turn belongs to.
	UserID string `json:"userId"`

	// Message is the user's utterance text.
	Message string `json:"message"`

	// Intent is the classified intent for the turn.
	Intent string `json:"intent"`

	// Confidence is the classifier confidence for the turn.
	Confidence float64 `json:"confidence"`

	// Response is the reply text sent back, if any.
	Response string `json:"response"`

	// Timestamp records when the turn was persisted.
	Timestamp time.Time `json:"timestamp"`
}
