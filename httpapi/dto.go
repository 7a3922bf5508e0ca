package httpapi

import (
	"time"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/evaluation"
)

// ChatRequest is the body of the chat endpoint.
type ChatRequest struct {
	// Message is the user's utterance text.
	Message string `json:"message" validate:"required"`

	// UserID identifies the sender.
	UserID string `json:"user_id" validate:"required"`

	// SessionID groups messages into a conversation. When empty the
	// server mints one and returns it in the response.
	SessionID string `json:"session_id,omitempty"`

	// Context is merged into the user's conversation state before the
	// turn runs, so callers can seed or correct what the server knows.
	Context map[string]any `json:"context,omitempty"`

	// Metadata is carried through to handlers on the utterance.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ChatIntent describes the winning intent inside a chat response.
type ChatIntent struct {
	Name       string        `json:"name"`
	Confidence float64       `json:"confidence"`
	Entities   []core.Entity `json:"entities"`
}

// ChatResponse is the body returned by the chat endpoint.
type ChatResponse struct {
	Response    string         `json:"response"`
	Intent      ChatIntent     `json:"intent"`
	Entities    []core.Entity  `json:"entities"`
	SessionID   string         `json:"session_id"`
	Confidence  float64        `json:"confidence"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationResponse is a session transcript.
type ConversationResponse struct {
	SessionID    string         `json:"session_id"`
	Messages     []core.Message `json:"messages"`
	MessageCount int            `json:"message_count"`
}

// ClearResponse acknowledges a cleared conversation.
type ClearResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// UserHistoryResponse is a user's long-term turn history.
type UserHistoryResponse struct {
	UserID  string        `json:"user_id"`
	History []core.Record `json:"history"`
	Count   int           `json:"count"`
}

// EvaluationResponse wraps one harness run.
type EvaluationResponse struct {
	Status  string            `json:"status"`
	Results evaluation.Report `json:"results"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
