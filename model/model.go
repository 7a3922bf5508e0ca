package model

import (
	"context"
	"fmt"
)

// Message is one chat turn handed to a provider.
type Message struct {
	// Role is "system", "user" or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// Request captures the normalized model input produced by handlers and
// summarizers.
type Request struct {
	// System is an optional system prompt.
	System string `json:"system,omitempty"`

	// Messages is the conversation so far, oldest first. The last
	// message is the one the provider answers.
	Messages []Message `json:"messages"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a provider's completed answer.
type Response struct {
	// Text is the generated reply text.
	Text string `json:"text"`

	// FinishReason reports why generation stopped ("stop", "length",
	// provider specific values).
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage carries token statistics when the provider reports them.
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface handlers and summarizers use to drive
// text generation.
type Model interface {
	// Generate produces one completed response for the request.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Model; answers with the canned completion for the
// last message, or an echo when none is registered.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	last := req.Messages[len(req.Messages)-1].Content
	text := m.responses[last]
	if text == "" {
		text = fmt.Sprintf("Mock response to: %s", last)
	}

	return &Response{Text: text, FinishReason: "stop"}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
