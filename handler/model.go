package handler

import (
	"context"
	"fmt"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/internal/util"
	"github.com/hupe1980/dialogkit/logging"
	"github.com/hupe1980/dialogkit/model"
)

// DefaultSystemPrompt frames model-backed replies when no custom
// prompt is configured.
const DefaultSystemPrompt = "You are a helpful assistant for a conversational service. Answer concisely and stay on topic."

// Compile-time check that Model satisfies core.Handler.
var _ core.Handler = (*Model)(nil)

// ModelOptions configures a Model handler.
type ModelOptions struct {
	// System is the system prompt. It is rendered as a Go template
	// against the turn's context snapshot before each call.
	System string

	// Memory, when set, supplies recent session history to the model.
	Memory core.ConversationMemory

	// HistoryLimit caps how many past messages are replayed.
	HistoryLimit int

	// Logger receives render and history warnings.
	Logger logging.Logger
}

// Model answers turns by calling a language model, optionally replaying
// recent session history so the model sees the conversation so far.
type Model struct {
	model        model.Model
	system       string
	memory       core.ConversationMemory
	historyLimit int
	logger       logging.Logger
}

// NewModel creates a Model handler on the given model.
func NewModel(m model.Model, optFns ...func(o *ModelOptions)) *Model {
	opts := ModelOptions{
		System:       DefaultSystemPrompt,
		HistoryLimit: 10,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		model:        m,
		system:       opts.System,
		memory:       opts.Memory,
		historyLimit: opts.HistoryLimit,
		logger:       opts.Logger,
	}
}

// Handle generates a reply from the model. Failures propagate to the
// caller; the pipeline treats them as a missing reply rather than a
// failed turn.
func (h *Model) Handle(ctx context.Context, turn *core.Turn) (*core.Reply, error) {
	system, err := util.RenderTemplate(h.system, turn.Context)
	if err != nil {
		h.logger.Warn("system prompt render failed", "error", err)
		system = h.system
	}

	req := model.Request{System: system}

	if h.memory != nil && turn.Utterance.SessionID != "" {
		history, err := h.memory.History(ctx, turn.Utterance.SessionID, h.historyLimit)
		if err != nil {
			h.logger.Warn("session history load failed", "session_id", turn.Utterance.SessionID, "error", err)
		}

		for _, msg := range history {
			switch msg.Role {
			case core.RoleUser, core.RoleAssistant:
				req.Messages = append(req.Messages, model.Message{Role: msg.Role, Content: msg.Content})
			}
		}
	}

	req.Messages = append(req.Messages, model.Message{Role: core.RoleUser, Content: turn.Utterance.Text})

	resp, err := h.model.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	reply := &core.Reply{
		Text: resp.Text,
		Metadata: map[string]any{
			"model":  h.model.Info().Name,
			"intent": turn.Intent.Name,
		},
	}

	if resp.Usage != nil {
		reply.Metadata["total_tokens"] = resp.Usage.TotalTokens
	}

	return reply, nil
}
