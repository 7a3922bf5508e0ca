package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/dialogkit/logging"
)

// Compile-time check that Web satisfies Adapter.
var _ Adapter = (*Web)(nil)

// WebOptions configures the web adapter.
type WebOptions struct {
	// Logger receives delivery debug lines.
	Logger logging.Logger
}

// Web adapts the JSON payloads of a web chat frontend. Delivery is a
// no-op: the HTTP layer returns the reply in the response body itself.
type Web struct {
	logger logging.Logger
}

// NewWeb creates a web adapter.
func NewWeb(optFns ...func(o *WebOptions)) *Web {
	opts := WebOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Web{logger: opts.Logger}
}

// Name returns "web".
func (w *Web) Name() string { return "web" }

type webPayload struct {
	Message   string         `json:"message"`
	UserID    string         `json:"user_id"`
	SessionID string         `json:"session_id"`
	Metadata  map[string]any `json:"metadata"`
}

// Normalize decodes a {message, user_id, session_id, metadata} JSON
// payload.
func (w *Web) Normalize(payload []byte) (Inbound, error) {
	var p webPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return Inbound{}, fmt.Errorf("decode web payload: %w", err)
	}

	return Inbound{
		Text:      p.Message,
		UserID:    p.UserID,
		SessionID: p.SessionID,
		Channel:   w.Name(),
		Metadata:  p.Metadata,
	}, nil
}

// Send reports success without doing anything; web replies travel in
// the HTTP response.
func (w *Web) Send(_ context.Context, recipient, _ string, _ map[string]any) error {
	w.logger.Debug("web reply delivered in response", "recipient", recipient)
	return nil
}
