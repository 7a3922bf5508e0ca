package channel

import "context"

// Inbound is a normalized inbound message, ready to feed the pipeline.
type Inbound struct {
	// Text is the message text.
	Text string `json:"text"`

	// UserID identifies the sender in the transport's namespace.
	UserID string `json:"userId"`

	// SessionID groups the message into a conversation. Transports
	// without native sessions reuse their closest equivalent (Slack
	// channel, WhatsApp number).
	SessionID string `json:"sessionId"`

	// Channel names the transport the message arrived on.
	Channel string `json:"channel"`

	// Metadata carries transport-specific extras (thread and message
	// identifiers) for handlers and reply routing.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Adapter connects one messaging transport.
type Adapter interface {
	// Name returns the transport name ("web", "slack", ...).
	Name() string

	// Normalize converts a raw transport payload into an Inbound
	// message.
	Normalize(payload []byte) (Inbound, error)

	// Send delivers text to recipient over the transport. opts carries
	// transport-specific parameters such as thread identifiers.
	Send(ctx context.Context, recipient, text string, opts map[string]any) error
}
