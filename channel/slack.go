package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/hupe1980/dialogkit/logging"
)

// Compile-time check that Slack satisfies Adapter.
var _ Adapter = (*Slack)(nil)

// SlackOptions configures the Slack adapter.
type SlackOptions struct {
	// APIURL overrides the Slack API base URL, for enterprise installs
	// and tests. Empty uses the public API.
	APIURL string

	// Logger receives delivery debug lines.
	Logger logging.Logger
}

// Slack adapts the Slack Events API: event callbacks in, chat messages
// out.
type Slack struct {
	client        *slack.Client
	signingSecret string
	logger        logging.Logger
}

// NewSlack creates a Slack adapter. Both credentials are required: the
// bot token authenticates outbound messages, the signing secret
// authenticates inbound webhooks.
func NewSlack(botToken, signingSecret string, optFns ...func(o *SlackOptions)) (*Slack, error) {
	if botToken == "" || signingSecret == "" {
		return nil, errors.New("slack adapter requires a bot token and a signing secret")
	}

	opts := SlackOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []slack.Option{}
	if opts.APIURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(opts.APIURL))
	}

	return &Slack{
		client:        slack.New(botToken, clientOpts...),
		signingSecret: signingSecret,
		logger:        opts.Logger,
	}, nil
}

// Name returns "slack".
func (s *Slack) Name() string { return "slack" }

// SigningSecret returns the secret used to verify inbound Slack
// request signatures.
func (s *Slack) SigningSecret() string { return s.signingSecret }

type slackEnvelope struct {
	Event struct {
		Text     string `json:"text"`
		User     string `json:"user"`
		Channel  string `json:"channel"`
		TS       string `json:"ts"`
		ThreadTS string `json:"thread_ts"`
	} `json:"event"`
}

// Normalize decodes an event callback envelope. The Slack channel
// doubles as the session.
func (s *Slack) Normalize(payload []byte) (Inbound, error) {
	var env slackEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Inbound{}, fmt.Errorf("decode slack event: %w", err)
	}

	return Inbound{
		Text:      env.Event.Text,
		UserID:    env.Event.User,
		SessionID: env.Event.Channel,
		Channel:   s.Name(),
		Metadata: map[string]any{
			"channel_id": env.Event.Channel,
			"timestamp":  env.Event.TS,
			"thread_ts":  env.Event.ThreadTS,
		},
	}, nil
}

// Send posts text to the given Slack channel. A "thread_ts" opt posts
// into that thread.
func (s *Slack) Send(ctx context.Context, recipient, text string, opts map[string]any) error {
	msgOpts := []slack.MsgOption{slack.MsgOptionText(text, false)}

	if threadTS, ok := opts["thread_ts"].(string); ok && threadTS != "" {
		msgOpts = append(msgOpts, slack.MsgOptionTS(threadTS))
	}

	if _, _, err := s.client.PostMessageContext(ctx, recipient, msgOpts...); err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}

	s.logger.Debug("slack message sent", "channel", recipient)

	return nil
}
