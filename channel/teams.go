package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/hupe1980/dialogkit/logging"
)

// Bot Framework app credential endpoints.
const (
	botFrameworkTokenURL = "https://login.microsoftonline.com/botframework.com/oauth2/v2.0/token"
	botFrameworkScope    = "https://api.botframework.com/.default"
)

// Compile-time check that Teams satisfies Adapter.
var _ Adapter = (*Teams)(nil)

// TeamsOptions configures the Teams adapter.
type TeamsOptions struct {
	// TokenURL overrides the Bot Framework login endpoint, for
	// sovereign clouds and tests.
	TokenURL string

	// Logger receives delivery debug lines.
	Logger logging.Logger
}

// Teams adapts the Microsoft Bot Framework: activities in, proactive
// activity posts out. Outbound requests carry an app token fetched via
// the client-credentials flow.
type Teams struct {
	appID      string
	httpClient *http.Client
	logger     logging.Logger
}

// NewTeams creates a Teams adapter from Bot Framework app credentials.
func NewTeams(appID, appPassword string, optFns ...func(o *TeamsOptions)) (*Teams, error) {
	if appID == "" || appPassword == "" {
		return nil, errors.New("teams adapter requires an app id and an app password")
	}

	opts := TeamsOptions{
		TokenURL: botFrameworkTokenURL,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	cc := &clientcredentials.Config{
		ClientID:     appID,
		ClientSecret: appPassword,
		TokenURL:     opts.TokenURL,
		Scopes:       []string{botFrameworkScope},
	}

	return &Teams{
		appID:      appID,
		httpClient: cc.Client(context.Background()),
		logger:     opts.Logger,
	}, nil
}

// Name returns "teams".
func (t *Teams) Name() string { return "teams" }

type teamsActivity struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
	From struct {
		ID string `json:"id"`
	} `json:"from"`
	Conversation struct {
		ID string `json:"id"`
	} `json:"conversation"`
	ServiceURL string `json:"serviceUrl"`
}

// Normalize decodes a Bot Framework activity. The conversation id
// doubles as the session; the service URL rides along in metadata
// because replies must be posted back to it.
func (t *Teams) Normalize(payload []byte) (Inbound, error) {
	var activity teamsActivity
	if err := json.Unmarshal(payload, &activity); err != nil {
		return Inbound{}, fmt.Errorf("decode teams activity: %w", err)
	}

	return Inbound{
		Text:      activity.Text,
		UserID:    activity.From.ID,
		SessionID: activity.Conversation.ID,
		Channel:   t.Name(),
		Metadata: map[string]any{
			"conversation_id": activity.Conversation.ID,
			"activity_id":     activity.ID,
			"service_url":     activity.ServiceURL,
		},
	}, nil
}

// Send posts a message activity to the conversation. opts must carry
// the "service_url" the inbound activity arrived with.
func (t *Teams) Send(ctx context.Context, recipient, text string, opts map[string]any) error {
	serviceURL, _ := opts["service_url"].(string)
	if serviceURL == "" {
		return errors.New("teams send requires a service_url opt")
	}

	body, err := json.Marshal(map[string]string{
		"type": "message",
		"text": text,
	})
	if err != nil {
		return fmt.Errorf("marshal teams activity: %w", err)
	}

	endpoint := strings.TrimSuffix(serviceURL, "/") + "/v3/conversations/" + url.PathEscape(recipient) + "/activities"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create teams request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post teams activity: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("teams error %d: %s", resp.StatusCode, string(errBody))
	}

	t.logger.Debug("teams activity sent", "conversation", recipient)

	return nil
}
