package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hupe1980/dialogkit/logging"
)

const twilioBaseURL = "https://api.twilio.com"

// Compile-time check that WhatsApp satisfies Adapter.
var _ Adapter = (*WhatsApp)(nil)

// WhatsAppOptions configures the WhatsApp adapter.
type WhatsAppOptions struct {
	// BaseURL overrides the Twilio API base URL, for tests.
	BaseURL string

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// Logger receives delivery debug lines.
	Logger logging.Logger
}

// WhatsApp adapts WhatsApp messaging via the Twilio API: form-encoded
// webhooks in, Messages.json posts out.
type WhatsApp struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewWhatsApp creates a WhatsApp adapter from Twilio credentials and
// the sending number ("whatsapp:+14155238886").
func NewWhatsApp(accountSID, authToken, whatsappNumber string, optFns ...func(o *WhatsAppOptions)) (*WhatsApp, error) {
	if accountSID == "" || authToken == "" || whatsappNumber == "" {
		return nil, errors.New("whatsapp adapter requires an account sid, auth token and sending number")
	}

	opts := WhatsAppOptions{
		BaseURL:    twilioBaseURL,
		HTTPClient: http.DefaultClient,
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &WhatsApp{
		accountSID: accountSID,
		authToken:  authToken,
		from:       whatsappNumber,
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}, nil
}

// Name returns "whatsapp".
func (w *WhatsApp) Name() string { return "whatsapp" }

// Normalize decodes a Twilio form-encoded webhook. The sender's number
// doubles as both user and session.
func (w *WhatsApp) Normalize(payload []byte) (Inbound, error) {
	values, err := url.ParseQuery(string(payload))
	if err != nil {
		return Inbound{}, fmt.Errorf("decode whatsapp webhook: %w", err)
	}

	from := values.Get("From")
	number := strings.TrimPrefix(from, "whatsapp:")

	return Inbound{
		Text:      values.Get("Body"),
		UserID:    number,
		SessionID: number,
		Channel:   w.Name(),
		Metadata: map[string]any{
			"message_sid": values.Get("MessageSid"),
			"account_sid": values.Get("AccountSid"),
			"from":        from,
			"to":          values.Get("To"),
			"media_count": values.Get("NumMedia"),
		},
	}, nil
}

// Send delivers text to the recipient number via Twilio. A missing
// "whatsapp:" prefix on the recipient is added.
func (w *WhatsApp) Send(ctx context.Context, recipient, text string, _ map[string]any) error {
	if !strings.HasPrefix(recipient, "whatsapp:") {
		recipient = "whatsapp:" + recipient
	}

	form := url.Values{}
	form.Set("To", recipient)
	form.Set("From", w.from)
	form.Set("Body", text)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", w.baseURL, w.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create twilio request: %w", err)
	}
	req.SetBasicAuth(w.accountSID, w.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post twilio message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio error %d: %s", resp.StatusCode, string(errBody))
	}

	w.logger.Debug("whatsapp message sent", "recipient", recipient)

	return nil
}
