package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Notifier delivers user notifications somewhere.
type Notifier interface {
	Notify(n models.Notification)
}

// MultiNotifier fans a notification out to every non-nil notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(n models.Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}

// webhookTimeout bounds each webhook delivery.
const webhookTimeout = 5 * time.Second

// WebhookNotifier forwards notifications to a Slack-compatible incoming
// webhook. Delivery failures are logged and otherwise ignored.
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
	logger     *log.Logger
}

// NewWebhookNotifier creates a WebhookNotifier posting to webhookURL.
// logger may be nil.
func NewWebhookNotifier(webhookURL string, logger *log.Logger) *WebhookNotifier {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{},
		logger:     logger,
	}
}

type webhookMessage struct {
	Text   string         `json:"text"`
	Blocks []webhookBlock `json:"blocks"`
}

type webhookBlock struct {
	Type string       `json:"type"`
	Text *webhookText `json:"text,omitempty"`
}

type webhookText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Notify implements Notifier.
func (w *WebhookNotifier) Notify(n models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()
	if err := w.Send(ctx, n); err != nil {
		w.logger.Warn("forwarding notification", "severity", n.Severity, "err", err)
	}
}

// Send posts one notification and reports any delivery error.
func (w *WebhookNotifier) Send(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(buildWebhookMessage(n))
	if err != nil {
		return fmt.Errorf("marshaling webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func buildWebhookMessage(n models.Notification) webhookMessage {
	text := fmt.Sprintf("%s *[%s]* %s", severityEmoji(n.Severity), strings.ToUpper(string(n.Severity)), n.Message)
	return webhookMessage{
		Text: n.Message,
		Blocks: []webhookBlock{
			{Type: "section", Text: &webhookText{Type: "mrkdwn", Text: text}},
		},
	}
}

func severityEmoji(severity models.Severity) string {
	switch severity {
	case models.SeveritySuccess:
		return "✅"
	case models.SeverityInfo:
		return "\U0001f535"
	case models.SeverityWarning:
		return "\U0001f7e1"
	case models.SeverityError:
		return "\U0001f534"
	default:
		return "❓"
	}
}
