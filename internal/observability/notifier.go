package observability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Notifier pings the partner's messaging webhook when something worth
// interrupting them for happens, such as a task being assigned to them.
type Notifier interface {
	Notify(text string) error
}

// webhookNotifier posts a plain text message to a webhook URL in the
// Slack-compatible {"text": ...} form.
type webhookNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewWebhookNotifier creates a Notifier posting to the given webhook URL.
func NewWebhookNotifier(webhookURL string) Notifier {
	return &webhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

type webhookMessage struct {
	Text string `json:"text"`
}

// Notify posts the message. An empty text is a no-op.
func (n *webhookNotifier) Notify(text string) error {
	if text == "" {
		return nil
	}

	body, err := json.Marshal(webhookMessage{Text: text})
	if err != nil {
		return fmt.Errorf("marshaling webhook message: %w", err)
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
