// Package notify posts a run digest to a Slack-compatible incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/agent-radar/internal/radar"
)

const (
	DefaultTimeout = 10 * time.Second
	DigestLimit    = 10
)

// Digest renders the message for a run that wrote items.
func Digest(items []radar.Item) string {
	lines := []string{fmt.Sprintf("*Agent Radar – Updated %d items*", len(items))}
	for _, item := range items[:min(len(items), DigestLimit)] {
		lines = append(lines, fmt.Sprintf("• %s — *%s* (%s) <%s|source>", item.Date, item.Name, item.Vendor, item.PrimaryURL()))
	}
	return strings.Join(lines, "\n")
}

type Notifier struct {
	httpClient *http.Client
	webhookURL string
	timeout    time.Duration
}

func NewNotifier(httpClient *http.Client, webhookURL string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{
		httpClient: httpClient,
		webhookURL: webhookURL,
		timeout:    timeout,
	}
}

type payload struct {
	Text string `json:"text"`
}

// Run posts text to the webhook. Non-2xx responses are errors.
func (n *Notifier) Run(ctx context.Context, text string) error {
	body, err := json.Marshal(payload{Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "POST", n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return nil
}
