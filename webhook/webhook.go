package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/use-agent/sheetscrape/models"
)

// Event types.
const (
	EventRunCompleted = "run.completed"
	EventRunFailed    = "run.failed"
)

// SignatureHeader carries "sha256=<hex>" when a secret is configured.
const SignatureHeader = "X-Sheetscrape-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string              `json:"type"`
	Pipeline  string              `json:"pipeline"`
	Timestamp int64               `json:"timestamp"`
	Result    *models.RunResult   `json:"result,omitempty"`
	Error     *models.ErrorDetail `json:"error,omitempty"`
}

// NewRunEvent builds the event for a finished run. A nil err yields
// run.completed, anything else run.failed.
func NewRunEvent(pipeline string, result *models.RunResult, err error) *Event {
	ev := &Event{
		Type:      EventRunCompleted,
		Pipeline:  pipeline,
		Timestamp: time.Now().Unix(),
		Result:    result,
	}
	if err != nil {
		ev.Type = EventRunFailed
		ev.Error = models.DetailOf(err)
	}
	return ev
}

// Sign returns the header value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches body under secret.
func Verify(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}

// Notifier delivers run events to one endpoint.
type Notifier struct {
	URL    string
	Secret string

	// Delays between attempts; the first entry is normally 0.
	Delays []time.Duration

	client *http.Client
}

// NewNotifier returns nil when url is empty, which disables delivery.
func NewNotifier(url, secret string) *Notifier {
	if url == "" {
		return nil
	}
	return &Notifier{
		URL:    url,
		Secret: secret,
		Delays: []time.Duration{0, 1 * time.Second, 5 * time.Second},
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Deliver sends an event once.
func (n *Notifier) Deliver(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Sheetscrape-Webhook/1.0")
	if n.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(n.Secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// Notify delivers an event, retrying after each of n.Delays. It blocks
// until delivery succeeds, attempts run out, or ctx is done. A nil
// Notifier is a no-op.
func (n *Notifier) Notify(ctx context.Context, event *Event) error {
	if n == nil {
		return nil
	}

	var lastErr error
	for attempt, delay := range n.Delays {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = n.Deliver(ctx, event)
		if lastErr == nil {
			slog.Info("webhook delivered",
				"url", n.URL,
				"event", event.Type,
				"pipeline", event.Pipeline,
				"attempt", attempt+1,
			)
			return nil
		}
		slog.Warn("webhook delivery failed",
			"url", n.URL,
			"event", event.Type,
			"attempt", attempt+1,
			"error", lastErr,
		)
	}

	slog.Error("webhook delivery exhausted all retries", "url", n.URL, "event", event.Type)
	return lastErr
}

// NotifyAsync runs Notify in the background with a detached context.
func (n *Notifier) NotifyAsync(event *Event) {
	if n == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_ = n.Notify(ctx, event)
	}()
}
