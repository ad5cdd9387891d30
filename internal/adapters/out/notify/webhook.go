package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"atelier/internal/core/ports"
)

type webhookPayload struct {
	Kind        string  `json:"kind"`
	Recipient   *string `json:"recipient,omitempty"`
	OrderID     string  `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	Department  *string `json:"department,omitempty"`
	Message     string  `json:"message"`
}

// WebhookNotifier posts each notification as JSON. Any non-2xx answer is an
// error.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a notifier posting to url. A nil client gets
// DefaultTimeout.
func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &WebhookNotifier{url: url, client: client}
}

func (n *WebhookNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	payload := webhookPayload{
		Kind:        string(notification.Kind),
		OrderID:     notification.OrderID.String(),
		OrderNumber: notification.OrderNumber,
		Message:     notification.Message,
	}
	if recipient, ok := notification.Recipient.Get(); ok {
		s := recipient.String()
		payload.Recipient = &s
	}
	if d, ok := notification.Department.Get(); ok {
		s := d.String()
		payload.Department = &s
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook answered %d", resp.StatusCode)
	}
	return nil
}
