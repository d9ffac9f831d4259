package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	config "github.com/Keoroanthony/go-inventory/configs"
)

// WebhookSink posts a form-encoded order message to an HTTP endpoint, such as
// an SMS gateway or a chat webhook.
type WebhookSink struct {
	url    string
	apiKey string
	client *http.Client
}

type webhookResponse struct {
	Message string `json:"message"`
}

func NewWebhookSink(cfg config.WebhookConfig, client *http.Client) (*WebhookSink, error) {
	if cfg.URL == "" {
		return nil, errors.New("webhook url is not configured")
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookSink{url: cfg.URL, apiKey: cfg.APIKey, client: client}, nil
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Send(ctx context.Context, e OrderCreated) error {
	data := url.Values{}
	data.Set("order_id", e.OrderID)
	data.Set("to", e.CustomerMail)
	data.Set("message", e.Message())
	data.Set("quantity", strconv.Itoa(e.Quantity))
	data.Set("total", strconv.FormatFloat(e.Total, 'f', 2, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var body webhookResponse
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); decodeErr == nil && body.Message != "" {
			return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, body.Message)
		}
		return fmt.Errorf("webhook returned non-success status: %d", resp.StatusCode)
	}
	return nil
}
