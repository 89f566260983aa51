package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Webhook posts every notice as JSON to an HTTP endpoint.
type Webhook struct {
	client *resty.Client
	url    string
	logger *slog.Logger
}

func NewWebhook(url string, timeout time.Duration, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Webhook{
		client: resty.New().SetTimeout(timeout),
		url:    url,
		logger: logger,
	}
}

type webhookPayload struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
}

func (w *Webhook) Notify(ctx context.Context, n Notice) {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(webhookPayload{Level: n.Level, Message: n.Message, SentAt: time.Now().UTC()}).
		Post(w.url)
	if err != nil {
		w.logger.WarnContext(ctx, "notice webhook failed", "url", w.url, "error", err)
		return
	}
	if resp.IsError() {
		w.logger.WarnContext(ctx, "notice webhook rejected", "url", w.url, "status", resp.StatusCode(), "body", string(resp.Body()))
	}
}
