package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ServiceName — префикс заголовка алертов.
const ServiceName = "Notifyd"

// Alert — тело запроса к вебхуку алертов.
type Alert struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Alerter отправляет алерты на вебхук.
type Alerter struct {
	webhookURL string
	client     *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// NewAlerter создаёт Alerter. Пустой webhookURL — алерты только логируются.
func NewAlerter(webhookURL string, client *http.Client, logger *slog.Logger) *Alerter {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Alerter{
		webhookURL: webhookURL,
		client:     client,
		timeout:    10 * time.Second,
		logger:     logger,
	}
}

// Send отправляет алерт. Ошибки отправки логируются и не возвращаются.
func (a *Alerter) Send(ctx context.Context, title, message string) {
	if a.webhookURL == "" {
		a.logger.Warn("alert webhook not configured", "title", title)
		return
	}

	if err := a.post(ctx, Alert{
		Title:     fmt.Sprintf("%s: %s", ServiceName, title),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		a.logger.Error("failed to send alert", "title", title, "error", err)
		return
	}

	a.logger.Info("alert sent", "title", title)
}

func (a *Alerter) post(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
