package monitoring

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HealthWatcher периодически проверяет собственный /health сервиса
// и шлёт алерт при неудаче.
type HealthWatcher struct {
	serviceURL string
	client     *http.Client
	timeout    time.Duration
	alerter    *Alerter
	logger     *slog.Logger
}

// HealthWatcherConfig — конфигурация HealthWatcher.
type HealthWatcherConfig struct {
	ServiceURL string
	Timeout    time.Duration // default: 5s
	Client     *http.Client
	Alerter    *Alerter
	Logger     *slog.Logger
}

// NewHealthWatcher создаёт HealthWatcher.
func NewHealthWatcher(cfg HealthWatcherConfig) *HealthWatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthWatcher{
		serviceURL: cfg.ServiceURL,
		client:     client,
		timeout:    timeout,
		alerter:    cfg.Alerter,
		logger:     logger,
	}
}

// Enabled возвращает true, если задан SERVICE_URL.
func (h *HealthWatcher) Enabled() bool {
	return h.serviceURL != ""
}

// Check выполняет одну проверку. Возвращает true, если сервис здоров.
func (h *HealthWatcher) Check(ctx context.Context) bool {
	if err := h.probe(ctx); err != nil {
		h.logger.Error("health check failed", "error", err)
		if h.alerter != nil {
			h.alerter.Send(ctx, "Health check failed", err.Error())
		}
		return false
	}

	h.logger.Info("health check passed")
	return true
}

func (h *HealthWatcher) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.serviceURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status HTTP %d", resp.StatusCode)
	}
	return nil
}
