package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shaiso/Notifyd/internal/domain"
)

const (
	defaultDeliveryTimeout = 30 * time.Second
	deliveryFunctionPath   = "/functions/v1/send-daily-notifications"
)

// FunctionClient вызывает функцию доставки Supabase Edge Functions.
//
// Запрос: POST {baseURL}/functions/v1/send-daily-notifications
// Тело:   {"clientTime": RFC3339, "userId": ..., "token": ...}
//
// Содержимое ответа не интерпретируется: 2xx — успех, остальное — ошибка.
type FunctionClient struct {
	baseURL string
	key     string
	client  *http.Client
	timeout time.Duration
}

// FunctionClientConfig — конфигурация FunctionClient.
type FunctionClientConfig struct {
	BaseURL string
	Key     string
	Timeout time.Duration // таймаут вызова (default: 30s)
	Client  *http.Client  // опционально
}

// NewFunctionClient создаёт клиент функции доставки.
func NewFunctionClient(cfg FunctionClientConfig) *FunctionClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	return &FunctionClient{
		baseURL: cfg.BaseURL,
		key:     cfg.Key,
		client:  client,
		timeout: timeout,
	}
}

// deliveryRequest — тело вызова функции доставки.
type deliveryRequest struct {
	ClientTime string `json:"clientTime"`
	UserID     string `json:"userId"`
	Token      string `json:"token"`
}

// Deliver вызывает функцию доставки для одного получателя.
func (c *FunctionClient) Deliver(ctx context.Context, recipient domain.Recipient, at time.Time) error {
	if c.baseURL == "" || c.key == "" {
		return fmt.Errorf("%w: missing Supabase configuration", domain.ErrConfiguration)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(deliveryRequest{
		ClientTime: at.UTC().Format(time.RFC3339Nano),
		UserID:     recipient.ID,
		Token:      recipient.DeliveryToken,
	})
	if err != nil {
		return fmt.Errorf("%w: marshal body: %v", domain.ErrDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+deliveryFunctionPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %v", domain.ErrDelivery, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrDelivery, resp.StatusCode, truncate(string(respBody), 200))
	}

	// Дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
