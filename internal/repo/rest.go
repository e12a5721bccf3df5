package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shaiso/Notifyd/internal/domain"
	"github.com/shaiso/Notifyd/internal/telemetry"
)

const (
	settingsPath = "/rest/v1/notification_settings"
	logsPath     = "/rest/v1/notification_logs"
)

// RESTStore — доступ к таблицам Supabase через PostgREST.
//
// Реализует чтение получателей (scheduler.RecipientSource)
// и запись попыток (attemptlog.Sink).
type RESTStore struct {
	baseURL string
	key     string
	client  *http.Client
}

// NewRESTStore создаёт RESTStore.
// Пустые baseURL/key допустимы: каждая операция вернёт domain.ErrConfiguration.
func NewRESTStore(baseURL, key string, client *http.Client) *RESTStore {
	if client == nil {
		client = &http.Client{}
	}
	return &RESTStore{
		baseURL: baseURL,
		key:     key,
		client:  client,
	}
}

// FetchEligible возвращает включённых получателей с токеном и расписанием.
// Фильтр выполняется на стороне сервера.
func (s *RESTStore) FetchEligible(ctx context.Context) ([]domain.Recipient, error) {
	if err := s.checkConfig(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("fcm_token", "not.is.null")
	q.Set("times", "not.is.null")
	q.Set("enabled", "eq.true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+settingsPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrTransientFetch, err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrTransientFetch, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", domain.ErrTransientFetch, resp.StatusCode, truncate(string(body), 200))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode recipients: %v", domain.ErrTransientFetch, err)
	}

	// Строки разбираются по одной: неподходящая строка не должна
	// лишать уведомлений остальных получателей
	logger := telemetry.FromContextOr(ctx, slog.Default())
	recipients := make([]domain.Recipient, 0, len(rows))
	for i, raw := range rows {
		rec, err := decodeRecipient(raw)
		if err != nil {
			logger.Debug("skipping malformed user row", "row", i, "error", err)
			continue
		}
		if len(rec.Times) == 0 {
			logger.Debug("skipping user without schedule array", "user_id", rec.ID)
			continue
		}
		recipients = append(recipients, rec)
	}
	return recipients, nil
}

// attemptRow — строка notification_logs.
type attemptRow struct {
	UserID  string `json:"user_id"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// WriteAttempt сохраняет запись о попытке в notification_logs.
// created_at проставляет база.
func (s *RESTStore) WriteAttempt(ctx context.Context, attempt domain.DispatchAttempt) error {
	if err := s.checkConfig(); err != nil {
		return err
	}

	body, err := json.Marshal(attemptRow{
		UserID:  attempt.RecipientID,
		Status:  attempt.StatusCode,
		Message: attempt.Message,
	})
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+logsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("insert attempt: HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *RESTStore) checkConfig() error {
	if s.baseURL == "" || s.key == "" {
		return fmt.Errorf("%w: missing Supabase configuration", domain.ErrConfiguration)
	}
	return nil
}

func (s *RESTStore) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Content-Type", "application/json")
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
