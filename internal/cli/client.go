package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api, CLI не импортирует internal/api) ---

// HealthResponse — ответ /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Timezone  string `json:"timezone"`
	Server    string `json:"server"`
}

// CycleReport — итог цикла уведомлений.
type CycleReport struct {
	CycleID   string `json:"cycle_id"`
	Slot      string `json:"slot"`
	Fetched   int    `json:"fetched"`
	Matched   int    `json:"matched"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}

// TriggerResponse — ответ /trigger-notifications.
type TriggerResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Report  *CycleReport `json:"report,omitempty"`
}

// LivenessState — решение монитора живости.
type LivenessState struct {
	IsPrimary bool   `json:"is_primary"`
	Mode      string `json:"mode"`
	CheckedAt string `json:"checked_at,omitempty"`
}

// StatusResponse — ответ /status.
type StatusResponse struct {
	IsPrimary     bool          `json:"isPrimary"`
	PrimaryServer string        `json:"primaryServer"`
	BackupServer  string        `json:"backupServer"`
	Liveness      LivenessState `json:"liveness"`
	Timestamp     string        `json:"timestamp"`
}

// --- Client ---

// Client — HTTP-клиент для оболочки notifyd.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент. Таймаут покрывает ручной цикл целиком.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Health запрашивает /health.
func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(http.MethodGet, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Trigger запускает цикл через /trigger-notifications.
// Ответ 500 с телом {success:false} возвращается вместе с ошибкой.
func (c *Client) Trigger() (*TriggerResponse, error) {
	var resp TriggerResponse
	err := c.do(http.MethodPost, "/trigger-notifications", &resp)
	if err != nil {
		return &resp, err
	}
	return &resp, nil
}

// Status запрашивает /status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(http.MethodGet, "/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(method, path string, result any) error {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if len(body) > 0 && result != nil {
		if err := json.Unmarshal(body, result); err != nil && resp.StatusCode < 400 {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	return nil
}
