package api

import (
	"time"

	"github.com/shaiso/Notifyd/internal/scheduler"
)

// HealthResponse — ответ /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Timezone  string    `json:"timezone"`
	Server    string    `json:"server"`
}

// TriggerResponse — ответ /trigger-notifications.
type TriggerResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Report  *scheduler.CycleReport `json:"report,omitempty"`
}
