package api

import (
	"context"
	"log/slog"

	"github.com/shaiso/Notifyd/internal/liveness"
	"github.com/shaiso/Notifyd/internal/scheduler"
)

// ServerName — имя сервера в ответе /health.
const ServerName = "Notifyd Notification Server"

// CycleRunner запускает один цикл уведомлений.
type CycleRunner interface {
	RunNotificationCycle(ctx context.Context) (scheduler.CycleReport, error)
}

// StatusProvider отдаёт снимок primary/backup.
type StatusProvider interface {
	Status() liveness.ServerStatus
}

// Handler — HTTP-оболочка сервиса.
type Handler struct {
	cycles   CycleRunner
	status   StatusProvider
	timezone string
	logger   *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Cycles   CycleRunner
	Status   StatusProvider
	Timezone string
	Logger   *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cycles:   cfg.Cycles,
		status:   cfg.Status,
		timezone: cfg.Timezone,
		logger:   logger,
	}
}
