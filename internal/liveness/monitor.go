package liveness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/shaiso/Notifyd/internal/domain"
	"github.com/shaiso/Notifyd/internal/telemetry"
)

const (
	defaultProbeTimeout = 5 * time.Second
	healthPath          = "/health"
)

// Monitor решает, должен ли этот экземпляр быть активным.
//
// Primary активен всегда и peer не опрашивает. Backup на каждом Poll
// проверяет /health primary: успех → STANDBY, любая ошибка → ACTIVE.
// Каждый опрос оценивается независимо, без сглаживания.
type Monitor struct {
	isPrimary    bool
	primaryURL   string
	backupURL    string
	probeTimeout time.Duration
	client       *http.Client
	logger       *slog.Logger

	mu    sync.RWMutex
	state domain.LivenessState
}

// Config — конфигурация Monitor.
type Config struct {
	IsPrimary        bool
	PrimaryServerURL string
	BackupServerURL  string
	ProbeTimeout     time.Duration // таймаут проверки peer (default: 5s)
	Client           *http.Client
	Logger           *slog.Logger
}

// New создаёт новый Monitor.
func New(cfg Config) *Monitor {
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := domain.LivenessState{IsPrimary: cfg.IsPrimary, Mode: domain.LivenessUndetermined}
	if cfg.IsPrimary {
		state.Mode = domain.LivenessActive
		telemetry.LivenessActive.Set(1)
	}

	return &Monitor{
		isPrimary:    cfg.IsPrimary,
		primaryURL:   cfg.PrimaryServerURL,
		backupURL:    cfg.BackupServerURL,
		probeTimeout: timeout,
		client:       client,
		logger:       logger,
		state:        state,
	}
}

// IsPrimary возвращает true, если экземпляр сконфигурирован как primary.
func (m *Monitor) IsPrimary() bool {
	return m.isPrimary
}

// ShouldMonitor возвращает true, если нужен периодический опрос:
// только для backup с заданным BACKUP_SERVER_URL.
func (m *Monitor) ShouldMonitor() bool {
	return !m.isPrimary && m.backupURL != ""
}

// ShouldBeActive проверяет, должен ли экземпляр быть активным.
// Состояние не меняет.
func (m *Monitor) ShouldBeActive(ctx context.Context) bool {
	if m.isPrimary {
		return true
	}

	if err := m.probe(ctx); err != nil {
		m.logger.Info("primary server is down, activating backup", "error", err)
		return true
	}
	return false
}

// Poll выполняет один опрос и сохраняет результат.
func (m *Monitor) Poll(ctx context.Context) domain.LivenessState {
	active := m.ShouldBeActive(ctx)
	now := time.Now()

	mode := domain.LivenessStandby
	if active {
		mode = domain.LivenessActive
	}

	m.mu.Lock()
	m.state = domain.LivenessState{IsPrimary: m.isPrimary, Mode: mode, CheckedAt: &now}
	state := m.state
	m.mu.Unlock()

	if active {
		telemetry.LivenessActive.Set(1)
	} else {
		telemetry.LivenessActive.Set(0)
	}

	if !m.isPrimary {
		if active {
			m.logger.Info("backup server is active")
		} else {
			m.logger.Info("backup server is inactive (primary is up)")
		}
	}

	return state
}

// State возвращает последнее вычисленное состояние.
func (m *Monitor) State() domain.LivenessState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// ServerStatus — снимок конфигурации и состояния для /status.
type ServerStatus struct {
	IsPrimary     bool                 `json:"isPrimary"`
	PrimaryServer string               `json:"primaryServer"`
	BackupServer  string               `json:"backupServer"`
	Liveness      domain.LivenessState `json:"liveness"`
	Timestamp     time.Time            `json:"timestamp"`
}

// Status возвращает снимок для HTTP-оболочки.
func (m *Monitor) Status() ServerStatus {
	return ServerStatus{
		IsPrimary:     m.isPrimary,
		PrimaryServer: m.primaryURL,
		BackupServer:  m.backupURL,
		Liveness:      m.State(),
		Timestamp:     time.Now().UTC(),
	}
}

// probe проверяет /health primary с ограниченным таймаутом.
func (m *Monitor) probe(ctx context.Context) error {
	if m.primaryURL == "" {
		return fmt.Errorf("%w: primary server URL is not configured", domain.ErrProbe)
	}

	ctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.primaryURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", domain.ErrProbe, err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProbe, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", domain.ErrProbe, resp.StatusCode)
	}
	return nil
}
