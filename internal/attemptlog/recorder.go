package attemptlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Notifyd/internal/domain"
	"github.com/shaiso/Notifyd/internal/telemetry"
)

const defaultWriteTimeout = 10 * time.Second

// Sink — место хранения записей о попытках.
// Реализации: repo.RESTStore, repo.AttemptRepo, mq.AttemptPublisher.
type Sink interface {
	WriteAttempt(ctx context.Context, attempt domain.DispatchAttempt) error
}

// NamedSink — sink с именем для логов и метрик.
type NamedSink struct {
	Name string
	Sink Sink
}

// DiscardedError — запись не сохранена в sink и намеренно отброшена.
// errors.Is(err, domain.ErrLogDiscarded) == true.
type DiscardedError struct {
	Sink        string
	RecipientID string
	Err         error
}

// Error реализует интерфейс error.
func (e *DiscardedError) Error() string {
	return fmt.Sprintf("attempt log for %s discarded by %s: %v", e.RecipientID, e.Sink, e.Err)
}

// Is сопоставляет ошибку с domain.ErrLogDiscarded.
func (e *DiscardedError) Is(target error) bool {
	return target == domain.ErrLogDiscarded
}

// Unwrap возвращает исходную ошибку записи.
func (e *DiscardedError) Unwrap() error {
	return e.Err
}

// Recorder — журнал попыток доставки (best-effort).
//
// Запись идёт во все sinks; ошибка любого из них логируется локально,
// считается в метрике и возвращается только как DiscardedError.
// Повторных попыток нет.
type Recorder struct {
	sinks   []NamedSink
	timeout time.Duration
	logger  *slog.Logger
}

// Config — конфигурация Recorder.
type Config struct {
	Sinks   []NamedSink
	Timeout time.Duration // таймаут одной записи (default: 10s)
	Logger  *slog.Logger
}

// New создаёт новый Recorder.
func New(cfg Config) *Recorder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Recorder{
		sinks:   cfg.Sinks,
		timeout: timeout,
		logger:  logger,
	}
}

// Record записывает попытку во все sinks.
//
// Возвращает nil или ошибку, для которой errors.Is(err, domain.ErrLogDiscarded).
// Вызывающий не обязан её обрабатывать: она уже залогирована.
func (r *Recorder) Record(ctx context.Context, attempt domain.DispatchAttempt) error {
	var discarded []error

	for _, s := range r.sinks {
		if err := r.write(ctx, s, attempt); err != nil {
			telemetry.AttemptLogDiscardedTotal.WithLabelValues(s.Name).Inc()
			telemetry.FromContextOr(ctx, r.logger).Error("failed to log notification attempt",
				"sink", s.Name,
				"user_id", attempt.RecipientID,
				"status", attempt.StatusCode,
				"error", err,
			)
			discarded = append(discarded, &DiscardedError{
				Sink:        s.Name,
				RecipientID: attempt.RecipientID,
				Err:         err,
			})
		}
	}

	return errors.Join(discarded...)
}

// write выполняет одну запись с таймаутом. Паника sink тоже отбрасывается.
func (r *Recorder) write(ctx context.Context, s NamedSink, attempt domain.DispatchAttempt) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sink panic: %v", p)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return s.Sink.WriteAttempt(ctx, attempt)
}
