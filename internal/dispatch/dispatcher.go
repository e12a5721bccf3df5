package dispatch

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shaiso/Notifyd/internal/domain"
	"github.com/shaiso/Notifyd/internal/telemetry"
)

// Deliverer — вызов функции доставки для одного получателя.
type Deliverer interface {
	Deliver(ctx context.Context, recipient domain.Recipient, at time.Time) error
}

// Recorder — журнал попыток доставки.
// Возвращённая ошибка всегда отброшена (domain.ErrLogDiscarded) и на исход не влияет.
type Recorder interface {
	Record(ctx context.Context, attempt domain.DispatchAttempt) error
}

// Result — итог рассылки одного цикла.
type Result struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Dispatcher рассылает уведомления совпавшим получателям.
//
// Все вызовы стартуют сразу и ожидаются независимо: ошибка одного получателя
// не отменяет и не задерживает остальных.
type Dispatcher struct {
	deliverer Deliverer
	recorder  Recorder
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// Config — конфигурация Dispatcher.
type Config struct {
	Deliverer Deliverer
	Recorder  Recorder

	// RatePerSec ограничивает частоту вызовов доставки. 0 — без ограничения.
	RatePerSec float64

	Logger *slog.Logger
}

// New создаёт новый Dispatcher.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	burst := 0
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
		burst = int(math.Max(1, math.Ceil(cfg.RatePerSec)))
	}

	return &Dispatcher{
		deliverer: cfg.Deliverer,
		recorder:  cfg.Recorder,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
	}
}

// DispatchAll рассылает уведомления и ждёт, пока все вызовы завершатся.
func (d *Dispatcher) DispatchAll(ctx context.Context, at time.Time, slot domain.Slot, matched []domain.Recipient) Result {
	if len(matched) == 0 {
		return Result{}
	}

	var succeeded, failed atomic.Int64

	// errgroup без WithContext: горутины всегда возвращают nil,
	// поэтому Wait дожидается всех, а не первой ошибки
	var g errgroup.Group
	for _, recipient := range matched {
		g.Go(func() error {
			if d.dispatchOne(ctx, at, slot, recipient) {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Result{
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
	}
}

// dispatchOne доставляет уведомление одному получателю и фиксирует исход.
// Возвращает true при успешной доставке.
func (d *Dispatcher) dispatchOne(ctx context.Context, at time.Time, slot domain.Slot, recipient domain.Recipient) bool {
	logger := telemetry.WithRecipientID(telemetry.FromContextOr(ctx, d.logger), recipient.ID)

	logger.Info("sending notification", "slot", slot)

	err := d.limiter.Wait(ctx)
	if err == nil {
		start := time.Now()
		err = d.deliverer.Deliver(ctx, recipient, at)
		telemetry.DeliveryDuration.Observe(time.Since(start).Seconds())
	}

	var attempt domain.DispatchAttempt
	if err != nil {
		telemetry.DeliveriesTotal.WithLabelValues(telemetry.OutcomeFailed).Inc()
		logger.Error("failed to send notification", "error", err)
		attempt = domain.NewFailedAttempt(recipient.ID, err)
	} else {
		telemetry.DeliveriesTotal.WithLabelValues(telemetry.OutcomeSent).Inc()
		logger.Info("notification sent")
		attempt = domain.NewSentAttempt(recipient.ID, slot)
	}

	// Ошибка журнала уже залогирована рекордером и намеренно отброшена
	_ = d.recorder.Record(ctx, attempt)

	return err == nil
}
