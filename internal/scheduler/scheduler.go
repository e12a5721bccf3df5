package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Notifyd/internal/dispatch"
	"github.com/shaiso/Notifyd/internal/domain"
	"github.com/shaiso/Notifyd/internal/telemetry"
)

// RecipientSource — хранилище получателей.
// Реализации: repo.RESTStore, repo.RecipientRepo.
type RecipientSource interface {
	FetchEligible(ctx context.Context) ([]domain.Recipient, error)
}

// Dispatcher рассылает уведомления совпавшим получателям.
type Dispatcher interface {
	DispatchAll(ctx context.Context, at time.Time, slot domain.Slot, matched []domain.Recipient) dispatch.Result
}

// CycleReport — итог одного цикла уведомлений.
type CycleReport struct {
	CycleID   string      `json:"cycle_id"`
	Slot      domain.Slot `json:"slot"`
	Fetched   int         `json:"fetched"`
	Matched   int         `json:"matched"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// Scheduler — оркестратор цикла уведомлений.
type Scheduler struct {
	normalizer   *Normalizer
	source       RecipientSource
	dispatcher   Dispatcher
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// Config — конфигурация Scheduler.
type Config struct {
	Normalizer   *Normalizer
	Source       RecipientSource
	Dispatcher   Dispatcher
	FetchTimeout time.Duration // таймаут чтения получателей (default: 15s)
	Logger       *slog.Logger
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		normalizer:   cfg.Normalizer,
		source:       cfg.Source,
		dispatcher:   cfg.Dispatcher,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// RunNotificationCycle выполняет один цикл уведомлений.
//
// 1. Берёт один снимок now и вычисляет слот
// 2. Читает получателей (ошибка чтения = пустой цикл)
// 3. Отбирает тех, у кого слот есть в расписании
// 4. Параллельно рассылает и дожидается всех исходов
//
// Частичные ошибки доставки не возвращаются вызывающему — они видны
// только в логах и в журнале попыток. Перекрытие циклов не запрещено.
func (s *Scheduler) RunNotificationCycle(ctx context.Context) (CycleReport, error) {
	now, slot := s.normalizer.Now()
	report := CycleReport{CycleID: uuid.NewString(), Slot: slot}
	logger := telemetry.WithCycleID(s.logger, report.CycleID)

	telemetry.CyclesTotal.Inc()

	local := now.In(s.normalizer.Location())
	logger.Info("checking notifications",
		"slot", slot,
		"timezone", s.normalizer.Location().String(),
		"date", local.Format(time.DateOnly),
		"time", local.Format(time.TimeOnly),
	)

	recipients := s.fetchEligible(ctx, logger)
	report.Fetched = len(recipients)

	if len(recipients) == 0 {
		logger.Info("no users to notify")
		telemetry.RecipientsMatched.Set(0)
		return report, nil
	}

	matched := s.filter(slot, recipients, logger)
	report.Matched = len(matched)
	telemetry.RecipientsMatched.Set(float64(len(matched)))

	logger.Info("matched users", "slot", slot, "count", len(matched))

	if len(matched) == 0 {
		return report, nil
	}

	result := s.dispatcher.DispatchAll(telemetry.WithLogger(ctx, logger), now, slot, matched)
	report.Succeeded = result.Succeeded
	report.Failed = result.Failed

	logger.Info("notifications sent",
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)

	return report, nil
}

// fetchEligible читает получателей с таймаутом.
// Ошибка чтения и пустой результат обрабатываются одинаково.
func (s *Scheduler) fetchEligible(ctx context.Context, logger *slog.Logger) []domain.Recipient {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	logger.Debug("fetching users")

	recipients, err := s.source.FetchEligible(fetchCtx)
	if err != nil {
		telemetry.FetchErrorsTotal.Inc()
		logger.Error("failed to fetch users", "error", err)
		return nil
	}

	logger.Info("found users with notification settings", "count", len(recipients))
	return recipients
}

// filter оставляет получателей, у которых слот есть в расписании.
func (s *Scheduler) filter(slot domain.Slot, recipients []domain.Recipient, logger *slog.Logger) []domain.Recipient {
	matched := make([]domain.Recipient, 0, len(recipients))
	for i := range recipients {
		r := &recipients[i]

		// Фильтр хранилища уже отсекает неподходящих, но проверяем повторно
		if !r.IsEligible() {
			continue
		}

		ok := Matches(slot, r.Times)
		logger.Debug("user schedule",
			"user_id", r.ID,
			"times", TimeStrings(r.Times),
			"current", slot,
			"should_notify", ok,
		)
		if ok {
			matched = append(matched, *r)
		}
	}
	return matched
}
