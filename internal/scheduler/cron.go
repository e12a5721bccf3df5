package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (5 полей + дескрипторы вида @every 30s).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(cronExpr string) error {
	if _, err := cronParser.Parse(cronExpr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return nil
}

// Every возвращает дескриптор cron для фиксированного интервала.
func Every(d time.Duration) string {
	return "@every " + d.String()
}

// NextRun вычисляет следующее срабатывание выражения после from в часовом поясе loc.
func NextRun(cronExpr string, from time.Time, loc *time.Location) (time.Time, error) {
	schedule, err := cronParser.Parse(cronExpr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}
	return schedule.Next(from.In(loc)), nil
}

// Cadence — внешний источник тиков: каждая задача вызывается по своему
// выражению в собственной горутине, поэтому медленная задача не задерживает
// другие. Повторный запуск той же задачи при незавершённом предыдущем
// не блокируется.
type Cadence struct {
	cron   *cron.Cron
	ctx    context.Context
	logger *slog.Logger
}

// NewCadence создаёт Cadence в заданном часовом поясе.
// ctx передаётся в задачи; его отмена не прерывает уже начатые вызовы.
func NewCadence(ctx context.Context, loc *time.Location, logger *slog.Logger) *Cadence {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cadence{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(cronParser),
			cron.WithChain(cron.Recover(cronLogger{logger})),
		),
		ctx:    ctx,
		logger: logger,
	}
}

// Add регистрирует задачу name по выражению spec.
func (c *Cadence) Add(name, spec string, fn func(ctx context.Context)) error {
	_, err := c.cron.AddFunc(spec, func() {
		c.logger.Debug("cadence triggered", "job", name)
		fn(c.ctx)
	})
	if err != nil {
		return fmt.Errorf("register %s job: %w", name, err)
	}
	c.logger.Info("cadence job registered", "job", name, "spec", spec)
	return nil
}

// Start запускает Cadence в фоне.
func (c *Cadence) Start() {
	c.cron.Start()
}

// Stop прекращает новые срабатывания. Выполняющиеся задачи не ожидаются;
// возвращённый контекст закрывается, когда они завершатся.
func (c *Cadence) Stop() context.Context {
	return c.cron.Stop()
}

// cronLogger адаптирует slog к интерфейсу cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
