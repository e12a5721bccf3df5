// Package scheduler реализует цикл уведомлений.
//
// Каждый тик каденции:
//   - вычисляет слот "HH:MM" в часовом поясе развёртывания
//   - читает получателей из хранилища
//   - отбирает тех, у кого слот есть в расписании
//   - параллельно рассылает уведомления и ждёт все исходы
//
// Структура:
//   - slot.go      — Normalizer: текущий момент → слот
//   - match.go     — сопоставление слота с расписанием
//   - scheduler.go — RunNotificationCycle
//   - cron.go      — Cadence поверх robfig/cron
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Normalizer: scheduler.NewNormalizerIn(cfg.Location),
//	    Source:     store,
//	    Dispatcher: dispatcher,
//	    Logger:     logger,
//	})
//
//	cadence := scheduler.NewCadence(ctx, cfg.Location, logger)
//	cadence.Add("notifications", "* * * * *", func(ctx context.Context) {
//	    sched.RunNotificationCycle(ctx)
//	})
//	cadence.Start()
//
// Active/standby не влияет на цикл: монитор живости работает
// на собственной каденции (см. package liveness).
package scheduler
