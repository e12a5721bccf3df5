// notifyd — сервер ежедневных уведомлений.
//
// Каждую минуту (в часовом поясе TIMEZONE):
//   - читает получателей из Supabase (REST или напрямую Postgres)
//   - отбирает тех, у кого текущий слот "HH:MM" есть в расписании
//   - параллельно вызывает функцию доставки и пишет журнал попыток
//
// Дополнительно: монитор primary/backup, самопроверка с алертами,
// HTTP-оболочка (/health, /trigger-notifications, /status, /metrics).
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Notifyd/internal/api"
	"github.com/shaiso/Notifyd/internal/attemptlog"
	"github.com/shaiso/Notifyd/internal/config"
	"github.com/shaiso/Notifyd/internal/dispatch"
	"github.com/shaiso/Notifyd/internal/liveness"
	"github.com/shaiso/Notifyd/internal/monitoring"
	"github.com/shaiso/Notifyd/internal/mq"
	"github.com/shaiso/Notifyd/internal/repo"
	"github.com/shaiso/Notifyd/internal/scheduler"
	"github.com/shaiso/Notifyd/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting notifyd")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.MissingStoreCredentials() {
		logger.Warn("missing Supabase configuration, fetch and delivery will fail until it is set")
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Хранилище получателей и журнал попыток
	var (
		source scheduler.RecipientSource
		sinks  []attemptlog.NamedSink
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := repo.NewPool(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connected")

		source = repo.NewRecipientRepo(pool)
		sinks = append(sinks, attemptlog.NamedSink{Name: "postgres", Sink: repo.NewAttemptRepo(pool)})
	default:
		store := repo.NewRESTStore(cfg.Store.BaseURL, cfg.Store.Key, nil)
		source = store
		sinks = append(sinks, attemptlog.NamedSink{Name: "supabase", Sink: store})
	}

	// RabbitMQ (опционально)
	if cfg.RabbitMQURL != "" {
		mqConn, err := mq.NewConnection(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, attempt events disabled", "error", err)
		} else {
			defer mqConn.Close()
			if err := mq.SetupTopology(ctx, mqConn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}
			sinks = append(sinks, attemptlog.NamedSink{Name: "rabbitmq", Sink: mq.NewAttemptPublisher(mqConn, logger)})
		}
	}

	recorder := attemptlog.New(attemptlog.Config{
		Sinks:   sinks,
		Timeout: cfg.Timeouts.LogWrite,
		Logger:  logger,
	})

	dispatcher := dispatch.New(dispatch.Config{
		Deliverer: dispatch.NewFunctionClient(dispatch.FunctionClientConfig{
			BaseURL: cfg.Store.BaseURL,
			Key:     cfg.Store.Key,
			Timeout: cfg.Timeouts.Delivery,
		}),
		Recorder:   recorder,
		RatePerSec: cfg.DeliveryRatePerSec,
		Logger:     logger,
	})

	sched := scheduler.New(scheduler.Config{
		Normalizer:   scheduler.NewNormalizerIn(cfg.Location),
		Source:       source,
		Dispatcher:   dispatcher,
		FetchTimeout: cfg.Timeouts.Fetch,
		Logger:       logger,
	})

	monitor := liveness.New(liveness.Config{
		IsPrimary:        cfg.Liveness.IsPrimary,
		PrimaryServerURL: cfg.Liveness.PrimaryServerURL,
		BackupServerURL:  cfg.Liveness.BackupServerURL,
		ProbeTimeout:     cfg.Timeouts.Probe,
		Logger:           logger,
	})

	watcher := monitoring.NewHealthWatcher(monitoring.HealthWatcherConfig{
		ServiceURL: cfg.Monitor.ServiceURL,
		Timeout:    cfg.Timeouts.Probe,
		Alerter:    monitoring.NewAlerter(cfg.Monitor.AlertWebhookURL, nil, logger),
		Logger:     logger,
	})

	// Начатый цикл доводится до конца и не прерывается сигналом
	cycleCtx := context.WithoutCancel(ctx)

	// Каденции: цикл уведомлений, опрос primary, самопроверка
	cadence := scheduler.NewCadence(cycleCtx, cfg.Location, logger)
	mustAdd(logger, cadence.Add("notifications", cfg.NotifyCron, func(ctx context.Context) {
		if _, err := sched.RunNotificationCycle(ctx); err != nil {
			logger.Error("notification cycle failed", "error", err)
		}
	}))
	if monitor.ShouldMonitor() {
		logger.Info("starting backup monitoring")
		mustAdd(logger, cadence.Add("liveness", scheduler.Every(cfg.Liveness.PollInterval), func(ctx context.Context) {
			monitor.Poll(ctx)
		}))
	}
	if watcher.Enabled() {
		mustAdd(logger, cadence.Add("health-watch", scheduler.Every(cfg.Monitor.HealthCheckInterval), func(ctx context.Context) {
			watcher.Check(ctx)
		}))
	}
	cadence.Start()

	// Первый цикл вскоре после старта
	if cfg.InitialCheckDelay > 0 {
		initial := time.AfterFunc(cfg.InitialCheckDelay, func() {
			logger.Info("running initial notification check")
			if _, err := sched.RunNotificationCycle(cycleCtx); err != nil {
				logger.Error("initial notification cycle failed", "error", err)
			}
		})
		defer initial.Stop()
	}

	// HTTP-оболочка
	handler := api.NewHandler(api.Config{
		Cycles:   sched,
		Status:   monitor,
		Timezone: cfg.Timezone,
		Logger:   logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	handler.RegisterRoutes(mux)

	addr := ":" + strconv.Itoa(cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening",
			"addr", addr,
			"timezone", cfg.Timezone,
			"cron", cfg.NotifyCron,
			"primary", cfg.Liveness.IsPrimary,
			"store", cfg.Store.Driver,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	logger.Info("shutting down")

	// Новые тики не запускаются; фоновые циклы не ожидаем
	cadence.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("notifyd stopped")
}

func mustAdd(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("failed to register cadence job", "error", err)
		os.Exit(1)
	}
}
