package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы доставки для метки outcome.
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

var (
	// CyclesTotal — количество запущенных циклов уведомлений.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifyd_cycles_total",
		Help: "Total notification cycles started",
	})

	// FetchErrorsTotal — ошибки чтения получателей.
	FetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifyd_fetch_errors_total",
		Help: "Recipient fetches that failed and were treated as empty",
	})

	// RecipientsMatched — сколько получателей совпало в последнем цикле.
	RecipientsMatched = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notifyd_recipients_matched",
		Help: "Recipients matched in the most recent cycle",
	})

	// DeliveriesTotal — исходы доставки по outcome.
	DeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifyd_deliveries_total",
		Help: "Delivery calls by outcome",
	}, []string{"outcome"})

	// DeliveryDuration — длительность вызова функции доставки.
	DeliveryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "notifyd_delivery_duration_seconds",
		Help:    "Delivery call latency",
		Buckets: prometheus.DefBuckets,
	})

	// AttemptLogDiscardedTotal — записи попыток, отброшенные по sink.
	AttemptLogDiscardedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifyd_attempt_log_discarded_total",
		Help: "Attempt log writes that failed and were discarded",
	}, []string{"sink"})

	// LivenessActive — 1 если экземпляр активен, 0 если в резерве.
	LivenessActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notifyd_liveness_active",
		Help: "Whether this instance currently considers itself active",
	})

	// HTTPRequestsTotal — запросы к HTTP-оболочке.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifyd_http_requests_total",
		Help: "HTTP requests handled by the notifyd shell",
	}, []string{"pattern", "status"})
)
