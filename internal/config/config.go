package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/shaiso/Notifyd/internal/domain"
)

// Драйверы хранилища получателей и журнала попыток.
const (
	StoreREST     = "rest"
	StorePostgres = "postgres"
)

// Config — конфигурация сервиса.
// Собирается один раз при старте и передаётся в конструкторы компонентов.
type Config struct {
	Port int

	// Часовой пояс развёртывания (IANA). Location заполняется в Validate.
	Timezone string
	Location *time.Location

	Store    StoreConfig
	Liveness LivenessConfig
	Monitor  MonitorConfig
	Timeouts TimeoutConfig

	// RabbitMQURL — если задан, попытки дублируются в очередь.
	RabbitMQURL string

	// NotifyCron — cron-выражение каденции цикла уведомлений.
	NotifyCron string

	// InitialCheckDelay — задержка первого цикла после старта. 0 — не запускать.
	InitialCheckDelay time.Duration

	// DeliveryRatePerSec — ограничение скорости вызовов доставки. 0 — без ограничения.
	DeliveryRatePerSec float64
}

// StoreConfig — доступ к удалённому хранилищу.
type StoreConfig struct {
	Driver string
	// BaseURL — базовый URL Supabase; функция доставки всегда адресуется через него.
	BaseURL string
	// Key — service role key.
	Key string
	// DatabaseURL — DSN для драйвера postgres.
	DatabaseURL string
}

// LivenessConfig — настройки primary/backup.
type LivenessConfig struct {
	IsPrimary        bool
	PrimaryServerURL string
	BackupServerURL  string
	PollInterval     time.Duration
}

// MonitorConfig — самопроверка и алерты.
type MonitorConfig struct {
	ServiceURL          string
	AlertWebhookURL     string
	HealthCheckInterval time.Duration
}

// TimeoutConfig — таймауты сетевых вызовов.
type TimeoutConfig struct {
	Fetch    time.Duration
	Delivery time.Duration
	LogWrite time.Duration
	Probe    time.Duration
	Shutdown time.Duration
}

// Error — ошибка конфигурации с указанием поля.
type Error struct {
	Field   string
	Message string
}

// Error реализует интерфейс error.
func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// Unwrap позволяет сравнивать с domain.ErrConfiguration.
func (e *Error) Unwrap() error {
	return domain.ErrConfiguration
}

// Load загружает .env (если есть), читает окружение и валидирует конфигурацию.
func Load() (*Config, error) {
	// .env опционален: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv собирает Config через функцию lookup (os.LookupEnv в production).
// Возвращает ошибку только для нераспознаваемых значений.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		Port:     r.int("PORT", 3000),
		Timezone: r.string("TIMEZONE", "Asia/Jerusalem"),
		Store: StoreConfig{
			Driver:      strings.ToLower(r.string("STORE_DRIVER", StoreREST)),
			BaseURL:     strings.TrimRight(r.string("SUPABASE_URL", ""), "/"),
			Key:         r.string("SUPABASE_SERVICE_ROLE_KEY", ""),
			DatabaseURL: r.string("DB_URL", ""),
		},
		Liveness: LivenessConfig{
			IsPrimary:        r.bool("IS_PRIMARY", false),
			PrimaryServerURL: strings.TrimRight(r.string("PRIMARY_SERVER_URL", ""), "/"),
			BackupServerURL:  strings.TrimRight(r.string("BACKUP_SERVER_URL", ""), "/"),
			PollInterval:     r.duration("LIVENESS_INTERVAL", 30*time.Second),
		},
		Monitor: MonitorConfig{
			ServiceURL:          strings.TrimRight(r.string("SERVICE_URL", ""), "/"),
			AlertWebhookURL:     r.string("ALERT_WEBHOOK_URL", ""),
			HealthCheckInterval: r.duration("HEALTH_CHECK_INTERVAL", 5*time.Minute),
		},
		Timeouts: TimeoutConfig{
			Fetch:    r.duration("FETCH_TIMEOUT", 15*time.Second),
			Delivery: r.duration("DELIVERY_TIMEOUT", 30*time.Second),
			LogWrite: r.duration("LOG_WRITE_TIMEOUT", 10*time.Second),
			Probe:    r.duration("PROBE_TIMEOUT", 5*time.Second),
			Shutdown: r.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		RabbitMQURL:        r.string("RABBITMQ_URL", ""),
		NotifyCron:         r.string("NOTIFY_CRON", "* * * * *"),
		InitialCheckDelay:  r.duration("INITIAL_CHECK_DELAY", 5*time.Second),
		DeliveryRatePerSec: r.float("DELIVERY_RATE_PER_SEC", 0),
	}

	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	return cfg, nil
}

// Validate проверяет конфигурацию один раз при старте.
//
// Отсутствие SUPABASE_URL/ключа не считается фатальным: операции,
// которым они нужны, сами вернут domain.ErrConfiguration.
func (c *Config) Validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return &Error{Field: "TIMEZONE", Message: fmt.Sprintf("unknown timezone %q", c.Timezone)}
	}
	c.Location = loc

	if _, err := cron.ParseStandard(c.NotifyCron); err != nil {
		return &Error{Field: "NOTIFY_CRON", Message: err.Error()}
	}

	switch c.Store.Driver {
	case StoreREST:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return &Error{Field: "DB_URL", Message: "required for postgres store driver"}
		}
	default:
		return &Error{Field: "STORE_DRIVER", Message: fmt.Sprintf("unknown driver %q", c.Store.Driver)}
	}

	if c.Port <= 0 || c.Port > 65535 {
		return &Error{Field: "PORT", Message: fmt.Sprintf("out of range: %d", c.Port)}
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"LIVENESS_INTERVAL", c.Liveness.PollInterval},
		{"HEALTH_CHECK_INTERVAL", c.Monitor.HealthCheckInterval},
		{"FETCH_TIMEOUT", c.Timeouts.Fetch},
		{"DELIVERY_TIMEOUT", c.Timeouts.Delivery},
		{"LOG_WRITE_TIMEOUT", c.Timeouts.LogWrite},
		{"PROBE_TIMEOUT", c.Timeouts.Probe},
		{"SHUTDOWN_TIMEOUT", c.Timeouts.Shutdown},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return &Error{Field: d.field, Message: "must be positive"}
		}
	}

	if c.DeliveryRatePerSec < 0 {
		return &Error{Field: "DELIVERY_RATE_PER_SEC", Message: "must not be negative"}
	}

	return nil
}

// MissingStoreCredentials возвращает true, если не заданы URL или ключ Supabase.
func (c *Config) MissingStoreCredentials() bool {
	return c.Store.BaseURL == "" || c.Store.Key == ""
}

// reader читает переменные окружения и копит ошибки разбора.
type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) string(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, &Error{Field: key, Message: fmt.Sprintf("not an integer: %q", v)})
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, &Error{Field: key, Message: fmt.Sprintf("not a number: %q", v)})
		return def
	}
	return f
}

// bool совпадает с исходным поведением: флаг включает только точное "true".
func (r *reader) bool(key string, def bool) bool {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	return v == "true"
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.string(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, &Error{Field: key, Message: fmt.Sprintf("not a duration: %q", v)})
		return def
	}
	return d
}
