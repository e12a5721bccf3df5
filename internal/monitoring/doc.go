// Package monitoring — самопроверка сервиса и алерты.
//
// HealthWatcher раз в HEALTH_CHECK_INTERVAL запрашивает SERVICE_URL/health;
// при неудаче Alerter шлёт {title, message, timestamp} на ALERT_WEBHOOK_URL.
// Без вебхука алерт только логируется.
package monitoring
