// Package mq публикует попытки доставки в RabbitMQ.
//
// Структура:
//   - connection.go — соединение с reconnect
//   - topology.go   — exchange notifyd.attempts, очереди attempts.*
//   - publisher.go  — AttemptPublisher (sink журнала попыток)
//
// Публикация включается переменной RABBITMQ_URL. Ошибка публикации —
// обычная отброшенная запись журнала, на доставку она не влияет.
package mq
