package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

const (
	ExchangeAttempts Exchange = "notifyd.attempts"

	QueueAttemptsRecorded Queue = "attempts.recorded"
	QueueAttemptsFailed   Queue = "attempts.failed"

	RoutingKeySent   RoutingKey = "sent"
	RoutingKeyFailed RoutingKey = "failed"
)

// SetupTopology объявляет exchange, очереди и привязки (идемпотентно).
//
//	notifyd.attempts (direct)
//	├── attempts.recorded [routing: sent, failed]
//	└── attempts.failed   [routing: failed]
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeAttempts), // name
			"direct",                 // type
			true,                     // durable
			false,                    // auto-deleted
			false,                    // internal
			false,                    // no-wait
			nil,                      // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeAttempts, err)
		}

		for _, q := range []Queue{QueueAttemptsRecorded, QueueAttemptsFailed} {
			if _, err := ch.QueueDeclare(string(q), true, false, false, false, nil); err != nil {
				return fmt.Errorf("declare queue %s: %w", q, err)
			}
		}

		bindings := []struct {
			queue      Queue
			routingKey RoutingKey
		}{
			{QueueAttemptsRecorded, RoutingKeySent},
			{QueueAttemptsRecorded, RoutingKeyFailed},
			{QueueAttemptsFailed, RoutingKeyFailed},
		}
		for _, b := range bindings {
			if err := ch.QueueBind(string(b.queue), string(b.routingKey), string(ExchangeAttempts), false, nil); err != nil {
				return fmt.Errorf("bind queue %s [%s]: %w", b.queue, b.routingKey, err)
			}
		}

		return nil
	})
}
