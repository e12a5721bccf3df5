package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Notifyd/internal/domain"
)

// MessageTypeAttemptRecorded — тип события о попытке доставки.
const MessageTypeAttemptRecorded = "attempt.recorded"

// Message — конверт события.
type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// AttemptPublisher публикует попытки доставки в RabbitMQ.
// Реализует attemptlog.Sink.
type AttemptPublisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewAttemptPublisher создаёт новый AttemptPublisher.
func NewAttemptPublisher(conn *Connection, logger *slog.Logger) *AttemptPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttemptPublisher{conn: conn, logger: logger}
}

// WriteAttempt публикует событие attempt.recorded.
// Ключ маршрутизации зависит от исхода: sent или failed.
func (p *AttemptPublisher) WriteAttempt(ctx context.Context, attempt domain.DispatchAttempt) error {
	msg := NewAttemptMessage(attempt)
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	routingKey := AttemptRoutingKey(attempt)

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(ctx,
			string(ExchangeAttempts),
			string(routingKey),
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Type:         msg.Type,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", ExchangeAttempts, routingKey, err)
		}

		p.logger.Debug("published attempt",
			"message_id", msg.ID,
			"user_id", attempt.RecipientID,
			"routing_key", routingKey,
		)
		return nil
	})
}

// NewAttemptMessage заворачивает попытку в конверт; ID совпадает с ID попытки.
func NewAttemptMessage(attempt domain.DispatchAttempt) *Message {
	return &Message{
		ID:        attempt.ID.String(),
		Type:      MessageTypeAttemptRecorded,
		Payload:   attempt,
		Timestamp: attempt.CreatedAt,
	}
}

// AttemptRoutingKey выбирает ключ маршрутизации по исходу.
func AttemptRoutingKey(attempt domain.DispatchAttempt) RoutingKey {
	if attempt.Succeeded() {
		return RoutingKeySent
	}
	return RoutingKeyFailed
}
