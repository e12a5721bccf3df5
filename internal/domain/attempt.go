package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Коды статуса попытки доставки.
const (
	AttemptStatusSent   = 200
	AttemptStatusFailed = 500
)

// DispatchAttempt — запись об одной попытке доставки.
//
// Создаётся один раз на исход доставки, не изменяется и не читается
// обратно этим сервисом.
type DispatchAttempt struct {
	// ID — идентификатор попытки (используется как message id в MQ).
	ID uuid.UUID `json:"id"`

	// RecipientID — пользователь, которому отправлялось уведомление.
	RecipientID string `json:"user_id"`

	// StatusCode — 200 при успехе, 500 при ошибке.
	StatusCode int `json:"status"`

	// Message — свободное описание исхода.
	Message string `json:"message"`

	// CreatedAt — время фиксации исхода.
	// Хранилище проставляет собственное время при записи.
	CreatedAt time.Time `json:"created_at"`
}

// NewSentAttempt создаёт запись об успешной доставке в слот.
func NewSentAttempt(recipientID string, slot Slot) DispatchAttempt {
	return DispatchAttempt{
		ID:          uuid.New(),
		RecipientID: recipientID,
		StatusCode:  AttemptStatusSent,
		Message:     fmt.Sprintf("Notification sent at %s", slot),
		CreatedAt:   time.Now(),
	}
}

// NewFailedAttempt создаёт запись о неудачной доставке.
func NewFailedAttempt(recipientID string, cause error) DispatchAttempt {
	return DispatchAttempt{
		ID:          uuid.New(),
		RecipientID: recipientID,
		StatusCode:  AttemptStatusFailed,
		Message:     fmt.Sprintf("Error: %v", cause),
		CreatedAt:   time.Now(),
	}
}

// Succeeded возвращает true для записи об успешной доставке.
func (a *DispatchAttempt) Succeeded() bool {
	return a.StatusCode == AttemptStatusSent
}
