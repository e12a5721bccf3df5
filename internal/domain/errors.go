package domain

import "errors"

// Виды ошибок цикла уведомлений.
var (
	// ErrTransientFetch — хранилище получателей недоступно или вернуло ошибку.
	// Цикл считается пустым, следующий цикл повторит чтение.
	ErrTransientFetch = errors.New("recipient fetch failed")

	// ErrDelivery — вызов функции доставки для одного получателя завершился ошибкой.
	ErrDelivery = errors.New("delivery failed")

	// ErrLogDiscarded — запись попытки не сохранена и намеренно отброшена.
	ErrLogDiscarded = errors.New("attempt log discarded")

	// ErrConfiguration — отсутствует или некорректна обязательная настройка.
	ErrConfiguration = errors.New("configuration error")

	// ErrProbe — проверка здоровья peer не прошла (таймаут, ошибка, не-2xx).
	ErrProbe = errors.New("peer probe failed")
)
