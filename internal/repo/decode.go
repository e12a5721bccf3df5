package repo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shaiso/Notifyd/internal/domain"
)

// recipientRow — строка notification_settings в JSON-ответе PostgREST.
// user_id и times разбираются отдельно: их тип зависит от схемы таблицы.
type recipientRow struct {
	UserID   json.RawMessage `json:"user_id"`
	FCMToken *string         `json:"fcm_token"`
	Times    json.RawMessage `json:"times"`
	Enabled  bool            `json:"enabled"`
}

// decodeRecipient собирает Recipient из одной строки ответа.
// Ошибка относится только к этой строке.
func decodeRecipient(raw json.RawMessage) (domain.Recipient, error) {
	var row recipientRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return domain.Recipient{}, err
	}

	id, err := decodeID(row.UserID)
	if err != nil {
		return domain.Recipient{}, err
	}

	times, err := decodeTimes(row.Times)
	if err != nil {
		return domain.Recipient{}, fmt.Errorf("decode times for %s: %w", id, err)
	}

	rec := domain.Recipient{ID: id, Times: times, Enabled: row.Enabled}
	if row.FCMToken != nil {
		rec.DeliveryToken = *row.FCMToken
	}
	return rec, nil
}

// decodeID приводит user_id к строке: uuid/text как есть, bigint — десятичной записью.
func decodeID(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("decode user_id: %w", err)
	}

	switch t := v.(type) {
	case string:
		if t == "" {
			return "", errors.New("empty user_id")
		}
		return t, nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("unsupported user_id %s", raw)
	}
}

// decodeTimes разбирает расписание. Только JSON-массив считается расписанием:
// скаляр или null дают nil, и такой получатель никогда не совпадает.
func decodeTimes(raw []byte) ([]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}

	times, ok := v.([]any)
	if !ok {
		return nil, nil
	}
	return times, nil
}
