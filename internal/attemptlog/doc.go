// Package attemptlog сохраняет записи о попытках доставки.
//
// Журнал best-effort: ошибка записи никогда не превращает успешную
// доставку в неуспешную и не прерывает цикл. Отброшенные записи
// видны как *DiscardedError (errors.Is(err, domain.ErrLogDiscarded)),
// в логах и в метрике notifyd_attempt_log_discarded_total.
package attemptlog
