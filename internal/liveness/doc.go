// Package liveness реализует выбор активного экземпляра primary/backup.
//
// Два состояния: ACTIVE и STANDBY (backup до первого опроса — UNDETERMINED).
// Опрос выполняется на собственной каденции и не связан с циклом уведомлений.
//
// Гистерезиса нет: нестабильный primary вызывает частое переключение,
// и ничто не мешает двум экземплярам одновременно считать себя активными.
package liveness
