// Package cli реализует утилиту notifyctl.
//
// CLI работает с HTTP-оболочкой notifyd и не импортирует её пакеты;
// исключение — команда slot, которая локально использует scheduler.Normalizer.
//
// Команды:
//   - trigger — ручной запуск цикла, печатает CycleReport
//   - health  — GET /health
//   - status  — GET /status (primary/backup)
//   - slot    — текущий слот "HH:MM" и следующее срабатывание каденции
//
// Вывод — таблица/список (tabwriter) или JSON с флагом --json.
// Данные пишутся в stdout, сообщения — в stderr.
package cli
