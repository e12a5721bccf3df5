package scheduler

import (
	"fmt"
	"strconv"

	"github.com/shaiso/Notifyd/internal/domain"
)

// Matches проверяет, есть ли слот среди времён расписания.
// Каждое значение приводится к строке, затем сравнивается на точное равенство.
// Пустое или отсутствующее расписание не совпадает никогда.
func Matches(slot domain.Slot, times []any) bool {
	for _, t := range times {
		if TimeString(t) == string(slot) {
			return true
		}
	}
	return false
}

// TimeString приводит значение расписания из хранилища к строке.
//
// JSON-числа приходят как float64 и печатаются без экспоненты и лишних нулей:
// 830 → "830", 8.5 → "8.5". nil превращается в "null".
func TimeString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// TimeStrings приводит всё расписание к строкам (для логов).
func TimeStrings(times []any) []string {
	out := make([]string, len(times))
	for i, t := range times {
		out[i] = TimeString(t)
	}
	return out
}
