package domain

// Slot — время суток "HH:MM" в часовом поясе развёртывания.
// Используется только как ключ сравнения и никуда не сохраняется.
type Slot string

// SlotLayout — формат слота для time.Format.
const SlotLayout = "15:04"

// String реализует fmt.Stringer.
func (s Slot) String() string {
	return string(s)
}
