package domain

import "time"

// LivenessMode — состояние монитора живости.
//
// Жизненный цикл (backup):
//
//	UNDETERMINED → ACTIVE ⇄ STANDBY
//
// Primary всегда ACTIVE.
type LivenessMode string

const (
	// LivenessUndetermined — backup ещё не опрашивал primary.
	LivenessUndetermined LivenessMode = "UNDETERMINED"

	// LivenessActive — экземпляр должен обслуживать уведомления.
	LivenessActive LivenessMode = "ACTIVE"

	// LivenessStandby — primary жив, экземпляр в резерве.
	LivenessStandby LivenessMode = "STANDBY"
)

// LivenessState — текущее решение монитора живости.
// Хранится только в памяти и пересчитывается на каждом опросе.
type LivenessState struct {
	IsPrimary bool         `json:"is_primary"`
	Mode      LivenessMode `json:"mode"`
	CheckedAt *time.Time   `json:"checked_at,omitempty"`
}

// Active возвращает true, если экземпляр считается активным.
func (s LivenessState) Active() bool {
	return s.Mode == LivenessActive
}
