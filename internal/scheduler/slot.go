package scheduler

import (
	"fmt"
	"time"

	"github.com/shaiso/Notifyd/internal/domain"
)

// Normalizer переводит текущее время в слот "HH:MM" часового пояса развёртывания.
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

// NewNormalizer создаёт Normalizer для IANA-идентификатора часового пояса.
// Невалидный пояс — ошибка конфигурации при старте, а не на каждом вызове.
func NewNormalizer(timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: load timezone %q: %v", domain.ErrConfiguration, timezone, err)
	}
	return NewNormalizerIn(loc), nil
}

// NewNormalizerIn создаёт Normalizer для уже загруженного часового пояса.
func NewNormalizerIn(loc *time.Location) *Normalizer {
	return &Normalizer{loc: loc, now: time.Now}
}

// Location возвращает часовой пояс развёртывания.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Now возвращает один снимок текущего момента и его слот.
// Часы и минуты берутся из одного значения, поэтому переход минуты
// между чтениями невозможен.
func (n *Normalizer) Now() (time.Time, domain.Slot) {
	now := n.now()
	return now, n.SlotAt(now)
}

// SlotAt возвращает слот для момента t.
func (n *Normalizer) SlotAt(t time.Time) domain.Slot {
	return domain.Slot(t.In(n.loc).Format(domain.SlotLayout))
}
