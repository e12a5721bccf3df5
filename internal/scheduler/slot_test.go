package scheduler

import (
	"errors"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/shaiso/Notifyd/internal/domain"
)

var slotPattern = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

func TestNewNormalizer_InvalidTimezone(t *testing.T) {
	_, err := NewNormalizer("Nowhere/Atlantis")
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestNormalizer_SlotAt(t *testing.T) {
	n, err := NewNormalizer("Asia/Jerusalem")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		at   time.Time
		want domain.Slot
	}{
		// Зимнее время: UTC+2
		{"winter morning", time.Date(2026, 1, 15, 6, 30, 0, 0, time.UTC), "08:30"},
		// Летнее время: UTC+3
		{"summer evening", time.Date(2026, 7, 15, 17, 0, 59, 0, time.UTC), "20:00"},
		{"midnight padding", time.Date(2026, 1, 15, 22, 5, 0, 0, time.UTC), "00:05"},
		{"last minute of day", time.Date(2026, 1, 15, 21, 59, 59, 999, time.UTC), "23:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.SlotAt(tt.at); got != tt.want {
				t.Errorf("SlotAt(%s) = %s, want %s", tt.at, got, tt.want)
			}
		})
	}
}

func TestNormalizer_SlotFormat(t *testing.T) {
	zones := []string{"UTC", "Asia/Jerusalem", "America/St_Johns", "Asia/Kathmandu", "Pacific/Chatham"}
	start := time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC)

	for _, zone := range zones {
		n, err := NewNormalizer(zone)
		if err != nil {
			t.Fatalf("load %s: %v", zone, err)
		}

		// Двое суток с шагом 7 минут, включая переход на летнее время
		for at := start; at.Before(start.Add(48 * time.Hour)); at = at.Add(7 * time.Minute) {
			slot := string(n.SlotAt(at))
			m := slotPattern.FindStringSubmatch(slot)
			if m == nil {
				t.Fatalf("%s: slot %q does not match HH:MM", zone, slot)
			}
			hour, _ := strconv.Atoi(m[1])
			minute, _ := strconv.Atoi(m[2])
			if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
				t.Fatalf("%s: slot %q out of range", zone, slot)
			}
		}
	}
}

func TestNormalizer_NowUsesSingleSnapshot(t *testing.T) {
	n := NewNormalizerIn(time.UTC)

	calls := 0
	fixed := time.Date(2026, 5, 1, 9, 59, 59, 999_999_999, time.UTC)
	n.now = func() time.Time {
		calls++
		// Второй вызов уже в следующей минуте
		return fixed.Add(time.Duration(calls-1) * time.Second)
	}

	now, slot := n.Now()
	if calls != 1 {
		t.Fatalf("clock should be read once, got %d reads", calls)
	}
	if !now.Equal(fixed) {
		t.Errorf("expected %s, got %s", fixed, now)
	}
	if slot != "09:59" {
		t.Errorf("expected 09:59, got %s", slot)
	}
}
