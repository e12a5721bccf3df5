package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Notifyd/internal/dispatch"
	"github.com/shaiso/Notifyd/internal/domain"
)

// --- fakes ---

type fakeSource struct {
	recipients []domain.Recipient
	err        error
	calls      int
}

func (f *fakeSource) FetchEligible(ctx context.Context) ([]domain.Recipient, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("fetch must be bounded by a deadline")
	}
	return f.recipients, f.err
}

type fakeDeliverer struct {
	mu    sync.Mutex
	fail  map[string]error
	calls []string
	at    []time.Time
}

func (f *fakeDeliverer) Deliver(_ context.Context, r domain.Recipient, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.ID)
	f.at = append(f.at, at)
	return f.fail[r.ID]
}

type fakeRecorder struct {
	mu       sync.Mutex
	attempts []domain.DispatchAttempt
}

func (f *fakeRecorder) Record(_ context.Context, a domain.DispatchAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, a)
	return nil
}

func newTestScheduler(source RecipientSource, deliverer *fakeDeliverer, recorder *fakeRecorder, now time.Time) *Scheduler {
	n := NewNormalizerIn(time.UTC)
	n.now = func() time.Time { return now }

	return New(Config{
		Normalizer: n,
		Source:     source,
		Dispatcher: dispatch.New(dispatch.Config{Deliverer: deliverer, Recorder: recorder}),
	})
}

// --- RunNotificationCycle ---

func TestRunNotificationCycle_SingleMatch(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 12, 0, time.UTC)
	source := &fakeSource{recipients: []domain.Recipient{
		{ID: "u1", DeliveryToken: "tok-1", Times: []any{"08:30", "20:00"}, Enabled: true},
	}}
	deliverer := &fakeDeliverer{}
	recorder := &fakeRecorder{}

	report, err := newTestScheduler(source, deliverer, recorder, now).RunNotificationCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Slot != "08:30" {
		t.Errorf("expected slot 08:30, got %s", report.Slot)
	}
	if report.Fetched != 1 || report.Matched != 1 || report.Succeeded != 1 || report.Failed != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.CycleID == "" {
		t.Error("cycle id should be set")
	}

	if len(deliverer.calls) != 1 || deliverer.calls[0] != "u1" {
		t.Fatalf("expected one delivery to u1, got %v", deliverer.calls)
	}
	if !deliverer.at[0].Equal(now) {
		t.Errorf("delivery should carry the cycle instant %s, got %s", now, deliverer.at[0])
	}

	if len(recorder.attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(recorder.attempts))
	}
	a := recorder.attempts[0]
	if a.StatusCode != 200 || a.RecipientID != "u1" || a.Message != "Notification sent at 08:30" {
		t.Errorf("unexpected attempt: %+v", a)
	}
}

func TestRunNotificationCycle_PartialFailure(t *testing.T) {
	now := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	source := &fakeSource{recipients: []domain.Recipient{
		{ID: "u1", DeliveryToken: "tok-1", Times: []any{"20:00"}, Enabled: true},
		{ID: "u2", DeliveryToken: "tok-2", Times: []any{"20:00"}, Enabled: true},
	}}
	deliverer := &fakeDeliverer{fail: map[string]error{
		"u2": errors.New("timeout of 30000ms exceeded"),
	}}
	recorder := &fakeRecorder{}

	report, err := newTestScheduler(source, deliverer, recorder, now).RunNotificationCycle(context.Background())
	if err != nil {
		t.Fatalf("partial failure must not surface as error: %v", err)
	}

	if report.Succeeded != 1 || report.Failed != 1 {
		t.Errorf("expected 1 succeeded and 1 failed, got %+v", report)
	}
	if len(recorder.attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(recorder.attempts))
	}

	byUser := map[string]domain.DispatchAttempt{}
	for _, a := range recorder.attempts {
		byUser[a.RecipientID] = a
	}
	if byUser["u1"].StatusCode != 200 {
		t.Errorf("u1 should be 200, got %d", byUser["u1"].StatusCode)
	}
	if byUser["u2"].StatusCode != 500 {
		t.Errorf("u2 should be 500, got %d", byUser["u2"].StatusCode)
	}
	if byUser["u2"].Message != "Error: timeout of 30000ms exceeded" {
		t.Errorf("unexpected failure message: %q", byUser["u2"].Message)
	}
}

func TestRunNotificationCycle_FetchError(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	deliverer := &fakeDeliverer{}
	recorder := &fakeRecorder{}

	report, err := newTestScheduler(source, deliverer, recorder, time.Now()).RunNotificationCycle(context.Background())
	if err != nil {
		t.Fatalf("fetch failure must not surface as error: %v", err)
	}

	if report.Fetched != 0 || report.Matched != 0 {
		t.Errorf("expected empty cycle, got %+v", report)
	}
	if len(deliverer.calls) != 0 {
		t.Errorf("expected no deliveries, got %v", deliverer.calls)
	}
	if len(recorder.attempts) != 0 {
		t.Errorf("expected no attempts, got %d", len(recorder.attempts))
	}
}

func TestRunNotificationCycle_NoMatches(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	source := &fakeSource{recipients: []domain.Recipient{
		{ID: "u1", DeliveryToken: "tok-1", Times: []any{"08:30"}, Enabled: true},
		{ID: "u2", DeliveryToken: "tok-2", Times: []any{}, Enabled: true},
	}}
	deliverer := &fakeDeliverer{}
	recorder := &fakeRecorder{}

	report, _ := newTestScheduler(source, deliverer, recorder, now).RunNotificationCycle(context.Background())

	if report.Fetched != 2 || report.Matched != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	if len(deliverer.calls) != 0 || len(recorder.attempts) != 0 {
		t.Error("a cycle with zero matches must be a no-op")
	}
}

func TestRunNotificationCycle_SkipsIneligible(t *testing.T) {
	now := time.Date(2026, 10, 19, 7, 15, 0, 0, time.UTC)
	source := &fakeSource{recipients: []domain.Recipient{
		{ID: "disabled", DeliveryToken: "tok", Times: []any{"07:15"}, Enabled: false},
		{ID: "no-token", DeliveryToken: "", Times: []any{"07:15"}, Enabled: true},
		{ID: "ok", DeliveryToken: "tok", Times: []any{"07:15"}, Enabled: true},
	}}
	deliverer := &fakeDeliverer{}
	recorder := &fakeRecorder{}

	report, _ := newTestScheduler(source, deliverer, recorder, now).RunNotificationCycle(context.Background())

	if report.Matched != 1 {
		t.Fatalf("expected only eligible recipient to match, got %+v", report)
	}
	if len(deliverer.calls) != 1 || deliverer.calls[0] != "ok" {
		t.Errorf("unexpected deliveries: %v", deliverer.calls)
	}
}
