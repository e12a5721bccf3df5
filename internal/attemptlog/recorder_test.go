package attemptlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Notifyd/internal/domain"
)

// --- fakes ---

type memSink struct {
	mu       sync.Mutex
	attempts []domain.DispatchAttempt
}

func (m *memSink) WriteAttempt(_ context.Context, a domain.DispatchAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
	return nil
}

type sinkFunc func(ctx context.Context, a domain.DispatchAttempt) error

func (f sinkFunc) WriteAttempt(ctx context.Context, a domain.DispatchAttempt) error {
	return f(ctx, a)
}

func attempt() domain.DispatchAttempt {
	return domain.NewSentAttempt("u1", "08:30")
}

// --- Record ---

func TestRecord_WritesToAllSinks(t *testing.T) {
	a, b := &memSink{}, &memSink{}
	r := New(Config{Sinks: []NamedSink{{"a", a}, {"b", b}}})

	if err := r.Record(context.Background(), attempt()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.attempts) != 1 || len(b.attempts) != 1 {
		t.Errorf("expected one write per sink, got %d and %d", len(a.attempts), len(b.attempts))
	}
}

func TestRecord_NoSinks(t *testing.T) {
	r := New(Config{})
	if err := r.Record(context.Background(), attempt()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRecord_FailureIsDiscarded(t *testing.T) {
	cause := errors.New("HTTP 503: unavailable")
	ok := &memSink{}
	r := New(Config{Sinks: []NamedSink{
		{"broken", sinkFunc(func(context.Context, domain.DispatchAttempt) error { return cause })},
		{"ok", ok},
	}})

	err := r.Record(context.Background(), attempt())
	if !errors.Is(err, domain.ErrLogDiscarded) {
		t.Fatalf("expected ErrLogDiscarded, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause should be preserved: %v", err)
	}

	var de *DiscardedError
	if !errors.As(err, &de) {
		t.Fatalf("expected DiscardedError, got %T", err)
	}
	if de.Sink != "broken" || de.RecipientID != "u1" {
		t.Errorf("unexpected DiscardedError: %+v", de)
	}

	if len(ok.attempts) != 1 {
		t.Error("a failing sink must not stop writes to the others")
	}
}

func TestRecord_PanicIsDiscarded(t *testing.T) {
	r := New(Config{Sinks: []NamedSink{
		{"panicky", sinkFunc(func(context.Context, domain.DispatchAttempt) error { panic("boom") })},
	}})

	err := r.Record(context.Background(), attempt())
	if !errors.Is(err, domain.ErrLogDiscarded) {
		t.Errorf("expected ErrLogDiscarded, got %v", err)
	}
}

func TestRecord_TimeoutApplied(t *testing.T) {
	r := New(Config{
		Timeout: 20 * time.Millisecond,
		Sinks: []NamedSink{
			{"slow", sinkFunc(func(ctx context.Context, _ domain.DispatchAttempt) error {
				<-ctx.Done()
				return ctx.Err()
			})},
		},
	})

	err := r.Record(context.Background(), attempt())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if !errors.Is(err, domain.ErrLogDiscarded) {
		t.Errorf("expected ErrLogDiscarded, got %v", err)
	}
}
