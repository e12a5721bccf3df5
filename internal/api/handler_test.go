package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shaiso/Notifyd/internal/liveness"
	"github.com/shaiso/Notifyd/internal/scheduler"
)

// --- fakes ---

type fakeCycles struct {
	report scheduler.CycleReport
	err    error
	calls  int
}

func (f *fakeCycles) RunNotificationCycle(ctx context.Context) (scheduler.CycleReport, error) {
	f.calls++
	return f.report, f.err
}

type fakeStatus struct{}

func (fakeStatus) Status() liveness.ServerStatus {
	return liveness.New(liveness.Config{
		IsPrimary:        true,
		PrimaryServerURL: "http://primary",
	}).Status()
}

func setupRouter(cycles CycleRunner) *http.ServeMux {
	h := NewHandler(Config{Cycles: cycles, Status: fakeStatus{}, Timezone: "Asia/Jerusalem"})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func TestHealth(t *testing.T) {
	mux := setupRouter(&fakeCycles{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "OK" || resp.Timezone != "Asia/Jerusalem" || resp.Server != ServerName {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestTriggerNotifications(t *testing.T) {
	cycles := &fakeCycles{report: scheduler.CycleReport{
		CycleID: "c1", Slot: "08:30", Fetched: 3, Matched: 2, Succeeded: 1, Failed: 1,
	}}
	mux := setupRouter(cycles)

	req := httptest.NewRequest(http.MethodPost, "/trigger-notifications", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	// Частичная ошибка доставки не делает ответ ошибочным
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cycles.calls != 1 {
		t.Errorf("expected one cycle, got %d", cycles.calls)
	}

	var resp TriggerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Report == nil || resp.Report.Failed != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestTriggerNotifications_Error(t *testing.T) {
	mux := setupRouter(&fakeCycles{err: errors.New("normalizer unavailable")})

	req := httptest.NewRequest(http.MethodPost, "/trigger-notifications", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp TriggerResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Success || resp.Error != "normalizer unavailable" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestTriggerNotifications_MethodNotAllowed(t *testing.T) {
	cycles := &fakeCycles{}
	mux := setupRouter(cycles)

	req := httptest.NewRequest(http.MethodGet, "/trigger-notifications", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
	if cycles.calls != 0 {
		t.Error("cycle must not run on GET")
	}
}

func TestStatus(t *testing.T) {
	mux := setupRouter(&fakeCycles{})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["isPrimary"] != true || resp["primaryServer"] != "http://primary" {
		t.Errorf("unexpected status: %v", resp)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
