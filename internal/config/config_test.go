package config

import (
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Notifyd/internal/domain"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Port)
	}
	if cfg.Timezone != "Asia/Jerusalem" {
		t.Errorf("expected Asia/Jerusalem, got %s", cfg.Timezone)
	}
	if cfg.Store.Driver != StoreREST {
		t.Errorf("expected rest driver, got %s", cfg.Store.Driver)
	}
	if cfg.Liveness.PollInterval != 30*time.Second {
		t.Errorf("expected 30s liveness interval, got %v", cfg.Liveness.PollInterval)
	}
	if cfg.Timeouts.Probe != 5*time.Second {
		t.Errorf("expected 5s probe timeout, got %v", cfg.Timeouts.Probe)
	}
	if cfg.NotifyCron != "* * * * *" {
		t.Errorf("expected every-minute cron, got %q", cfg.NotifyCron)
	}
	if cfg.Liveness.IsPrimary {
		t.Error("IS_PRIMARY should default to false")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"PORT":                      "8090",
		"TIMEZONE":                  "Europe/Moscow",
		"SUPABASE_URL":              "https://example.supabase.co/",
		"SUPABASE_SERVICE_ROLE_KEY": "secret",
		"IS_PRIMARY":                "true",
		"PRIMARY_SERVER_URL":        "http://primary:3000/",
		"FETCH_TIMEOUT":             "2s",
		"DELIVERY_RATE_PER_SEC":     "2.5",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8090 {
		t.Errorf("expected port 8090, got %d", cfg.Port)
	}
	if cfg.Store.BaseURL != "https://example.supabase.co" {
		t.Errorf("trailing slash should be trimmed, got %s", cfg.Store.BaseURL)
	}
	if cfg.Liveness.PrimaryServerURL != "http://primary:3000" {
		t.Errorf("trailing slash should be trimmed, got %s", cfg.Liveness.PrimaryServerURL)
	}
	if !cfg.Liveness.IsPrimary {
		t.Error("IS_PRIMARY=true should enable primary mode")
	}
	if cfg.Timeouts.Fetch != 2*time.Second {
		t.Errorf("expected 2s fetch timeout, got %v", cfg.Timeouts.Fetch)
	}
	if cfg.DeliveryRatePerSec != 2.5 {
		t.Errorf("expected rate 2.5, got %v", cfg.DeliveryRatePerSec)
	}
}

func TestFromEnv_Malformed(t *testing.T) {
	_, err := FromEnv(lookupFrom(map[string]string{
		"PORT":          "abc",
		"FETCH_TIMEOUT": "soon",
	}))
	if err == nil {
		t.Fatal("expected error for malformed values")
	}
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		field  string
		wantOK bool
	}{
		{name: "defaults", wantOK: true},
		{name: "bad timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}, field: "TIMEZONE"},
		{name: "bad cron", env: map[string]string{"NOTIFY_CRON": "every minute"}, field: "NOTIFY_CRON"},
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "mongo"}, field: "STORE_DRIVER"},
		{name: "postgres without dsn", env: map[string]string{"STORE_DRIVER": "postgres"}, field: "DB_URL"},
		{name: "postgres with dsn", env: map[string]string{"STORE_DRIVER": "postgres", "DB_URL": "postgres://x"}, wantOK: true},
		{name: "zero probe timeout", env: map[string]string{"PROBE_TIMEOUT": "0s"}, field: "PROBE_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromEnv(lookupFrom(tt.env))
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}

			err = cfg.Validate()
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if cfg.Location == nil {
					t.Error("Location should be set after Validate")
				}
				return
			}

			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, cfgErr.Field)
			}
			if !errors.Is(err, domain.ErrConfiguration) {
				t.Error("config errors should match ErrConfiguration")
			}
		})
	}
}

func TestMissingStoreCredentials(t *testing.T) {
	cfg, _ := FromEnv(lookupFrom(map[string]string{"SUPABASE_URL": "https://x"}))
	if !cfg.MissingStoreCredentials() {
		t.Error("missing key should be reported")
	}

	cfg, _ = FromEnv(lookupFrom(map[string]string{"SUPABASE_URL": "https://x", "SUPABASE_SERVICE_ROLE_KEY": "k"}))
	if cfg.MissingStoreCredentials() {
		t.Error("credentials are complete")
	}
}

func TestFromEnv_IsPrimaryExactTrue(t *testing.T) {
	tests := map[string]bool{
		"true":  true,
		"TRUE":  false,
		"True":  false,
		"1":     false,
		"yes":   false,
		"false": false,
	}

	for value, want := range tests {
		cfg, err := FromEnv(lookupFrom(map[string]string{"IS_PRIMARY": value}))
		if err != nil {
			t.Fatalf("IS_PRIMARY=%q: unexpected error: %v", value, err)
		}
		if cfg.Liveness.IsPrimary != want {
			t.Errorf("IS_PRIMARY=%q: got %v, want %v", value, cfg.Liveness.IsPrimary, want)
		}
	}
}
