package main

import (
	"strings"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(lookupFrom(nil))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.StoreBackend != StoreMemory {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, StoreMemory)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %s, want 1h", cfg.TokenTTL)
	}
	if cfg.LoginBurst != 5 {
		t.Errorf("LoginBurst = %d, want 5", cfg.LoginBurst)
	}
	if cfg.Observe.Tracing.Enabled || cfg.Observe.Metrics.Enabled {
		t.Error("tracing and metrics should be disabled by default")
	}
	if !cfg.Observe.Logging.Enabled || cfg.Observe.Logging.Level != "info" {
		t.Errorf("logging config = %+v, want enabled at info", cfg.Observe.Logging)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := LoadConfig(lookupFrom(map[string]string{
		"GATEHOUSE_ADDR":             ":9000",
		"GATEHOUSE_STORE":            StoreBadger,
		"GATEHOUSE_BADGER_PATH":      "/var/lib/gatehouse",
		"GATEHOUSE_TOKEN_TTL":        "30m",
		"GATEHOUSE_LOGIN_RATE":       "2.5",
		"GATEHOUSE_LOGIN_BURST":      "10",
		"GATEHOUSE_TRACING_EXPORTER": "stdout",
		"GATEHOUSE_METRICS_EXPORTER": "prometheus",
		"GATEHOUSE_LOG_LEVEL":        "debug",
	}))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Addr)
	}
	if cfg.StoreBackend != StoreBadger || cfg.BadgerPath != "/var/lib/gatehouse" {
		t.Errorf("store config = %q %q", cfg.StoreBackend, cfg.BadgerPath)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %s, want 30m", cfg.TokenTTL)
	}
	if cfg.LoginRate != 2.5 || cfg.LoginBurst != 10 {
		t.Errorf("throttle = %v/%d, want 2.5/10", cfg.LoginRate, cfg.LoginBurst)
	}
	if !cfg.Observe.Tracing.Enabled || cfg.Observe.Tracing.Exporter != "stdout" {
		t.Errorf("tracing = %+v, want stdout enabled", cfg.Observe.Tracing)
	}
	if !cfg.Observe.Metrics.Enabled || cfg.Observe.Metrics.Exporter != "prometheus" {
		t.Errorf("metrics = %+v, want prometheus enabled", cfg.Observe.Metrics)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "bad duration",
			env:     map[string]string{"GATEHOUSE_TOKEN_TTL": "soon"},
			wantErr: "GATEHOUSE_TOKEN_TTL",
		},
		{
			name:    "bad burst",
			env:     map[string]string{"GATEHOUSE_LOGIN_BURST": "many"},
			wantErr: "GATEHOUSE_LOGIN_BURST",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"GATEHOUSE_STORE": "postgres"},
			wantErr: "store backend",
		},
		{
			name:    "seed admin without password",
			env:     map[string]string{"GATEHOUSE_SEED_ADMIN_USERNAME": "root"},
			wantErr: "seed admin",
		},
		{
			name:    "bad tracing exporter",
			env:     map[string]string{"GATEHOUSE_TRACING_EXPORTER": "graphite"},
			wantErr: "exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(lookupFrom(tt.env))
			if err == nil {
				t.Fatal("LoadConfig() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
