package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gatehouse-labs/gatehouse/observe"
)

// Store backends selectable through configuration.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Config is the process configuration, read from the environment.
type Config struct {
	// Addr is the listen address.
	Addr string

	// SigningKey is the hex-encoded token signing key, or a secretref
	// pointing at one. Empty means generate an ephemeral key at boot.
	SigningKey string

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration

	// StoreBackend selects the user store implementation.
	StoreBackend string

	// BadgerPath is the database directory for the badger backend.
	BadgerPath string

	// LoginRate and LoginBurst tune the per-client login throttle.
	LoginRate  float64
	LoginBurst int

	// SeedAdminUsername and SeedAdminPassword create an initial
	// administrator on boot when both are set.
	SeedAdminUsername string
	SeedAdminPassword string

	// Observe configures telemetry.
	Observe observe.Config
}

// LoadConfig reads configuration through lookup, typically os.LookupEnv.
func LoadConfig(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		Addr:         envString(lookup, "GATEHOUSE_ADDR", ":8080"),
		SigningKey:   envString(lookup, "GATEHOUSE_SIGNING_KEY", ""),
		StoreBackend: envString(lookup, "GATEHOUSE_STORE", StoreMemory),
		BadgerPath:   envString(lookup, "GATEHOUSE_BADGER_PATH", "data/users"),

		SeedAdminUsername: envString(lookup, "GATEHOUSE_SEED_ADMIN_USERNAME", ""),
		SeedAdminPassword: envString(lookup, "GATEHOUSE_SEED_ADMIN_PASSWORD", ""),
	}

	var err error
	if cfg.TokenTTL, err = envDuration(lookup, "GATEHOUSE_TOKEN_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.LoginRate, err = envFloat(lookup, "GATEHOUSE_LOGIN_RATE", 1); err != nil {
		return Config{}, err
	}
	if cfg.LoginBurst, err = envInt(lookup, "GATEHOUSE_LOGIN_BURST", 5); err != nil {
		return Config{}, err
	}

	samplePct, err := envFloat(lookup, "GATEHOUSE_TRACING_SAMPLE_PCT", 1)
	if err != nil {
		return Config{}, err
	}

	tracingExporter := envString(lookup, "GATEHOUSE_TRACING_EXPORTER", "")
	metricsExporter := envString(lookup, "GATEHOUSE_METRICS_EXPORTER", "")

	cfg.Observe = observe.Config{
		ServiceName: "gatehouse",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   tracingExporter != "",
			Exporter:  tracingExporter,
			SamplePct: samplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  metricsExporter != "",
			Exporter: metricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   envString(lookup, "GATEHOUSE_LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory, StoreBadger:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	}

	if (c.SeedAdminUsername == "") != (c.SeedAdminPassword == "") {
		return fmt.Errorf("seed admin username and password must be set together")
	}

	return c.Observe.Validate()
}

func envString(lookup func(string) (string, bool), key, fallback string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

func envDuration(lookup func(string) (string, bool), key string, fallback time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func envFloat(lookup func(string) (string, bool), key string, fallback float64) (float64, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func envInt(lookup func(string) (string, bool), key string, fallback int) (int, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
