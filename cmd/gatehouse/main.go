package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gatehouse-labs/gatehouse/auth"
	"github.com/gatehouse-labs/gatehouse/health"
	"github.com/gatehouse-labs/gatehouse/httpapi"
	"github.com/gatehouse-labs/gatehouse/observe"
	"github.com/gatehouse-labs/gatehouse/secret"
	"github.com/gatehouse-labs/gatehouse/store"
)

const version = "0.1.0"

func main() {
	// Operator helper: print a fresh signing key and exit.
	if os.Getenv("GATEHOUSE_KEYGEN") == "1" {
		keyHex, err := generateKeyHex()
		if err != nil {
			fmt.Fprintf(os.Stderr, "gatehouse: generate key: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(keyHex)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gatehouse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := LoadConfig(os.LookupEnv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	observer, err := observe.NewObserver(ctx, cfg.Observe)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = observer.Shutdown(shutdownCtx)
	}()

	logger := observer.Logger().WithComponent("main")

	key, err := loadSigningKey(ctx, cfg, logger)
	if err != nil {
		return err
	}

	userStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open user store: %w", err)
	}
	defer func() { _ = userStore.Close() }()
	logger.Info(ctx, "user store opened",
		observe.Field{Key: "backend", Value: cfg.StoreBackend},
	)

	if err := seedAdmin(ctx, cfg, userStore, logger); err != nil {
		return err
	}

	codec := auth.NewTokenCodec(key, auth.CodecConfig{TTL: cfg.TokenTTL})
	authenticator := auth.NewCredentialAuthenticator(store.UserSource(userStore), nil)

	metrics, err := observe.NewMetrics(observer.Meter())
	if err != nil {
		return fmt.Errorf("setup metrics: %w", err)
	}

	agg := health.NewAggregator(health.AggregatorConfig{})
	agg.Register(health.NewStoreChecker(userStore))

	router := httpapi.NewRouter(httpapi.RouterConfig{
		API: httpapi.NewAPI(httpapi.APIConfig{
			Store:         userStore,
			Authenticator: authenticator,
			Codec:         codec,
			Logger:        observer.Logger(),
			Metrics:       metrics,
		}),
		Codec: codec,
		Throttle: httpapi.NewLoginThrottle(httpapi.ThrottleConfig{
			Rate:  cfg.LoginRate,
			Burst: cfg.LoginBurst,
		}),
		Observe:      observe.NewMiddleware(observer.Tracer(), metrics, observer.Logger()),
		Metrics:      metrics,
		Liveness:     health.LivenessHandler(),
		Readiness:    health.ReadinessHandler(agg),
		HealthDetail: health.DetailedHandler(agg),
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "listening",
			observe.Field{Key: "addr", Value: cfg.Addr},
		)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// loadSigningKey resolves the configured signing key, or generates an
// ephemeral one. An ephemeral key invalidates all outstanding tokens on
// restart.
func loadSigningKey(ctx context.Context, cfg Config, logger observe.Logger) (auth.SigningKey, error) {
	if cfg.SigningKey == "" {
		key, err := auth.NewSigningKey()
		if err != nil {
			return nil, err
		}
		logger.Warn(ctx, "no signing key configured, generated an ephemeral key")
		return key, nil
	}

	resolved, err := secret.DefaultResolver().ResolveValue(ctx, cfg.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("resolve signing key: %w", err)
	}
	key, err := auth.ParseSigningKey(resolved)
	if err != nil {
		return nil, err
	}
	return key, nil
}

func openStore(cfg Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case StoreBadger:
		return store.OpenBadger(cfg.BadgerPath)
	default:
		return store.NewMemory(), nil
	}
}

// seedAdmin creates the initial administrator when configured. An already
// existing account is left untouched.
func seedAdmin(ctx context.Context, cfg Config, s store.Store, logger observe.Logger) error {
	if cfg.SeedAdminUsername == "" {
		return nil
	}

	user, err := store.NewUser(cfg.SeedAdminUsername, cfg.SeedAdminPassword, true)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	err = s.Create(ctx, user)
	if errors.Is(err, store.ErrExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	logger.Info(ctx, "seeded administrator",
		observe.Field{Key: "username", Value: cfg.SeedAdminUsername},
	)
	return nil
}

func generateKeyHex() (string, error) {
	key, err := auth.NewSigningKey()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}
