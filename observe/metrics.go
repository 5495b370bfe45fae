package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels recorded on auth metrics.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeStoreError         = "store_error"
	OutcomeExpired            = "expired"
	OutcomeBadSignature       = "bad_signature"
	OutcomeMalformed          = "malformed"
)

// Metrics records authentication and HTTP observations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLogin records one login attempt with its outcome label.
	RecordLogin(ctx context.Context, outcome string)

	// RecordTokenCheck records one bearer token verification with its
	// outcome label.
	RecordTokenCheck(ctx context.Context, outcome string)

	// RecordRequest records one completed HTTP request.
	RecordRequest(ctx context.Context, method string, status int, duration time.Duration)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	loginCount   metric.Int64Counter
	tokenCount   metric.Int64Counter
	requestCount metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	loginCount, err := meter.Int64Counter(
		"auth.login.attempts",
		metric.WithDescription("Total number of login attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	tokenCount, err := meter.Int64Counter(
		"auth.token.checks",
		metric.WithDescription("Total number of bearer token verifications"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Total number of HTTP requests served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"http.server.duration_ms",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		loginCount:   loginCount,
		tokenCount:   tokenCount,
		requestCount: requestCount,
		durationHist: durationHist,
	}, nil
}

// RecordLogin records one login attempt.
func (m *metricsImpl) RecordLogin(ctx context.Context, outcome string) {
	m.loginCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordTokenCheck records one token verification.
func (m *metricsImpl) RecordTokenCheck(ctx context.Context, outcome string) {
	m.tokenCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordRequest records one completed HTTP request.
func (m *metricsImpl) RecordRequest(ctx context.Context, method string, status int, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	)
	m.requestCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// NopMetrics is a metrics implementation that does nothing.
type NopMetrics struct{}

func (NopMetrics) RecordLogin(ctx context.Context, outcome string)      {}
func (NopMetrics) RecordTokenCheck(ctx context.Context, outcome string) {}
func (NopMetrics) RecordRequest(ctx context.Context, method string, status int, duration time.Duration) {
}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = NopMetrics{}
)
