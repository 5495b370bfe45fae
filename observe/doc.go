// Package observe provides telemetry for the gatehouse service: structured
// JSON logging with credential redaction, OpenTelemetry tracing and
// metrics, and HTTP middleware that records per-request observations.
package observe
