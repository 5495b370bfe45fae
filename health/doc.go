// Package health exposes liveness and readiness probes for the service.
//
// A Checker reports the health of one dependency; the Aggregator runs all
// registered checkers and folds their results into an overall status. The
// HTTP handlers serve the usual probe endpoints:
//
//	r.Get("/healthz", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(agg))
//	r.Get("/health", health.DetailedHandler(agg))
//
// The user store is the one hard dependency of this service; StoreChecker
// probes it with a lookup.
package health
