// Package middleware provides observability middleware for a statekit
// Registry.
//
// Middleware wraps kernel operations (update, transaction, batch, flush,
// destroy) on the caller's flow. Two implementations are provided:
//
//   - Prometheus: operation counters, duration histograms, and error
//     counters, registered with a configurable prometheus.Registerer.
//   - OpenTelemetry: one span per kernel operation via the global tracer
//     provider.
//
// Example:
//
//	reg := statekit.New(
//	    statekit.WithMiddleware(
//	        middleware.Prometheus(middleware.WithNamespace("myapp")),
//	        middleware.OpenTelemetry(),
//	    ),
//	)
package middleware
