// Package middleware provides observability for toastd.
//
// This package includes:
//   - Prometheus collectors for notification lifecycle and HTTP traffic
//   - OpenTelemetry tracing middleware for chi routers
//
// # Prometheus Metrics
//
// Metrics doubles as a toast.Observer and as HTTP middleware:
//
//	m := middleware.NewMetrics(middleware.WithNamespace("toastd"))
//	unsubscribe := center.Subscribe(m)
//	defer unsubscribe()
//
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.Handler())
//
// HTTP series are labelled by chi route pattern, never by raw path.
//
// # OpenTelemetry Middleware
//
// OpenTelemetry wraps each request in a server span named after its route:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("toastd"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// Configure the global tracer provider in main() before starting the
// server; without one, spans are no-ops.
package middleware
