package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/toastd/pkg/toast"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "toastd").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the request duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "toastd",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics collects notification and HTTP metrics.
//
// Metrics is a toast.Observer; subscribe it to a Center to count
// notifications:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	center.Subscribe(m)
//	router.Use(m.Handler)
//
// Collected series:
//   - toastd_notifications_total: notifications shown, by kind
//   - toastd_dismissals_total: dismissals started, by reason
//   - toastd_actions_total: action activations
//   - toastd_active_notifications: attached notifications
//   - toastd_overlay_active: 1 while the overlay exists
//   - toastd_overlays_created_total: overlay creations
//   - toastd_notification_lifetime_seconds: shown to removed, by kind
//   - toastd_http_requests_total: requests by route, method and status
//   - toastd_http_request_duration_seconds: request duration by route
type Metrics struct {
	notificationsTotal *prometheus.CounterVec
	dismissalsTotal    *prometheus.CounterVec
	actionsTotal       prometheus.Counter
	activeToasts       prometheus.Gauge
	overlayActive      prometheus.Gauge
	overlaysCreated    prometheus.Counter
	lifetime           *prometheus.HistogramVec
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// NewMetrics registers the collectors and returns them.
// It panics if the collectors are already registered with the registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		notificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of notifications shown",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		dismissalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dismissals_total",
			Help:        "Total number of dismissals started, by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		actionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "actions_total",
			Help:        "Total number of notification actions activated",
			ConstLabels: config.ConstLabels,
		}),

		activeToasts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_notifications",
			Help:        "Number of notifications attached to the overlay",
			ConstLabels: config.ConstLabels,
		}),

		overlayActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "overlay_active",
			Help:        "1 while the overlay exists, 0 otherwise",
			ConstLabels: config.ConstLabels,
		}),

		overlaysCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "overlays_created_total",
			Help:        "Total number of overlay creations",
			ConstLabels: config.ConstLabels,
		}),

		lifetime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notification_lifetime_seconds",
			Help:        "Time from shown to removed in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0.5, 1, 2, 4, 8, 15, 30, 60, 300}, // 500ms to 5m
		}, []string{"kind"}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),
	}
}

// OnEvent implements toast.Observer.
func (m *Metrics) OnEvent(e toast.Event) {
	switch e.Type {
	case toast.EventOverlayCreated:
		m.overlaysCreated.Inc()
		m.overlayActive.Set(1)
	case toast.EventOverlayDestroyed:
		m.overlayActive.Set(0)
	case toast.EventShown:
		m.notificationsTotal.WithLabelValues(string(e.Notification.Kind)).Inc()
		m.activeToasts.Inc()
	case toast.EventDismissing:
		m.dismissalsTotal.WithLabelValues(string(e.Reason)).Inc()
	case toast.EventAction:
		m.actionsTotal.Inc()
	case toast.EventRemoved:
		m.activeToasts.Dec()
		if !e.Notification.CreatedAt.IsZero() {
			m.lifetime.WithLabelValues(string(e.Notification.Kind)).
				Observe(e.At.Sub(e.Notification.CreatedAt).Seconds())
		}
	}
}

// Handler records request counts and durations. Routes are labelled with
// the chi route pattern so path parameters do not explode cardinality.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// routePattern returns the matched chi pattern, or "unmatched".
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
