package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/statekit-go/statekit/pkg/statekit"
)

// MetricsConfig configures the Prometheus middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "statekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus middleware.
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

// WithBuckets sets the histogram buckets.
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
		Namespace: "statekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for one middleware instance.
type metrics struct {
	opsTotal    *prometheus.CounterVec
	opDuration  *prometheus.HistogramVec
	opErrors    *prometheus.CounterVec
	rollbacks   prometheus.Counter
	flushes     prometheus.Counter
	activeFlush prometheus.Gauge
}

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total number of kernel operations by kind and status",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Kernel operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		opErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_errors_total",
			Help:        "Total number of failed kernel operations by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		rollbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rollbacks_total",
			Help:        "Total number of updates and transactions rolled back",
			ConstLabels: config.ConstLabels,
		}),

		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of effect queue flushes",
			ConstLabels: config.ConstLabels,
		}),

		activeFlush: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_flush",
			Help:        "1 while a flush is draining the effect queue",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for kernel
// operations.
//
// Metrics collected:
//   - statekit_operations_total: counter of operations by kind and status
//   - statekit_operation_duration_seconds: histogram of operation duration
//   - statekit_operation_errors_total: counter of failed operations by kind
//   - statekit_rollbacks_total: counter of rolled-back updates/transactions
//   - statekit_flushes_total: counter of effect queue flushes
//   - statekit_active_flush: gauge set while a flush is running
//
// Expose them with promhttp.Handler() or through the devtools server.
func Prometheus(opts ...MetricsOption) statekit.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	m := initMetrics(config)

	return func(op statekit.Op, next func() error) error {
		kind := op.Kind.String()

		if op.Kind == statekit.OpFlush {
			m.flushes.Inc()
			m.activeFlush.Set(1)
			defer m.activeFlush.Set(0)
		}

		start := time.Now()
		err := next()
		m.opDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "error"
			m.opErrors.WithLabelValues(kind).Inc()
			if op.Kind == statekit.OpUpdate || op.Kind == statekit.OpTransaction {
				m.rollbacks.Inc()
			}
		}
		m.opsTotal.WithLabelValues(kind, status).Inc()

		return err
	}
}
