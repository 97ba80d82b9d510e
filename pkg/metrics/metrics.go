// Package metrics exports render statistics to Prometheus.
//
// A Metrics value implements markup.Observer and can also receive
// attribute coercion notices:
//
//	m := metrics.New(metrics.WithNamespace("docs"))
//	r := markup.NewRenderer(markup.RendererConfig{Observer: m})
//	schema.SetNoticeHandler(m.NoticeHandler(schema.LogNotice))
//
//	http.Handle("/metrics", promhttp.Handler())
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/schema"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "markup").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "markup",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the render collectors.
type Metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	expansions     *prometheus.CounterVec
	notices        *prometheus.CounterVec
}

var _ markup.Observer = (*Metrics)(nil)

// New creates and registers the collectors.
//
// Metrics collected:
//   - markup_renders_total: renders by root node type and status
//   - markup_render_duration_seconds: render duration by root node type
//   - markup_render_errors_total: failed renders by root node type and error code
//   - markup_expansions_total: composite expansions by node type
//   - markup_coercion_notices_total: deprecation notices by node type and attribute
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of node trees rendered",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of failed renders by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "code"}),

		expansions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "expansions_total",
			Help:        "Total number of composite expansions",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		notices: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "coercion_notices_total",
			Help:        "Total number of deprecated attribute coercions",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "attribute"}),
	}
}

// ObserveExpansion implements markup.Observer.
func (m *Metrics) ObserveExpansion(nodeType string) {
	m.expansions.WithLabelValues(nodeType).Inc()
}

// ObserveRender implements markup.Observer.
func (m *Metrics) ObserveRender(nodeType string, d time.Duration, err error) {
	m.renderDuration.WithLabelValues(nodeType).Observe(d.Seconds())

	status := "success"
	if err != nil {
		status = "error"
		m.renderErrors.WithLabelValues(nodeType, errorCode(err)).Inc()
	}
	m.rendersTotal.WithLabelValues(nodeType, status).Inc()
}

// ObserveNotice counts a coercion notice.
func (m *Metrics) ObserveNotice(n schema.Notice) {
	m.notices.WithLabelValues(n.NodeType, n.Attribute).Inc()
}

// NoticeHandler returns a schema.NoticeHandler that counts each notice and
// then passes it to next, if set.
func (m *Metrics) NoticeHandler(next schema.NoticeHandler) schema.NoticeHandler {
	return func(n schema.Notice) {
		m.ObserveNotice(n)
		if next != nil {
			next(n)
		}
	}
}

// errorCode keeps the label set bounded by using the registered code.
func errorCode(err error) string {
	var me *markup.Error
	if errors.As(err, &me) && me.Code != "" {
		return me.Code
	}
	return "internal"
}
