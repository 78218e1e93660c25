// Package metrics exports backing store and watch rule activity as
// Prometheus metrics. A Collector is both a backing.Logger and a
// watch.Logger, so one instance can be passed to WithLogger on stores and
// watchers alike and then registered with a prometheus.Registerer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	backing "github.com/goliatone/go-backing"
	"github.com/goliatone/go-backing/watch"
)

const (
	resultMatched = "matched"
	resultSkipped = "skipped"
	resultError   = "error"
)

// Collector counts store operations and rule evaluations.
type Collector struct {
	operations  *prometheus.CounterVec
	walkSeconds *prometheus.HistogramVec
	changed     prometheus.Histogram
	cycles      prometheus.Counter
	evaluations *prometheus.CounterVec
	evalSeconds *prometheus.HistogramVec
}

var (
	_ prometheus.Collector = (*Collector)(nil)
	_ backing.Logger       = (*Collector)(nil)
	_ watch.Logger         = (*Collector)(nil)
)

// NewCollector builds a Collector whose metric names start with namespace.
// An empty namespace defaults to "backing".
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "backing"
	}
	return &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by kind.",
		}, []string{"op"}),
		walkSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "walk_duration_seconds",
			Help:      "Duration of changed-only enumerations and baseline resets.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"op"}),
		changed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "changed_entries",
			Help:      "Entries returned by changed-only enumerations.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "cycles_total",
			Help:      "Back references met while walking nested models.",
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "evaluations_total",
			Help:      "Rule evaluations by engine and result.",
		}, []string{"engine", "result"}),
		evalSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of rule evaluations.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"engine"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.operations.Describe(ch)
	c.walkSeconds.Describe(ch)
	c.changed.Describe(ch)
	c.cycles.Describe(ch)
	c.evaluations.Describe(ch)
	c.evalSeconds.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.operations.Collect(ch)
	c.walkSeconds.Collect(ch)
	c.changed.Collect(ch)
	c.cycles.Collect(ch)
	c.evaluations.Collect(ch)
	c.evalSeconds.Collect(ch)
}

// LogStore implements backing.Logger.
func (c *Collector) LogStore(event backing.LogEvent) {
	c.operations.WithLabelValues(event.Op).Inc()
	switch event.Op {
	case backing.OpEnumerate:
		c.changed.Observe(float64(event.Changed))
	case backing.OpBaseline:
	default:
		return
	}
	c.walkSeconds.WithLabelValues(event.Op).Observe(event.Duration.Seconds())
	if event.Cycles > 0 {
		c.cycles.Add(float64(event.Cycles))
	}
}

// LogEvaluation implements watch.Logger.
func (c *Collector) LogEvaluation(event watch.LogEvent) {
	result := resultSkipped
	switch {
	case event.Err != nil:
		result = resultError
	case event.Matched:
		result = resultMatched
	}
	c.evaluations.WithLabelValues(event.Engine, result).Inc()
	c.evalSeconds.WithLabelValues(event.Engine).Observe(event.Duration.Seconds())
}
