// Package metrics exposes validation outcomes as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/reoring/skema"
)

const namespace = "skema"

// Collector implements skema.Observer and prometheus.Collector. Unnamed
// validations are recorded under the "anonymous" schema label.
type Collector struct {
	validations *prometheus.CounterVec
	issues      *prometheus.HistogramVec
	duration    *prometheus.HistogramVec
}

var (
	_ skema.Observer       = (*Collector)(nil)
	_ prometheus.Collector = (*Collector)(nil)
)

// NewCollector creates the metrics and registers them on reg. A nil reg
// leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of validations by schema and outcome.",
			},
			[]string{"schema", "outcome"},
		),
		issues: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_issues",
				Help:      "Number of issues reported by failed validations.",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"schema"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of validations.",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"schema"},
		),
	}
	if reg != nil {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.validations.Describe(ch)
	c.issues.Describe(ch)
	c.duration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.validations.Collect(ch)
	c.issues.Collect(ch)
	c.duration.Collect(ch)
}

// ObserveValidation records one validation.
func (c *Collector) ObserveValidation(name string, res skema.Result, elapsed time.Duration) {
	if name == "" {
		name = "anonymous"
	}
	outcome := "ok"
	if !res.OK() {
		outcome = "failed"
		c.issues.WithLabelValues(name).Observe(float64(len(res.Issues)))
	}
	c.validations.WithLabelValues(name, outcome).Inc()
	c.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}
