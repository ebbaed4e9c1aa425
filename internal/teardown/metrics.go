package teardown

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what a run did. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	deletionsTotal  *prometheus.CounterVec
	domainsTotal    *prometheus.CounterVec
	pollPassesTotal *prometheus.CounterVec
	domainDuration  prometheus.Histogram
}

// NewMetrics creates the run metrics in their own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		deletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sagesweep",
				Subsystem: "teardown",
				Name:      "deletions_total",
				Help:      "Resources targeted for deletion by kind and result",
			},
			[]string{"kind", "result"},
		),
		domainsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sagesweep",
				Subsystem: "teardown",
				Name:      "domains_total",
				Help:      "Domains processed by outcome",
			},
			[]string{"outcome"},
		),
		pollPassesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sagesweep",
				Subsystem: "teardown",
				Name:      "poll_passes_total",
				Help:      "Listing passes made while waiting for child deletions",
			},
			[]string{"kind"},
		),
		domainDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "sagesweep",
				Subsystem: "teardown",
				Name:      "domain_duration_seconds",
				Help:      "Time spent tearing down one domain",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
			},
		),
	}
	m.registry.MustRegister(m.deletionsTotal, m.domainsTotal, m.pollPassesTotal, m.domainDuration)
	return m
}

// Registry exposes the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func (m *Metrics) recordDeletion(kind Kind, result string) {
	if m != nil {
		m.deletionsTotal.WithLabelValues(string(kind), result).Inc()
	}
}

func (m *Metrics) recordDomain(outcome Outcome, seconds float64) {
	if m != nil {
		m.domainsTotal.WithLabelValues(string(outcome)).Inc()
		if outcome != OutcomeSkipped {
			m.domainDuration.Observe(seconds)
		}
	}
}

func (m *Metrics) recordPollPass(kind Kind) {
	if m != nil {
		m.pollPassesTotal.WithLabelValues(string(kind)).Inc()
	}
}
