// Package metrics exports a check result in the Prometheus text format, for
// the node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dm/check-es/internal/check"
)

const namespace = "elasticsearch_check"

// Metrics holds the gauges describing one check run.
type Metrics struct {
	registry *prometheus.Registry

	Status    *prometheus.GaugeVec
	PerfValue *prometheus.GaugeVec
}

// New creates the gauges on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "status",
			Help:      "Check state: 0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN.",
		}, []string{"check"}),
		PerfValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "perf_value",
			Help:      "Performance data reported by the check.",
		}, []string{"check", "label"}),
	}
	m.registry.MustRegister(m.Status, m.PerfValue)
	return m
}

// Record sets the gauges from res under the check label name.
func (m *Metrics) Record(name string, res check.Result) {
	m.Status.WithLabelValues(name).Set(float64(res.Status.ExitCode()))
	for _, p := range res.Perf {
		m.PerfValue.WithLabelValues(name, p.Label).Set(p.Value)
	}
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the recorded metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write textfile %s: %w", path, err)
	}
	return nil
}

// Export records res and writes it to path in one step.
func Export(path, name string, res check.Result) error {
	m := New()
	m.Record(name, res)
	return m.WriteTextfile(path)
}
