package observability

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	suitesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parsecgen",
			Subsystem: "generator",
			Name:      "suites_total",
			Help:      "Suites processed by the generator.",
		},
		[]string{"suite", "mode", "result"},
	)
	casesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parsecgen",
			Subsystem: "generator",
			Name:      "cases_total",
			Help:      "Golden cases emitted, by expected outcome.",
		},
		[]string{"suite", "expect_success"},
	)
	artifactBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "parsecgen",
			Subsystem: "generator",
			Name:      "artifact_bytes",
			Help:      "Size of written artifacts in bytes.",
			Buckets:   prometheus.ExponentialBuckets(256, 2, 10),
		},
		[]string{"suite"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		registry.MustRegister(suitesTotal, casesTotal, artifactBytes)
	})
}

// Gatherer exposes the generator metrics registry.
func Gatherer() prometheus.Gatherer {
	RegisterMetrics()
	return registry
}

// RecordSuite counts one generate or verify attempt for suite.
func RecordSuite(suite, mode string, err error) {
	RegisterMetrics()
	result := "ok"
	if err != nil {
		result = "error"
	}
	suitesTotal.WithLabelValues(suite, mode, result).Inc()
}

// RecordArtifact records the cases and size of one written artifact.
func RecordArtifact(suite string, successCases, failureCases, size int) {
	RegisterMetrics()
	casesTotal.WithLabelValues(suite, "true").Add(float64(successCases))
	casesTotal.WithLabelValues(suite, "false").Add(float64(failureCases))
	artifactBytes.WithLabelValues(suite).Observe(float64(size))
}

// WriteTextfile dumps the metrics in text exposition format for a
// node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Gatherer()); err != nil {
		return fmt.Errorf("observability: write metrics %s: %w", path, err)
	}
	return nil
}
