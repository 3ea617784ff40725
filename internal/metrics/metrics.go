// Package metrics counts provider calls and reconcile outcomes for a run and
// writes them in the node_exporter textfile-collector format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the counters of one run on a private registry. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	ProviderRequests *prometheus.CounterVec
	Records          *prometheus.CounterVec
	SkippedRows      *prometheus.CounterVec
}

// New creates a Recorder with its counters registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mailprov",
				Name:      "provider_requests_total",
				Help:      "Number of DNS provider API calls.",
			},
			[]string{"provider", "operation", "result"},
		),
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mailprov",
				Name:      "dns_records_total",
				Help:      "Number of planned DNS records by outcome.",
			},
			[]string{"domain", "outcome"},
		),
		SkippedRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mailprov",
				Name:      "sheet_rows_skipped_total",
				Help:      "Number of sheet rows dropped during planning.",
			},
			[]string{"reason"},
		),
	}
	r.registry.MustRegister(r.ProviderRequests, r.Records, r.SkippedRows)
	return r
}

// IncrementProvider counts one provider API call.
func (r *Recorder) IncrementProvider(provider, operation string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.ProviderRequests.WithLabelValues(provider, operation, result).Inc()
}

// IncrementRecord counts one reconcile outcome for domain.
func (r *Recorder) IncrementRecord(domain, outcome string) {
	if r == nil {
		return
	}
	r.Records.WithLabelValues(domain, outcome).Inc()
}

// IncrementSkippedRow counts one row dropped by the planner.
func (r *Recorder) IncrementSkippedRow(reason string) {
	if r == nil {
		return
	}
	r.SkippedRows.WithLabelValues(reason).Inc()
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all counters to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
