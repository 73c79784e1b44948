// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus instruments for a solver process:
// objective evaluations, backend runs and retries, and the size of the
// model being optimised.
//
// Every Registry owns its own prometheus.Registry, so tests and concurrent
// solvers never collide on the global default registerer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "netqaoa"

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusRetry = "retry"
)

// Registry holds all instruments.
type Registry struct {
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram

	BackendRunsTotal    *prometheus.CounterVec
	BackendRunDuration  *prometheus.HistogramVec
	BackendRetriesTotal prometheus.Counter

	BestEnergy    prometheus.Gauge
	QUBOVariables prometheus.Gauge
	CircuitGates  prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every instrument registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}
	f := promauto.With(reg)

	r.EvaluationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Objective evaluations by outcome",
		},
		[]string{"status"},
	)
	r.EvaluationDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of one objective evaluation including retries",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)
	r.BackendRunsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_runs_total",
			Help:      "Circuit executions by backend and outcome",
		},
		[]string{"backend", "status"},
	)
	r.BackendRunDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_run_duration_seconds",
			Help:      "Circuit execution latency",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"backend"},
	)
	r.BackendRetriesTotal = f.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_retries_total",
			Help:      "Retried evaluations after a transient backend failure",
		},
	)
	r.BestEnergy = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "best_energy",
		Help:      "Lowest expected energy seen in the current run",
	})
	r.QUBOVariables = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "qubo_variables",
		Help:      "Binary variables (qubits) of the current model",
	})
	r.CircuitGates = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_gates",
		Help:      "Gate count of the last built circuit",
	})

	return r
}

// RecordEvaluation records one objective evaluation.
func (r *Registry) RecordEvaluation(status string, d time.Duration) {
	r.EvaluationsTotal.WithLabelValues(status).Inc()
	r.EvaluationDuration.Observe(d.Seconds())
}

// RecordBackendRun records one circuit execution.
func (r *Registry) RecordBackendRun(backend, status string, d time.Duration) {
	r.BackendRunsTotal.WithLabelValues(backend, status).Inc()
	r.BackendRunDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// RecordRetry counts one retry of the same angles.
func (r *Registry) RecordRetry() {
	r.BackendRetriesTotal.Inc()
}

// SetModelSize publishes the variable and gate counts.
func (r *Registry) SetModelSize(variables, gates int) {
	r.QUBOVariables.Set(float64(variables))
	r.CircuitGates.Set(float64(gates))
}

// Prometheus returns the underlying registry.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
