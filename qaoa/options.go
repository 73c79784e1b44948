// SPDX-License-Identifier: MIT

package qaoa

import (
	"github.com/go-logr/logr"

	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/metrics"
	"github.com/katalvlaran/netqaoa/store"
)

// Option customises a Solver.
type Option func(*options)

type options struct {
	log      logr.Logger
	metrics  *metrics.Registry
	store    *store.Store
	circuits []circuit.Option
}

func newOptions(opts ...Option) options {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the solver logger; the optimiser logs through it too.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records evaluations, backend runs and model size in reg.
// Panics on nil.
func WithMetrics(reg *metrics.Registry) Option {
	if reg == nil {
		panic("qaoa: WithMetrics(nil)")
	}
	return func(o *options) { o.metrics = reg }
}

// WithStore persists every run and its evaluation trace in st.
// Panics on nil.
func WithStore(st *store.Store) Option {
	if st == nil {
		panic("qaoa: WithStore(nil)")
	}
	return func(o *options) { o.store = st }
}

// WithCircuitOptions forwards options to every circuit build.
func WithCircuitOptions(opts ...circuit.Option) Option {
	return func(o *options) { o.circuits = append(o.circuits, opts...) }
}
