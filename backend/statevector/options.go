// SPDX-License-Identifier: MIT

package statevector

import "github.com/go-logr/logr"

const (
	// DefaultMaxQubits bounds the state vector at 2^22 amplitudes.
	DefaultMaxQubits = 22
	// hardMaxQubits is the largest value WithMaxQubits accepts.
	hardMaxQubits = 30
	// DefaultName is the name reported by Simulator.Name.
	DefaultName = "statevector"
)

// Option customises a Simulator.
type Option func(*config)

type config struct {
	seed      int64
	maxQubits int
	name      string
	log       logr.Logger
}

func newConfig(opts ...Option) config {
	cfg := config{
		maxQubits: DefaultMaxQubits,
		name:      DefaultName,
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSeed fixes the sampling seed (0 selects the package default).
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithMaxQubits sets the largest accepted circuit width.
// Panics unless 1 <= n <= 30.
func WithMaxQubits(n int) Option {
	if n < 1 || n > hardMaxQubits {
		panic("statevector: WithMaxQubits(n) requires 1 <= n <= 30")
	}
	return func(c *config) { c.maxQubits = n }
}

// WithName overrides the backend name used in logs and metrics.
// Panics on an empty name.
func WithName(name string) Option {
	if name == "" {
		panic("statevector: WithName(\"\")")
	}
	return func(c *config) { c.name = name }
}

// WithLogger attaches a logger; runs are logged at V(1).
func WithLogger(l logr.Logger) Option {
	return func(c *config) { c.log = l }
}
