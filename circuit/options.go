// SPDX-License-Identifier: MIT
//
// options.go — functional options for Build and FromQUBO.
//
// Contract:
//   • Options are functional (type Option func(*config)).
//   • Constructors validate and panic on meaningless inputs; Build itself
//     never panics.
//   • Later options override earlier ones.

package circuit

import "math"

// DefaultBiasThreshold is the magnitude under which a bias or coupling is
// treated as zero and emits no gate.
const DefaultBiasThreshold = 1e-12

// Option customises circuit construction.
type Option func(*config)

type config struct {
	decomposeZZ bool
	threshold   float64
}

func newConfig(opts ...Option) config {
	cfg := config{threshold: DefaultBiasThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithDecomposedZZ emits each rzz(θ) on (i, j) as cx(i,j) · rz(θ) on j ·
// cx(i,j), for backends without a native two-qubit phase gate.
func WithDecomposedZZ() Option {
	return func(c *config) { c.decomposeZZ = true }
}

// WithBiasThreshold sets the zero cut-off for biases and couplings.
// Panics if eps is negative or not finite.
func WithBiasThreshold(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic("circuit: WithBiasThreshold(eps<0 or non-finite)")
	}
	return func(c *config) { c.threshold = eps }
}
