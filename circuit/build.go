// SPDX-License-Identifier: MIT

package circuit

import (
	"fmt"
	"math"

	"github.com/katalvlaran/netqaoa/qubo"
)

// Build returns the depth-p circuit for is at angles (γ_1..γ_p, β_1..β_p).
// See the package documentation for the exact gate order.
//
// Errors: ErrLayers, ErrAngleCount, ErrNoQubits, ErrBadAngle.
//
// Complexity: O(p·(n + |J|)).
func Build(is *qubo.Ising, angles []float64, p int, opts ...Option) (*Circuit, error) {
	if p < 1 {
		return nil, fmt.Errorf("%w: p=%d", ErrLayers, p)
	}
	if len(angles) != 2*p {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrAngleCount, len(angles), 2*p)
	}
	if is == nil || is.N < 1 {
		return nil, ErrNoQubits
	}
	for i, a := range angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, fmt.Errorf("%w: angles[%d]=%v", ErrBadAngle, i, a)
		}
	}

	var (
		cfg   = newConfig(opts...)
		n     = is.N
		pairs = is.Pairs()
		c     = &Circuit{
			Qubits: n,
			Layers: p,
			Gammas: append([]float64(nil), angles[:p]...),
			Betas:  append([]float64(nil), angles[p:]...),
		}
		q int
	)

	for q = 0; q < n; q++ {
		c.Gates = append(c.Gates, Gate{Op: OpH, Qubits: []int{q}})
	}

	for k := 1; k <= p; k++ {
		gamma, beta := c.Gammas[k-1], c.Betas[k-1]

		for q = 0; q < n; q++ {
			h := is.Bias[q]
			if math.Abs(h) <= cfg.threshold {
				continue
			}
			c.Gates = append(c.Gates, Gate{Op: OpRZ, Qubits: []int{q}, Angle: 2 * gamma * h, Layer: k})
		}

		for _, pr := range pairs {
			j := is.Coupling[pr]
			if math.Abs(j) <= cfg.threshold {
				continue
			}
			theta := 2 * gamma * j
			if cfg.decomposeZZ {
				c.Gates = append(c.Gates,
					Gate{Op: OpCX, Qubits: []int{pr.I, pr.J}, Layer: k},
					Gate{Op: OpRZ, Qubits: []int{pr.J}, Angle: theta, Layer: k},
					Gate{Op: OpCX, Qubits: []int{pr.I, pr.J}, Layer: k},
				)
				continue
			}
			c.Gates = append(c.Gates, Gate{Op: OpRZZ, Qubits: []int{pr.I, pr.J}, Angle: theta, Layer: k})
		}

		for q = 0; q < n; q++ {
			c.Gates = append(c.Gates, Gate{Op: OpRX, Qubits: []int{q}, Angle: 2 * beta, Layer: k})
		}
	}

	for q = 0; q < n; q++ {
		c.Gates = append(c.Gates, Gate{Op: OpMeasure, Qubits: []int{q}, Layer: p + 1})
	}

	return c, nil
}

// FromQUBO converts m over n variables with qubo.ToIsing and builds the
// circuit from the result.
func FromQUBO(m *qubo.Model, n int, angles []float64, p int, opts ...Option) (*Circuit, error) {
	if m == nil || n < 1 {
		return nil, ErrNoQubits
	}
	is, err := qubo.ToIsing(m, n)
	if err != nil {
		return nil, err
	}
	return Build(is, angles, p, opts...)
}
