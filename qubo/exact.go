// SPDX-License-Identifier: MIT

package qubo

import (
	"context"
	"fmt"
	"math"
)

// DefaultExactLimit caps Exact when the caller passes limit <= 0.
const DefaultExactLimit = 24

// ctxCheckEvery is the number of assignments between context polls.
const ctxCheckEvery = 1 << 12

// Solution is the result of an exhaustive search.
type Solution struct {
	Bits       []uint8 `json:"bits"`
	Energy     float64 `json:"energy"`
	Degeneracy int     `json:"degeneracy"` // assignments within Tolerance of Energy
	Visited    uint64  `json:"visited"`
}

// Exact enumerates all 2^n assignments of m and returns the minimum.
//
// Masks are visited in ascending integer order, bit i of the mask being
// variable i. A later mask replaces the incumbent only when it is lower by
// more than Tolerance, so the lowest-value assignment wins every tie.
//
// Errors: ErrTooLarge if m.N exceeds limit (DefaultExactLimit when limit
// <= 0); ctx.Err() if the context ends mid-search.
//
// Complexity: O(2^n · T) time, O(n + T) space.
func Exact(ctx context.Context, m *Model, limit int) (Solution, error) {
	if limit <= 0 {
		limit = DefaultExactLimit
	}
	if m.N > limit || m.N > 62 {
		return Solution{}, fmt.Errorf("%w: %d variables, limit %d", ErrTooLarge, m.N, limit)
	}
	if err := m.checkRange(m.N); err != nil {
		return Solution{}, err
	}

	var (
		n     = m.N
		terms = m.Terms()
		bits  = make([]uint8, n)
		all   = uint64(1) << uint(n)
		best  = math.Inf(1)
		arg   uint64
		deg   int
		mask  uint64
		i     int
		e     float64
	)
	for mask = 0; mask < all; mask++ {
		if mask%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Solution{}, err
			}
		}
		for i = 0; i < n; i++ {
			bits[i] = uint8((mask >> uint(i)) & 1)
		}
		e = evaluate(terms, m.Offset, bits)
		switch {
		case e < best-Tolerance:
			best, arg, deg = e, mask, 1
		case math.Abs(e-best) <= Tolerance:
			deg++
		}
	}

	out := make([]uint8, n)
	for i = 0; i < n; i++ {
		out[i] = uint8((arg >> uint(i)) & 1)
	}
	return Solution{Bits: out, Energy: best, Degeneracy: deg, Visited: all}, nil
}
