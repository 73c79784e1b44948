// SPDX-License-Identifier: MIT

package qubo

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrPenalty is returned when the penalty weight is not finite and > 0.
	ErrPenalty = errors.New("qubo: penalty must be finite and > 0")

	// ErrAssignmentLength is returned when an assignment does not carry one
	// value per variable.
	ErrAssignmentLength = errors.New("qubo: assignment length mismatch")

	// ErrVariableRange is returned when a term references an index outside [0, n).
	ErrVariableRange = errors.New("qubo: variable index out of range")

	// ErrTooLarge is returned by Exact above its variable limit.
	ErrTooLarge = errors.New("qubo: model too large for exhaustive search")
)

// Tolerance is the energy distance under which two energies tie.
const Tolerance = 1e-9

// Pair is a canonical unordered pair of distinct variables, I < J.
type Pair struct {
	I, J int
}

// NewPair returns the canonical form of {i, j}.
func NewPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{I: i, J: j}
}

// String renders "(i,j)".
func (p Pair) String() string { return fmt.Sprintf("(%d,%d)", p.I, p.J) }

// Term is one coefficient of a Model. I == J marks a linear term.
type Term struct {
	I, J   int
	Weight float64
}

// Linear reports whether t is a single-variable term.
func (t Term) Linear() bool { return t.I == t.J }

// Model is a QUBO over N binary variables:
//
//	E(x) = Offset + Σ Linear[i]·x_i + Σ Quadratic[{i,j}]·x_i·x_j
//
// Keys are canonical; adding to an existing key accumulates.
type Model struct {
	N         int
	Linear    map[int]float64
	Quadratic map[Pair]float64
	Offset    float64
}

// NewModel returns an empty model over n variables.
func NewModel(n int) *Model {
	return &Model{
		N:         n,
		Linear:    make(map[int]float64),
		Quadratic: make(map[Pair]float64),
	}
}

// AddLinear accumulates w on variable i.
func (m *Model) AddLinear(i int, w float64) {
	m.Linear[i] += w
}

// AddQuadratic accumulates w on the pair {i, j}. Since x² = x for binary
// variables, i == j folds into the linear term.
func (m *Model) AddQuadratic(i, j int, w float64) {
	if i == j {
		m.Linear[i] += w
		return
	}
	m.Quadratic[NewPair(i, j)] += w
}

// Terms returns every coefficient in canonical order: linear terms by
// ascending index, then quadratic terms by (I, J).
//
// Complexity: O(T log T) for T terms.
func (m *Model) Terms() []Term {
	out := make([]Term, 0, len(m.Linear)+len(m.Quadratic))
	for i, w := range m.Linear {
		out = append(out, Term{I: i, J: i, Weight: w})
	}
	for p, w := range m.Quadratic {
		out = append(out, Term{I: p.I, J: p.J, Weight: w})
	}
	sort.Slice(out, func(a, b int) bool {
		la, lb := out[a].Linear(), out[b].Linear()
		if la != lb {
			return la
		}
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})
	return out
}

// Clone returns a deep copy.
func (m *Model) Clone() *Model {
	c := NewModel(m.N)
	c.Offset = m.Offset
	for i, w := range m.Linear {
		c.Linear[i] = w
	}
	for p, w := range m.Quadratic {
		c.Quadratic[p] = w
	}
	return c
}

// checkRange verifies that every term index lies in [0, n).
func (m *Model) checkRange(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative variable count %d", ErrVariableRange, n)
	}
	for i := range m.Linear {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: linear term %d, n=%d", ErrVariableRange, i, n)
		}
	}
	for p := range m.Quadratic {
		if p.I < 0 || p.J >= n {
			return fmt.Errorf("%w: pair %v, n=%d", ErrVariableRange, p, n)
		}
	}
	return nil
}
