// SPDX-License-Identifier: MIT

package qubo

import (
	"fmt"
	"sort"
)

// Ising is a spin model over N spins z_i ∈ {+1, −1}:
//
//	E(z) = Constant + Σ Bias[i]·z_i + Σ Coupling[{i,j}]·z_i·z_j
type Ising struct {
	N        int
	Constant float64
	Bias     []float64
	Coupling map[Pair]float64
}

// ToIsing rewrites m over n variables with x = (1 − z)/2:
//
//	linear    (i, w)   : Constant += w/2, Bias[i] −= w/2
//	quadratic ({i,j},w): Constant += w/4, Bias[i], Bias[j] −= w/4,
//	                     Coupling[{i,j}] += w/4
//
// Contributions accumulate. The result is energy-equivalent: for every
// bits, m.Energy(bits) == is.Energy(Spins(bits)) up to rounding.
//
// Errors: ErrVariableRange if n < 0 or a term references an index ≥ n.
//
// Complexity: O(T log T + n).
func ToIsing(m *Model, n int) (*Ising, error) {
	if err := m.checkRange(n); err != nil {
		return nil, err
	}

	is := &Ising{
		N:        n,
		Constant: m.Offset,
		Bias:     make([]float64, n),
		Coupling: make(map[Pair]float64, len(m.Quadratic)),
	}
	for _, t := range m.Terms() {
		if t.Linear() {
			is.Constant += t.Weight / 2
			is.Bias[t.I] -= t.Weight / 2
			continue
		}
		q := t.Weight / 4
		is.Constant += q
		is.Bias[t.I] -= q
		is.Bias[t.J] -= q
		is.Coupling[Pair{I: t.I, J: t.J}] += q
	}
	return is, nil
}

// Spins maps bits to spins with z = 1 − 2x, so bit 0 is spin +1 (|0⟩).
func Spins(bits []uint8) []int8 {
	z := make([]int8, len(bits))
	for i, b := range bits {
		if b != 0 {
			z[i] = -1
		} else {
			z[i] = 1
		}
	}
	return z
}

// Pairs returns the coupling keys in lexicographic order.
func (is *Ising) Pairs() []Pair {
	ps := make([]Pair, 0, len(is.Coupling))
	for p := range is.Coupling {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(a, b int) bool {
		if ps[a].I != ps[b].I {
			return ps[a].I < ps[b].I
		}
		return ps[a].J < ps[b].J
	})
	return ps
}

// Energy evaluates the model at spins.
func (is *Ising) Energy(spins []int8) (float64, error) {
	if len(spins) != is.N {
		return 0, fmt.Errorf("%w: got %d spins, model has %d", ErrAssignmentLength, len(spins), is.N)
	}
	e := is.Constant
	for i, h := range is.Bias {
		e += h * float64(spins[i])
	}
	for _, p := range is.Pairs() {
		e += is.Coupling[p] * float64(spins[p.I]) * float64(spins[p.J])
	}
	return e, nil
}
