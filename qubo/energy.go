// SPDX-License-Identifier: MIT

package qubo

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/netqaoa/sample"
)

// Energy evaluates m at bits (one 0/1 value per variable).
//
// Complexity: O(T log T) for T terms.
func (m *Model) Energy(bits []uint8) (float64, error) {
	if len(bits) != m.N {
		return 0, fmt.Errorf("%w: got %d bits, model has %d variables", ErrAssignmentLength, len(bits), m.N)
	}
	return evaluate(m.Terms(), m.Offset, bits), nil
}

// evaluate sums terms in the given order. bits must cover every index.
func evaluate(terms []Term, offset float64, bits []uint8) float64 {
	e := offset
	for _, t := range terms {
		if bits[t.I] == 0 || bits[t.J] == 0 {
			continue
		}
		e += t.Weight
	}
	return e
}

// ExpectedEnergy returns the count-weighted mean energy of dist. Outcomes
// are decoded with sample.Decode(s, m.N) and summed in ascending
// bit-string order, so the result does not depend on map iteration.
//
// Errors: sample.ErrEmpty when no trial was counted, sample.ErrBitstring
// for an undecodable outcome, sample.ErrNegativeCount for a negative count.
func (m *Model) ExpectedEnergy(dist sample.Distribution) (float64, error) {
	keys := make([]string, 0, len(dist))
	for s := range dist {
		keys = append(keys, s)
	}
	sort.Strings(keys)

	var (
		terms = m.Terms()
		total int
		sum   float64
		seen  int
		last  float64
	)
	for _, s := range keys {
		c := dist[s]
		if c < 0 {
			return 0, fmt.Errorf("%w: %q=%d", sample.ErrNegativeCount, s, c)
		}
		if c == 0 {
			continue
		}
		bits, err := sample.Decode(s, m.N)
		if err != nil {
			return 0, err
		}
		last = evaluate(terms, m.Offset, bits)
		sum += float64(c) * last
		total += c
		seen++
	}
	if total == 0 {
		return 0, sample.ErrEmpty
	}
	if seen == 1 {
		// degenerate distribution: exact energy, no rescaling error
		return last, nil
	}
	return sum / float64(total), nil
}

// Scored is a sampled outcome with its energy.
type Scored struct {
	sample.Outcome
	Energy float64 `json:"energy"`
}

// Lowest returns the sampled outcome with the lowest energy; ties within
// Tolerance go to the lowest bit-string value.
func (m *Model) Lowest(dist sample.Distribution) (Scored, error) {
	outs, err := dist.Outcomes(m.N)
	if err != nil {
		return Scored{}, err
	}

	var (
		terms = m.Terms()
		best  Scored
		found bool
	)
	for _, o := range outs {
		if o.Count <= 0 {
			continue
		}
		e := evaluate(terms, m.Offset, o.Bits)
		switch {
		case !found, e < best.Energy-Tolerance:
			best, found = Scored{Outcome: o, Energy: e}, true
		case e <= best.Energy+Tolerance && sample.Less(o.Bits, best.Bits):
			best = Scored{Outcome: o, Energy: e}
		}
	}
	if !found {
		return Scored{}, sample.ErrEmpty
	}
	return best, nil
}
