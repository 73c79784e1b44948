// SPDX-License-Identifier: MIT

package qubo

import (
	"fmt"
	"math"

	"github.com/katalvlaran/netqaoa/network"
)

// Build encodes net as a penalty QUBO with weight penalty and returns the
// model together with the arc records that give each variable its meaning
// (arcs[i] is variable i).
//
// Terms, in construction order:
//  1. cost:     source unit cost on every arc leaving that source;
//  2. demand:   P·(Σ into sink − demand)² for each sink;
//  3. capacity: P·(Σ out of source − capacity)² for each source;
//  4. relay:    P·(Σ into relay − Σ out of relay − TargetOffset)²;
//  5. usage:    Relay.UsageCost on every arc into the relay.
//
// Errors: *network.ConfigurationError for an invalid net, ErrPenalty for a
// non-positive or non-finite penalty.
//
// Complexity: O(A²) for A arcs (pairwise expansion per constraint).
func Build(net *network.Network, penalty float64) (*Model, []network.Arc, error) {
	if err := net.Validate(); err != nil {
		return nil, nil, err
	}
	if math.IsNaN(penalty) || math.IsInf(penalty, 0) || penalty <= 0 {
		return nil, nil, fmt.Errorf("%w: got %v", ErrPenalty, penalty)
	}

	var (
		arcs = net.Arcs()
		m    = NewModel(len(arcs))
		a    network.Arc
	)

	// 1. generation cost
	for _, a = range arcs {
		if a.Kind == network.RelayToSink {
			continue
		}
		if src, ok := net.Source(a.From); ok && src.Cost != 0 {
			m.AddLinear(a.Index, src.Cost)
		}
	}

	// 2. sink demand
	for _, k := range net.Sinks {
		vars, coeffs := collect(arcs, func(a network.Arc) float64 {
			if a.To == k.Name {
				return 1
			}
			return 0
		})
		addSquaredPenalty(m, vars, coeffs, float64(k.Demand), penalty)
	}

	// 3. source capacity
	for _, s := range net.Sources {
		vars, coeffs := collect(arcs, func(a network.Arc) float64 {
			if a.From == s.Name {
				return 1
			}
			return 0
		})
		addSquaredPenalty(m, vars, coeffs, float64(s.Capacity), penalty)
	}

	// 4. relay conservation
	relay := net.Relay.Name
	vars, coeffs := collect(arcs, func(a network.Arc) float64 {
		switch {
		case a.To == relay:
			return 1
		case a.From == relay:
			return -1
		}
		return 0
	})
	addSquaredPenalty(m, vars, coeffs, net.Relay.TargetOffset, penalty)

	// 5. relay usage bias
	if net.Relay.UsageCost != 0 {
		for _, a = range arcs {
			if a.Kind == network.SourceToRelay {
				m.AddLinear(a.Index, net.Relay.UsageCost)
			}
		}
	}

	return m, arcs, nil
}

// collect returns the indices and non-zero coefficients that coeff assigns
// to arcs, in arc order.
func collect(arcs []network.Arc, coeff func(network.Arc) float64) ([]int, []float64) {
	var (
		vars   []int
		coeffs []float64
	)
	for _, a := range arcs {
		if c := coeff(a); c != 0 {
			vars = append(vars, a.Index)
			coeffs = append(coeffs, c)
		}
	}
	return vars, coeffs
}

// addSquaredPenalty expands P·(Σ coeffs[k]·x_vars[k] − target)² into m.
// vars must be distinct.
func addSquaredPenalty(m *Model, vars []int, coeffs []float64, target, p float64) {
	for a := range vars {
		c := coeffs[a]
		m.AddLinear(vars[a], p*c*c-2*p*target*c)
		for b := a + 1; b < len(vars); b++ {
			m.AddQuadratic(vars[a], vars[b], 2*p*c*coeffs[b])
		}
	}
	m.Offset += p * target * target
}
