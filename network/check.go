// SPDX-License-Identifier: MIT

package network

import (
	"fmt"
	"math"
)

// Report is the constraint audit of one binary assignment.
type Report struct {
	Active         []Arc          `json:"active"`
	SinkInflow     map[string]int `json:"sink_inflow"`
	SourceOutflow  map[string]int `json:"source_outflow"`
	RelayIn        int            `json:"relay_in"`
	RelayOut       int            `json:"relay_out"`
	GenerationCost float64        `json:"generation_cost"`
	RelayCost      float64        `json:"relay_cost"`
	Violations     []string       `json:"violations,omitempty"`
}

// Satisfied is true when no constraint is violated.
func (r Report) Satisfied() bool { return len(r.Violations) == 0 }

// TotalCost is generation plus relay usage cost.
func (r Report) TotalCost() float64 { return r.GenerationCost + r.RelayCost }

// RelayNet is Σin − Σout at the relay.
func (r Report) RelayNet() int { return r.RelayIn - r.RelayOut }

// Check audits bits (indexed like arcs) against n:
//   - each sink receives exactly its demand,
//   - each source emits at most its capacity,
//   - the relay net inflow equals TargetOffset.
//
// Violations are listed in the deterministic order sinks, sources, relay.
// A length mismatch between arcs and bits is itself reported as a violation.
func (n *Network) Check(arcs []Arc, bits []uint8) Report {
	r := Report{
		SinkInflow:    make(map[string]int, len(n.Sinks)),
		SourceOutflow: make(map[string]int, len(n.Sources)),
	}
	if len(arcs) != len(bits) {
		r.Violations = append(r.Violations, fmt.Sprintf("assignment has %d bits for %d arcs", len(bits), len(arcs)))
		return r
	}

	for i, a := range arcs {
		if bits[i] == 0 {
			continue
		}
		r.Active = append(r.Active, a)
		switch a.Kind {
		case SourceToSink:
			r.SourceOutflow[a.From]++
			r.SinkInflow[a.To]++
		case SourceToRelay:
			r.SourceOutflow[a.From]++
			r.RelayIn++
		case RelayToSink:
			r.RelayOut++
			r.SinkInflow[a.To]++
		}
		if src, ok := n.Source(a.From); ok {
			r.GenerationCost += src.Cost
		}
		if a.Kind == SourceToRelay {
			r.RelayCost += n.Relay.UsageCost
		}
	}

	for _, k := range n.Sinks {
		if got := r.SinkInflow[k.Name]; got != k.Demand {
			r.Violations = append(r.Violations, fmt.Sprintf("sink %s: received %d, demand %d", k.Name, got, k.Demand))
		}
	}
	for _, s := range n.Sources {
		if got := r.SourceOutflow[s.Name]; got > s.Capacity {
			r.Violations = append(r.Violations, fmt.Sprintf("source %s: emitted %d, capacity %d", s.Name, got, s.Capacity))
		}
	}
	if math.Abs(float64(r.RelayNet())-n.Relay.TargetOffset) > 1e-9 {
		r.Violations = append(r.Violations, fmt.Sprintf("relay %s: net inflow %d, target %g", n.Relay.Name, r.RelayNet(), n.Relay.TargetOffset))
	}

	return r
}
