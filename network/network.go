// SPDX-License-Identifier: MIT

package network

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// New assembles a Network from the map-based inputs used by the QUBO
// builder: an ordered source list, ordered sinks (with demands), the relay,
// and per-source cost and capacity tables.
//
// Contract:
//   - every source must have an entry in costs and capacities;
//   - names must be non-empty, free of Separator and unique across roles;
//   - the relay name must not collide with any source or sink.
//
// Errors: *ConfigurationError (errors.Is(err, ErrConfiguration)).
//
// Complexity: O(S + K) for S sources and K sinks.
func New(
	sources []string,
	sinks []Sink,
	relay Relay,
	costs map[string]float64,
	capacities map[string]int,
) (*Network, error) {
	var (
		n    = &Network{Sources: make([]Source, 0, len(sources)), Sinks: make([]Sink, len(sinks)), Relay: relay}
		name string
		cost float64
		cp   int
		ok   bool
	)
	for _, name = range sources {
		if cost, ok = costs[name]; !ok {
			return nil, configErr(name, "cost", "missing cost entry")
		}
		if cp, ok = capacities[name]; !ok {
			return nil, configErr(name, "capacity", "missing capacity entry")
		}
		n.Sources = append(n.Sources, Source{Name: name, Cost: cost, Capacity: cp})
	}
	copy(n.Sinks, sinks)

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks the structural invariants of n. It is cheap and pure, so
// consumers call it again rather than trusting literals.
//
// Complexity: O(S + K).
func (n *Network) Validate() error {
	if n == nil {
		return configErr("", "network", "nil description")
	}
	if len(n.Sources) == 0 {
		return configErr("", "sources", "at least one source is required")
	}
	if len(n.Sinks) == 0 {
		return configErr("", "sinks", "at least one sink is required")
	}

	seen := make(map[string]string, len(n.Sources)+len(n.Sinks)+1)
	claim := func(name, role string) error {
		if err := checkName(name); err != nil {
			return err
		}
		if prev, dup := seen[name]; dup {
			return configErr(name, "name", "used by both %s and %s", prev, role)
		}
		seen[name] = role
		return nil
	}

	for _, s := range n.Sources {
		if err := claim(s.Name, "source"); err != nil {
			return err
		}
		if math.IsNaN(s.Cost) || math.IsInf(s.Cost, 0) {
			return configErr(s.Name, "cost", "must be finite, got %v", s.Cost)
		}
		if s.Capacity < 0 {
			return configErr(s.Name, "capacity", "must be >= 0, got %d", s.Capacity)
		}
	}
	for _, k := range n.Sinks {
		if err := claim(k.Name, "sink"); err != nil {
			return err
		}
		if k.Demand < 0 {
			return configErr(k.Name, "demand", "must be >= 0, got %d", k.Demand)
		}
	}
	if err := claim(n.Relay.Name, "relay"); err != nil {
		return err
	}
	if math.IsNaN(n.Relay.TargetOffset) || math.IsInf(n.Relay.TargetOffset, 0) {
		return configErr(n.Relay.Name, "target_offset", "must be finite")
	}
	if math.IsNaN(n.Relay.UsageCost) || math.IsInf(n.Relay.UsageCost, 0) || n.Relay.UsageCost < 0 {
		return configErr(n.Relay.Name, "usage_cost", "must be finite and >= 0")
	}

	return nil
}

// checkName enforces the naming invariant shared by every role.
func checkName(name string) error {
	if name == "" {
		return configErr("", "name", "node name must be non-empty")
	}
	if strings.Contains(name, Separator) {
		return configErr(name, "name", "must not contain %q", Separator)
	}
	if strings.TrimSpace(name) != name {
		return configErr(name, "name", "must not carry surrounding whitespace")
	}
	return nil
}

// Arcs enumerates the permitted-arc set in canonical order. The same
// Network always yields the same slice; Arc.Index equals the position.
//
// Order: origins in (sources, sinks, relay) order; for each origin the
// destinations in the same order. Sinks originate nothing.
//
// Complexity: O(S·K + S + K).
func (n *Network) Arcs() []Arc {
	var (
		out = make([]Arc, 0, len(n.Sources)*(len(n.Sinks)+1)+len(n.Sinks))
		s   Source
		k   Sink
	)
	for _, s = range n.Sources {
		for _, k = range n.Sinks {
			out = append(out, Arc{Index: len(out), From: s.Name, To: k.Name, Kind: SourceToSink})
		}
		out = append(out, Arc{Index: len(out), From: s.Name, To: n.Relay.Name, Kind: SourceToRelay})
	}
	for _, k = range n.Sinks {
		out = append(out, Arc{Index: len(out), From: n.Relay.Name, To: k.Name, Kind: RelayToSink})
	}

	return out
}

// Source looks a source up by name.
func (n *Network) Source(name string) (Source, bool) {
	for _, s := range n.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// TotalDemand sums every sink demand.
func (n *Network) TotalDemand() int {
	var total int
	for _, k := range n.Sinks {
		total += k.Demand
	}
	return total
}

// ErrUnknownArc is returned by Assign for a well-formed name that is not
// one of the permitted arcs.
var ErrUnknownArc = errors.New("network: unknown arc")

// Assign turns active flow names (f_<from>_<to>) into a bit vector over
// arcs. Repeated names are accepted once.
func Assign(arcs []Arc, names []string) ([]uint8, error) {
	idx := make(map[[2]string]int, len(arcs))
	for i, a := range arcs {
		idx[[2]string{a.From, a.To}] = i
	}
	bits := make([]uint8, len(arcs))
	for _, name := range names {
		from, to, err := ParseArcName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, name)
		}
		i, ok := idx[[2]string{from, to}]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownArc, name)
		}
		bits[i] = 1
	}
	return bits, nil
}

// ParseArcName recovers the endpoints of a display name f_<a>_<b>.
func ParseArcName(s string) (from, to string, err error) {
	parts := strings.Split(s, Separator)
	if len(parts) != 3 || parts[0] != arcPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", ErrArcName
	}
	return parts[1], parts[2], nil
}
