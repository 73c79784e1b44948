// SPDX-License-Identifier: MIT

package network

import (
	"errors"
	"fmt"
)

// Separator joins arc endpoints in the display name "f_<from>_<to>".
const Separator = "_"

// arcPrefix is the leading token of every display name.
const arcPrefix = "f"

// ErrConfiguration is the sentinel every ConfigurationError unwraps to.
var ErrConfiguration = errors.New("network: invalid configuration")

// ErrArcName is returned by ParseArcName for strings that are not f_<a>_<b>.
var ErrArcName = errors.New("network: malformed arc name")

// ConfigurationError reports a malformed network description. It fails
// fast, before any model is built, and is never retried.
type ConfigurationError struct {
	Node   string // offending node name; empty for structural problems
	Field  string // cost, capacity, demand, name, relay, ...
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("network: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("network: node %q: %s: %s", e.Node, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// configErr is a small constructor to keep validation code flat.
func configErr(node, field, format string, args ...interface{}) error {
	return &ConfigurationError{Node: node, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Source is a generating node with a unit cost and an integer output capacity.
type Source struct {
	Name     string  `yaml:"name" json:"name"`
	Cost     float64 `yaml:"cost" json:"cost"`
	Capacity int     `yaml:"capacity" json:"capacity"`
}

// Sink is a consuming node with an integer demand.
type Sink struct {
	Name   string `yaml:"name" json:"name"`
	Demand int    `yaml:"demand" json:"demand"`
}

// Relay is the single storage node.
//
//   - TargetOffset: desired net inflow Σin − Σout; 0 holds the mid-level charge.
//   - UsageCost:    soft linear bias added to every arc into the relay.
type Relay struct {
	Name         string  `yaml:"name" json:"name" validate:"required"`
	TargetOffset float64 `yaml:"target_offset" json:"target_offset"`
	UsageCost    float64 `yaml:"usage_cost" json:"usage_cost" validate:"gte=0"`
}

// Network is a validated description. Build it with New or LoadFile; a
// literal must be passed through Validate before use.
type Network struct {
	Sources []Source `json:"sources"`
	Sinks   []Sink   `json:"sinks"`
	Relay   Relay    `json:"relay"`
}

// ArcKind classifies a permitted arc.
type ArcKind int

const (
	// SourceToSink delivers generation directly.
	SourceToSink ArcKind = iota
	// SourceToRelay charges the relay.
	SourceToRelay
	// RelayToSink discharges the relay.
	RelayToSink
)

// String returns a short human label.
func (k ArcKind) String() string {
	switch k {
	case SourceToSink:
		return "source->sink"
	case SourceToRelay:
		return "source->relay"
	case RelayToSink:
		return "relay->sink"
	default:
		return fmt.Sprintf("ArcKind(%d)", int(k))
	}
}

// Arc is one binary flow variable. Index is its variable/qubit position.
type Arc struct {
	Index int     `json:"index"`
	From  string  `json:"from"`
	To    string  `json:"to"`
	Kind  ArcKind `json:"kind"`
}

// Name renders the display form f_<from>_<to>.
func (a Arc) Name() string {
	return arcPrefix + Separator + a.From + Separator + a.To
}

// String implements fmt.Stringer.
func (a Arc) String() string { return a.From + "→" + a.To }
