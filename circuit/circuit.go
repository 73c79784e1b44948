// SPDX-License-Identifier: MIT
//
// circuit.go — gate and circuit value types, sentinel errors, structural
// validation, equality and statistics.
//
// Error policy:
//   • Sentinels only; callers branch with errors.Is.
//   • Context is attached with %w at the call site.
//   • Option constructors panic on meaningless values; Build never panics.

package circuit

import (
	"errors"
	"fmt"
	"math"
)

// ErrLayers indicates p < 1.
var ErrLayers = errors.New("circuit: layer count must be >= 1")

// ErrAngleCount indicates len(angles) != 2p.
var ErrAngleCount = errors.New("circuit: angle count must be 2p")

// ErrNoQubits indicates a model without variables (or a nil model).
var ErrNoQubits = errors.New("circuit: no qubits")

// ErrBadAngle indicates a NaN or infinite angle.
var ErrBadAngle = errors.New("circuit: angle must be finite")

// ErrInvalidGate indicates a gate that does not fit its circuit (unknown
// op, wrong arity, qubit out of range). Returned by Validate.
var ErrInvalidGate = errors.New("circuit: invalid gate")

// Op names a gate. Values match the OpenQASM 2 qelib1 mnemonics.
type Op string

const (
	OpH       Op = "h"
	OpRX      Op = "rx"
	OpRZ      Op = "rz"
	OpRZZ     Op = "rzz"
	OpCX      Op = "cx"
	OpMeasure Op = "measure"
)

// arity is the qubit count each op acts on.
var arity = map[Op]int{
	OpH: 1, OpRX: 1, OpRZ: 1, OpRZZ: 2, OpCX: 2, OpMeasure: 1,
}

// parametric reports whether op carries an angle.
func (o Op) parametric() bool { return o == OpRX || o == OpRZ || o == OpRZZ }

// Gate is one instruction. Layer is 0 for preparation, k for the k-th
// cost/mixer layer and Layers+1 for measurement.
type Gate struct {
	Op     Op      `json:"op"`
	Qubits []int   `json:"qubits"`
	Angle  float64 `json:"angle,omitempty"`
	Layer  int     `json:"layer"`
}

// Circuit is an immutable gate list over Qubits qubits.
type Circuit struct {
	Qubits int       `json:"qubits"`
	Layers int       `json:"layers"`
	Gammas []float64 `json:"gammas"`
	Betas  []float64 `json:"betas"`
	Gates  []Gate    `json:"gates"`
}

// Validate checks every gate against the circuit's qubit count. Backends
// call it on circuits received from outside the process.
//
// Complexity: O(G).
func (c *Circuit) Validate() error {
	if c == nil || c.Qubits < 1 {
		return ErrNoQubits
	}
	for idx, g := range c.Gates {
		want, ok := arity[g.Op]
		if !ok {
			return fmt.Errorf("%w: gate %d: unknown op %q", ErrInvalidGate, idx, g.Op)
		}
		if len(g.Qubits) != want {
			return fmt.Errorf("%w: gate %d: %s takes %d qubits, got %d", ErrInvalidGate, idx, g.Op, want, len(g.Qubits))
		}
		for _, q := range g.Qubits {
			if q < 0 || q >= c.Qubits {
				return fmt.Errorf("%w: gate %d: qubit %d outside [0,%d)", ErrInvalidGate, idx, q, c.Qubits)
			}
		}
		if want == 2 && g.Qubits[0] == g.Qubits[1] {
			return fmt.Errorf("%w: gate %d: %s on a single qubit %d", ErrInvalidGate, idx, g.Op, g.Qubits[0])
		}
		if math.IsNaN(g.Angle) || math.IsInf(g.Angle, 0) {
			return fmt.Errorf("%w: gate %d", ErrBadAngle, idx)
		}
	}
	return nil
}

// Equal reports whether a and b have the same shape, angles and gate
// sequence. Angles are compared exactly.
func Equal(a, b *Circuit) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Qubits != b.Qubits || a.Layers != b.Layers || len(a.Gates) != len(b.Gates) {
		return false
	}
	if !equalFloats(a.Gammas, b.Gammas) || !equalFloats(a.Betas, b.Betas) {
		return false
	}
	for i := range a.Gates {
		ga, gb := a.Gates[i], b.Gates[i]
		if ga.Op != gb.Op || ga.Angle != gb.Angle || ga.Layer != gb.Layer || len(ga.Qubits) != len(gb.Qubits) {
			return false
		}
		for k := range ga.Qubits {
			if ga.Qubits[k] != gb.Qubits[k] {
				return false
			}
		}
	}
	return true
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Stats summarises a circuit.
type Stats struct {
	Gates    int        `json:"gates"`
	TwoQubit int        `json:"two_qubit"`
	Depth    int        `json:"depth"`
	ByOp     map[Op]int `json:"by_op"`
}

// Stats counts gates per op and computes the depth: the longest chain of
// gates that share a qubit.
//
// Complexity: O(G).
func (c *Circuit) Stats() Stats {
	s := Stats{ByOp: make(map[Op]int)}
	level := make([]int, c.Qubits)
	for _, g := range c.Gates {
		s.Gates++
		s.ByOp[g.Op]++
		if len(g.Qubits) == 2 {
			s.TwoQubit++
		}
		var l int
		for _, q := range g.Qubits {
			if q >= 0 && q < len(level) && level[q] > l {
				l = level[q]
			}
		}
		l++
		for _, q := range g.Qubits {
			if q >= 0 && q < len(level) {
				level[q] = l
			}
		}
		if l > s.Depth {
			s.Depth = l
		}
	}
	return s
}
