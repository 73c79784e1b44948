// SPDX-License-Identifier: MIT

// Package sample holds the outcome distribution returned by an execution
// backend and the single bit-ordering convention shared by the circuit
// builder, every backend and the energy evaluator.
//
// Bit ordering (pinned once, used everywhere):
//
//	variable index i  ==  qubit index i  ==  character i of the bit-string
//
//	"10010000"  →  x0=1, x3=1, everything else 0
//
// For tie-breaks the bit-string is read as an integer with variable 0 as
// the least-significant bit, so "10010000" has value 1 + 8 = 9 and the
// lowest value wins.
//
// Length tolerance: a bit-string shorter than the variable count is
// zero-extended at the high-index end; a longer one is accepted only when
// every surplus character is '0'. Anything else is ErrBitstring.
package sample
