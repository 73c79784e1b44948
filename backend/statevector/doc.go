// SPDX-License-Identifier: MIT

// Package statevector is an in-process backend that simulates a circuit on
// a dense complex128 state vector and samples measurement outcomes.
//
// Layout: amplitude index k encodes the basis state with qubit q equal to
// bit q of k, so qubit 0 is the least-significant bit of the index and the
// first character of every returned bit-string.
//
// Supported gates: h, rx, rz, rzz, cx, measure. Measurements are taken
// once, over every qubit, after the last unitary gate.
//
// Memory is 16·2^n bytes; New caps n at MaxQubits (default 22, 64 MiB).
//
// Randomness: each Run draws from its own stream derived from the
// simulator seed and a run counter, so Run is safe for concurrent use and
// a fixed seed reproduces the same sequence of distributions.
package statevector
