// SPDX-License-Identifier: MIT

// Package qubo builds, evaluates and converts quadratic unconstrained binary
// optimisation models for the relay-network flow problem.
//
// What it provides:
//
//   - Model: linear terms per variable, quadratic terms per canonical Pair,
//     and a constant Offset. Coefficients for the same key accumulate.
//   - Build: the penalty builder. One binary variable per permitted arc of a
//     network.Network; source costs become linear terms and every equality
//     constraint becomes P·(Σ c_i x_i − t)², expanded into the model.
//   - Energy, ExpectedEnergy, Lowest: scalar and sampled evaluation.
//   - ToIsing: x = (1 − z)/2 substitution into an energy-equivalent Ising model.
//   - Exact: brute-force correctness oracle over all 2^n assignments.
//   - Matrix: the symmetric Q of xᵀQx + Offset as a gonum mat.SymDense.
//
// Penalty expansion for a constraint Σ c_i x_i = t with weight P:
//
//	linear    i   : P·c_i² − 2·P·t·c_i
//	quadratic i<j : 2·P·c_i·c_j
//	offset        : P·t²
//
// The offset is carried so that every satisfied constraint contributes
// exactly zero and the model energy equals the true penalised cost.
//
// Determinism: Build walks only slices, and every evaluation sums terms in
// the order returned by Model.Terms (linear by index, then pairs
// lexicographically), so identical inputs give bit-identical results.
//
// Ties: whenever several assignments reach the same energy (within 1e-9)
// the one with the lowest integer value wins, variable 0 being the
// least-significant bit (see package sample).
package qubo
