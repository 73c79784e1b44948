// SPDX-License-Identifier: MIT

// Package qaoa wires the pieces of netqaoa into one solve.
//
// A Solve takes a validated network through these steps:
//
//  1. qubo.Build with the configured penalty weight;
//  2. the max-flow feasibility check (network.MaxDeliverable), logged only;
//  3. exhaustive reference solution when the variable count is at most
//     ExactLimit (0 disables it);
//  4. the objective: circuit.FromQUBO → backend run → expected energy;
//  5. optimize.Minimize over the 2p angles;
//  6. one final run at the best angles, retried like any evaluation;
//  7. decoding of the most frequent and the lowest-energy samples, each
//     with its constraint report.
//
// The backend handed to NewSolver is wrapped with result checking, a per
// run timeout and, if a metrics registry is attached, instrumentation.
package qaoa
