// SPDX-License-Identifier: MIT

// Package optimize tunes the 2p angles of a variational circuit with a
// derivative-free search over a noisy objective.
//
// What it does:
//
//   - Minimize runs gonum's Nelder–Mead under a fixed major-iteration cap
//     and reports the best angles seen, whether or not the search converged.
//     The objective is estimated by sampling, so repeated calls at the same
//     point may disagree; nothing here assumes descent.
//   - Each evaluation is retried with exponential backoff while its error
//     declares itself transient (backend.IsRetryable: a Retryable() bool
//     method returning true).
//     Any other error, or running out of retries, aborts the whole run and
//     is returned; no energy is ever substituted for a failed evaluation.
//   - An optional warm start draws extra candidates uniformly from
//     [0, π)^d with a seeded generator and evaluates them concurrently; the
//     best of those and the initial point seeds the simplex.
//
// Ownership: the best-so-far record and the trace are mutated only by the
// goroutine that calls Minimize. Warm-start workers write to disjoint
// slots that are merged after they finish.
package optimize
