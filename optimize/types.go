// SPDX-License-Identifier: MIT

package optimize

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
)

var (
	// ErrNoAngles is returned for an empty initial point.
	ErrNoAngles = errors.New("optimize: no angles to optimise")

	// ErrBadOptions is returned for options outside their documented ranges.
	ErrBadOptions = errors.New("optimize: invalid options")

	// ErrRetriesExhausted wraps the last transient error once the retry
	// budget of a single evaluation is spent.
	ErrRetriesExhausted = errors.New("optimize: retries exhausted")

	// ErrNotFinite is returned when the objective yields NaN or ±Inf.
	ErrNotFinite = errors.New("optimize: objective value is not finite")
)

// Objective estimates the energy at angles. It must not retain angles.
type Objective func(ctx context.Context, angles []float64) (float64, error)

// Phase tags where an evaluation came from.
type Phase string

const (
	PhaseWarmStart Phase = "warm-start"
	PhaseSearch    Phase = "search"
)

// Evaluation is one successful objective call.
type Evaluation struct {
	Index    int           `json:"index"`
	Phase    Phase         `json:"phase"`
	Angles   []float64     `json:"angles"`
	Energy   float64       `json:"energy"`
	Attempts int           `json:"attempts"`
	Elapsed  time.Duration `json:"elapsed"`
}

// RetryPolicy bounds the retries of a single evaluation.
//
//   - MaxRetries:      retries after the first attempt (0 disables retry).
//   - InitialInterval: first backoff delay.
//   - MaxInterval:     cap on any single delay.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy allows three retries starting at 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: 100 * time.Millisecond, MaxInterval: 5 * time.Second}
}

// Options configures Minimize.
//
// Fields:
//   - MaxIterations  — Nelder–Mead major-iteration cap (>= 1).
//   - MaxEvaluations — cap on objective calls during the search; 0 means none.
//   - InitialStep    — initial simplex edge; 0 uses the gonum default.
//   - Retry          — per-evaluation retry policy.
//   - WarmStart      — extra random candidates evaluated before the search.
//   - Workers        — concurrency of the warm start; 0 means 1.
//   - Seed           — warm-start seed; 0 selects the package default.
//   - Logger         — V(0) milestones, V(1) every evaluation.
//   - OnEvaluation   — called once per successful evaluation, from the
//     goroutine running Minimize.
//   - OnRetry        — called before each backoff wait; may run on
//     warm-start goroutines.
//
// Example:
//
//	opts := optimize.DefaultOptions()
//	opts.MaxIterations = 50
//	opts.WarmStart = 8
//	res, err := optimize.Minimize(ctx, []float64{0.1, 0.1}, f, opts)
type Options struct {
	MaxIterations  int
	MaxEvaluations int
	InitialStep    float64
	Retry          RetryPolicy
	WarmStart      int
	Workers        int
	Seed           int64
	Logger         logr.Logger
	OnEvaluation   func(Evaluation)
	OnRetry        func(err error, wait time.Duration)
}

// DefaultOptions returns conservative defaults for small circuits.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 100,
		InitialStep:   0.25,
		Retry:         DefaultRetryPolicy(),
		Workers:       4,
		Logger:        logr.Discard(),
	}
}

// Result reports the best point seen.
type Result struct {
	Angles      []float64    `json:"angles"`
	Energy      float64      `json:"energy"`
	Iterations  int          `json:"iterations"`
	Evaluations int          `json:"evaluations"`
	Status      string       `json:"status"`
	Trace       []Evaluation `json:"trace"`
}
