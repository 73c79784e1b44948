// SPDX-License-Identifier: MIT

package optimize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/optimize"
)

// Minimize searches for angles minimising obj, starting from initial.
//
// The returned Result always carries the best point seen so far, also
// when an error aborts the run. Angles are not wrapped into [0, 2π).
//
// Errors:
//   - ErrNoAngles / ErrBadOptions for bad input (nothing evaluated);
//   - the objective's own error if it is not retryable;
//   - ErrRetriesExhausted wrapping the last transient error;
//   - ErrNotFinite if obj returns NaN or ±Inf;
//   - ctx.Err() if ctx ends.
func Minimize(ctx context.Context, initial []float64, obj Objective, opts Options) (Result, error) {
	if len(initial) == 0 {
		return Result{}, ErrNoAngles
	}
	if err := validate(initial, opts); err != nil {
		return Result{}, err
	}

	r := &run{obj: obj, opts: opts, best: math.Inf(1)}
	r.log = opts.Logger.WithValues("dim", len(initial))

	start := append([]float64(nil), initial...)
	var seed *optimize.Location
	if opts.WarmStart > 0 {
		loc, err := r.warmStart(ctx, start)
		if err != nil {
			return r.result("Failure", 0), err
		}
		start, seed = loc.x, &optimize.Location{F: loc.f}
	}

	settings := &optimize.Settings{
		InitValues:      seed,
		MajorIterations: opts.MaxIterations,
		FuncEvaluations: opts.MaxEvaluations,
		Recorder:        abortOn{r},
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: opts.MaxIterations,
		},
	}
	method := &optimize.NelderMead{SimplexSize: opts.InitialStep}
	problem := optimize.Problem{Func: func(x []float64) float64 { return r.search(ctx, x) }}

	r.log.Info("search started", "maxIterations", opts.MaxIterations, "start", start)
	res, err := optimize.Minimize(problem, start, settings, method)

	iterations := 0
	status := "Failure"
	if res != nil {
		iterations = res.Stats.MajorIterations
		status = res.Status.String()
	}
	if r.fatal != nil {
		return r.result(status, iterations), r.fatal
	}
	if err != nil && r.evaluations == 0 {
		return r.result(status, iterations), fmt.Errorf("optimize: nelder-mead: %w", err)
	}
	// A method error after progress (e.g. a collapsed simplex) still
	// leaves a usable best point.
	if err != nil {
		r.log.Info("search stopped early", "err", err.Error())
	}
	r.log.Info("search finished", "status", status, "iterations", iterations,
		"evaluations", r.evaluations, "energy", r.best)
	return r.result(status, iterations), nil
}

func validate(initial []float64, o Options) error {
	for i, v := range initial {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: initial angle %d is %v", ErrBadOptions, i, v)
		}
	}
	switch {
	case o.MaxIterations < 1:
		return fmt.Errorf("%w: MaxIterations %d < 1", ErrBadOptions, o.MaxIterations)
	case o.MaxEvaluations < 0:
		return fmt.Errorf("%w: MaxEvaluations %d < 0", ErrBadOptions, o.MaxEvaluations)
	case o.InitialStep < 0 || math.IsNaN(o.InitialStep) || math.IsInf(o.InitialStep, 0):
		return fmt.Errorf("%w: InitialStep %v", ErrBadOptions, o.InitialStep)
	case o.Retry.MaxRetries < 0:
		return fmt.Errorf("%w: Retry.MaxRetries %d < 0", ErrBadOptions, o.Retry.MaxRetries)
	case o.Retry.InitialInterval < 0 || o.Retry.MaxInterval < 0:
		return fmt.Errorf("%w: negative retry interval", ErrBadOptions)
	case o.WarmStart < 0:
		return fmt.Errorf("%w: WarmStart %d < 0", ErrBadOptions, o.WarmStart)
	case o.Workers < 0:
		return fmt.Errorf("%w: Workers %d < 0", ErrBadOptions, o.Workers)
	}
	return nil
}

// run is the loop state. Only the goroutine inside Minimize touches it,
// except warm-start workers, which go through evaluate only.
type run struct {
	obj  Objective
	opts Options
	log  logr.Logger

	best        float64
	bestX       []float64
	evaluations int
	trace       []Evaluation
	fatal       error
}

// evaluate runs one objective call under the retry policy. It is safe for
// concurrent use.
func (r *run) evaluate(ctx context.Context, x []float64) (float64, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	e, attempts, err := Retry(ctx, r.opts.Retry, func(ctx context.Context) (float64, error) {
		return r.obj(ctx, x)
	}, r.opts.OnRetry)
	if err != nil {
		return 0, attempts, err
	}
	if math.IsNaN(e) || math.IsInf(e, 0) {
		return 0, attempts, fmt.Errorf("%w: %v at %v", ErrNotFinite, e, x)
	}
	return e, attempts, nil
}

// record appends a successful evaluation and updates the best point.
func (r *run) record(phase Phase, x []float64, e float64, attempts int, elapsed time.Duration) {
	ev := Evaluation{
		Index:    r.evaluations,
		Phase:    phase,
		Angles:   append([]float64(nil), x...),
		Energy:   e,
		Attempts: attempts,
		Elapsed:  elapsed,
	}
	r.evaluations++
	r.trace = append(r.trace, ev)
	if e < r.best {
		r.best = e
		r.bestX = ev.Angles
	}
	r.log.V(1).Info("evaluation", "index", ev.Index, "phase", phase, "energy", e, "attempts", attempts)
	if r.opts.OnEvaluation != nil {
		r.opts.OnEvaluation(ev)
	}
}

// search is the gonum objective. After a fatal error it returns +Inf and
// the recorder stops the method at the next operation.
func (r *run) search(ctx context.Context, x []float64) float64 {
	if r.fatal != nil {
		return math.Inf(1)
	}
	started := time.Now()
	e, attempts, err := r.evaluate(ctx, x)
	if err != nil {
		r.fatal = err
		return math.Inf(1)
	}
	r.record(PhaseSearch, x, e, attempts, time.Since(started))
	return e
}

func (r *run) result(status string, iterations int) Result {
	res := Result{
		Energy:      r.best,
		Iterations:  iterations,
		Evaluations: r.evaluations,
		Status:      status,
		Trace:       r.trace,
	}
	if r.bestX != nil {
		res.Angles = append([]float64(nil), r.bestX...)
	}
	return res
}

// abortOn stops gonum as soon as the run holds a fatal error.
type abortOn struct{ r *run }

func (abortOn) Init() error { return nil }

func (a abortOn) Record(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	if a.r.fatal != nil {
		return errAborted
	}
	return nil
}

var errAborted = errors.New("optimize: aborted")
