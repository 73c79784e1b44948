// SPDX-License-Identifier: MIT

package qaoa

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/netqaoa/backend"
	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/config"
	"github.com/katalvlaran/netqaoa/metrics"
	"github.com/katalvlaran/netqaoa/network"
	"github.com/katalvlaran/netqaoa/optimize"
	"github.com/katalvlaran/netqaoa/qubo"
	"github.com/katalvlaran/netqaoa/sample"
	"github.com/katalvlaran/netqaoa/store"
)

// Decoded is one sampled assignment read back as flows.
type Decoded struct {
	Bitstring string         `json:"bitstring"`
	Count     int            `json:"count"`
	Energy    float64        `json:"energy"`
	Flows     []string       `json:"flows"`
	Check     network.Report `json:"check"`
}

// Report is the outcome of one Solve.
type Report struct {
	RunID          string              `json:"run_id,omitempty"`
	Backend        string              `json:"backend"`
	Variables      int                 `json:"variables"`
	Arcs           []network.Arc       `json:"arcs"`
	MaxDeliverable float64             `json:"max_deliverable"`
	Feasible       bool                `json:"feasible"`
	Reference      *qubo.Solution      `json:"reference,omitempty"`
	Optimization   optimize.Result     `json:"optimization"`
	Circuit        circuit.Stats       `json:"circuit"`
	ExpectedEnergy float64             `json:"expected_energy"`
	Distribution   sample.Distribution `json:"distribution"`
	MostFrequent   Decoded             `json:"most_frequent"`
	LowestEnergy   Decoded             `json:"lowest_energy"`
	Elapsed        time.Duration       `json:"elapsed"`
}

// FoundReference reports whether the lowest-energy sample reaches the
// exhaustive optimum. It is false when no reference was computed.
func (r *Report) FoundReference() bool {
	return r.Reference != nil && math.Abs(r.LowestEnergy.Energy-r.Reference.Energy) <= qubo.Tolerance
}

// Solver runs complete solves against one backend. It is safe for
// concurrent use when the backend is.
type Solver struct {
	b    backend.Backend
	name string
	cfg  config.Config
	opts options
}

// NewSolver validates cfg and wraps b with result checking, the
// configured timeout and, when attached, metrics.
func NewSolver(b backend.Backend, cfg config.Config, opts ...Option) (*Solver, error) {
	if b == nil {
		return nil, errors.New("qaoa: nil backend")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts...)
	wrapped := backend.Instrument(backend.WithTimeout(backend.Checked(b), cfg.BackendTimeout), o.metrics)
	return &Solver{b: wrapped, name: b.Name(), cfg: cfg, opts: o}, nil
}

// Solve optimises the circuit for net and decodes the final samples.
//
// Errors: configuration errors from the network or the builder, and any
// error that aborted the optimisation (see optimize.Minimize). When a
// store is attached the run is finished as failed with that error.
func (s *Solver) Solve(ctx context.Context, net *network.Network) (rep *Report, err error) {
	started := time.Now()
	log := s.opts.log.WithValues("backend", s.name)

	var runID string
	if s.opts.store != nil {
		run, cerr := s.opts.store.CreateRun(ctx, store.NewRun{Backend: s.name, Network: net, Params: s.cfg})
		if cerr != nil {
			return nil, cerr
		}
		runID = run.ID
		log = log.WithValues("run", runID)
		defer func() {
			// finish with a fresh context so a cancelled solve is still recorded
			ferr := s.opts.store.FinishRun(context.WithoutCancel(ctx), runID, rep, err)
			if ferr != nil {
				log.Error(ferr, "finish run")
			}
		}()
	}

	m, arcs, err := qubo.Build(net, s.cfg.Penalty)
	if err != nil {
		return nil, err
	}
	n := len(arcs)
	rep = &Report{RunID: runID, Backend: s.name, Variables: n, Arcs: arcs}
	log.Info("model built", "variables", n, "terms", len(m.Terms()), "penalty", s.cfg.Penalty)

	if rep.MaxDeliverable, err = net.MaxDeliverable(ctx); err != nil {
		return nil, err
	}
	rep.Feasible = rep.MaxDeliverable >= float64(net.TotalDemand())
	if !rep.Feasible {
		log.Info("network cannot meet total demand; constraints will be violated",
			"deliverable", rep.MaxDeliverable, "demand", net.TotalDemand())
	}

	if s.cfg.ExactLimit > 0 && n <= s.cfg.ExactLimit {
		ref, xerr := qubo.Exact(ctx, m, s.cfg.ExactLimit)
		if xerr != nil {
			return nil, xerr
		}
		rep.Reference = &ref
		log.Info("reference solution", "energy", ref.Energy, "bitstring", sample.Format(ref.Bits), "degeneracy", ref.Degeneracy)
	}

	p := s.cfg.Layers
	initial := make([]float64, 2*p)
	for i := range initial {
		initial[i] = s.cfg.InitialAngle
	}
	probe, err := circuit.FromQUBO(m, n, initial, p, s.opts.circuits...)
	if err != nil {
		return nil, err
	}
	rep.Circuit = probe.Stats()
	if s.opts.metrics != nil {
		s.opts.metrics.SetModelSize(n, rep.Circuit.Gates)
	}

	obj := s.objective(m, n, p)
	res, err := optimize.Minimize(ctx, initial, obj, s.optimizeOptions(ctx, runID, log))
	rep.Optimization = res
	if err != nil {
		return nil, fmt.Errorf("qaoa: optimisation aborted after %d evaluations: %w", res.Evaluations, err)
	}
	if s.opts.metrics != nil {
		s.opts.metrics.BestEnergy.Set(res.Energy)
	}

	dist, _, err := optimize.Retry(ctx, s.retryPolicy(), func(ctx context.Context) (sample.Distribution, error) {
		c, err := circuit.FromQUBO(m, n, res.Angles, p, s.opts.circuits...)
		if err != nil {
			return nil, err
		}
		return s.b.Run(ctx, c, s.cfg.Shots)
	}, s.onRetry(log))
	if err != nil {
		return nil, fmt.Errorf("qaoa: final run: %w", err)
	}
	rep.Distribution = dist

	if rep.ExpectedEnergy, err = m.ExpectedEnergy(dist); err != nil {
		return nil, err
	}
	top, err := dist.MostFrequent(n)
	if err != nil {
		return nil, err
	}
	low, err := m.Lowest(dist)
	if err != nil {
		return nil, err
	}
	if rep.MostFrequent, err = decode(m, net, arcs, top); err != nil {
		return nil, err
	}
	if rep.LowestEnergy, err = decode(m, net, arcs, low.Outcome); err != nil {
		return nil, err
	}
	rep.Elapsed = time.Since(started)

	log.Info("solve finished",
		"energy", res.Energy, "expectedEnergy", rep.ExpectedEnergy,
		"mostFrequent", rep.MostFrequent.Bitstring, "satisfied", rep.MostFrequent.Check.Satisfied(),
		"foundReference", rep.FoundReference(), "elapsed", rep.Elapsed)
	return rep, nil
}

// objective estimates the energy at angles by sampling the circuit.
func (s *Solver) objective(m *qubo.Model, n, p int) optimize.Objective {
	return func(ctx context.Context, angles []float64) (float64, error) {
		start := time.Now()
		e, err := func() (float64, error) {
			c, err := circuit.FromQUBO(m, n, angles, p, s.opts.circuits...)
			if err != nil {
				return 0, err
			}
			dist, err := s.b.Run(ctx, c, s.cfg.Shots)
			if err != nil {
				return 0, err
			}
			return m.ExpectedEnergy(dist)
		}()
		if s.opts.metrics != nil {
			status := metrics.StatusOK
			switch {
			case backend.IsRetryable(err):
				status = metrics.StatusRetry
			case err != nil:
				status = metrics.StatusError
			}
			s.opts.metrics.RecordEvaluation(status, time.Since(start))
		}
		return e, err
	}
}

func (s *Solver) retryPolicy() optimize.RetryPolicy {
	p := optimize.DefaultRetryPolicy()
	p.MaxRetries = s.cfg.MaxRetries
	if s.cfg.RetryInitialInterval > 0 {
		p.InitialInterval = s.cfg.RetryInitialInterval
	}
	return p
}

func (s *Solver) onRetry(log logr.Logger) func(error, time.Duration) {
	return func(err error, wait time.Duration) {
		if s.opts.metrics != nil {
			s.opts.metrics.RecordRetry()
		}
		log.Info("transient backend failure, retrying", "err", err.Error(), "wait", wait)
	}
}

func (s *Solver) optimizeOptions(ctx context.Context, runID string, log logr.Logger) optimize.Options {
	o := optimize.DefaultOptions()
	o.MaxIterations = s.cfg.MaxIterations
	o.Retry = s.retryPolicy()
	o.WarmStart = s.cfg.WarmStart
	o.Workers = s.cfg.Workers
	o.Seed = s.cfg.Seed
	o.Logger = s.opts.log.WithName("optimize")
	o.OnRetry = s.onRetry(log)
	if s.opts.store != nil {
		o.OnEvaluation = func(ev optimize.Evaluation) {
			if err := s.opts.store.RecordEvaluation(ctx, runID, ev); err != nil {
				log.Error(err, "store evaluation", "index", ev.Index)
			}
		}
	}
	return o
}

func decode(m *qubo.Model, net *network.Network, arcs []network.Arc, o sample.Outcome) (Decoded, error) {
	e, err := m.Energy(o.Bits)
	if err != nil {
		return Decoded{}, err
	}
	d := Decoded{Bitstring: o.Bitstring, Count: o.Count, Energy: e, Check: net.Check(arcs, o.Bits)}
	for _, a := range d.Check.Active {
		d.Flows = append(d.Flows, a.Name())
	}
	return d, nil
}
