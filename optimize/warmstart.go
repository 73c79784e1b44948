// SPDX-License-Identifier: MIT

package optimize

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/netqaoa/internal/rng"
)

// Candidates returns count points drawn uniformly from [0, π)^dim. The
// same seed always yields the same points.
func Candidates(seed int64, dim, count int) [][]float64 {
	r := rng.FromSeed(seed)
	out := make([][]float64, count)
	for i := range out {
		out[i] = rng.Uniform(r, dim, 0, math.Pi)
	}
	return out
}

type point struct {
	x []float64
	f float64
}

type warmSlot struct {
	done     bool
	energy   float64
	attempts int
	elapsed  time.Duration
}

// warmStart evaluates initial followed by opts.WarmStart random candidates
// and returns the best of them. Results are recorded in candidate order,
// whatever order the workers finish in; ties keep the earlier point.
func (r *run) warmStart(ctx context.Context, initial []float64) (point, error) {
	points := append([][]float64{initial}, Candidates(r.opts.Seed, len(initial), r.opts.WarmStart)...)
	slots := make([]warmSlot, len(points))

	workers := r.opts.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, x := range points {
		g.Go(func() error {
			started := time.Now()
			e, attempts, err := r.evaluate(gctx, x)
			if err != nil {
				return err
			}
			slots[i] = warmSlot{done: true, energy: e, attempts: attempts, elapsed: time.Since(started)}
			return nil
		})
	}
	err := g.Wait()

	best := point{f: math.Inf(1)}
	for i, s := range slots {
		if !s.done {
			continue
		}
		r.record(PhaseWarmStart, points[i], s.energy, s.attempts, s.elapsed)
		if s.energy < best.f {
			best = point{x: points[i], f: s.energy}
		}
	}
	if err != nil {
		return best, err
	}
	r.log.Info("warm start done", "candidates", len(points), "energy", best.f)
	return best, nil
}
