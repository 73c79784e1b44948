// SPDX-License-Identifier: MIT

package network

import (
	"context"
	"math"
)

// MaxDeliverable computes how many demand units the arc set can route when
// every arc carries at most one unit and each source emits at most its
// capacity. It is a necessary-condition oracle: if the result is below
// TotalDemand, no assignment can satisfy every sink and the QUBO minimum
// will carry a penalty.
//
// Flow network:
//
//	s ─cap(src)─► source ─1─► sink ─demand─► t
//	                 └──1──► relay ─1─┘
//
// Algorithm: Edmonds–Karp (BFS shortest augmenting paths) on a dense
// residual matrix; vertex count is 2 + S + K + 1.
//
// Complexity: O(V · E²) time, O(V²) memory.
func (n *Network) MaxDeliverable(ctx context.Context) (float64, error) {
	return n.MaxDeliverableWith(ctx, nil)
}

// FlowOptions tunes the max-flow oracle.
//   - Epsilon: residual capacities ≤ Epsilon count as exhausted (default 1e-9).
type FlowOptions struct {
	Epsilon float64
}

// DefaultEpsilon is the residual threshold used when FlowOptions is nil or
// carries a non-positive Epsilon.
const DefaultEpsilon = 1e-9

func (o *FlowOptions) epsilon() float64 {
	if o != nil && o.Epsilon > 0 {
		return o.Epsilon
	}
	return DefaultEpsilon
}

// MaxDeliverableWith is MaxDeliverable with explicit options; nil opts
// means defaults.
func (n *Network) MaxDeliverableWith(ctx context.Context, opts *FlowOptions) (float64, error) {
	eps := opts.epsilon()
	if err := n.Validate(); err != nil {
		return 0, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Vertex layout: 0 = super-source, 1..S sources, S+1..S+K sinks,
	// S+K+1 relay, S+K+2 = super-sink.
	var (
		ns    = len(n.Sources)
		nk    = len(n.Sinks)
		relay = ns + nk + 1
		sink  = ns + nk + 2
		v     = ns + nk + 3
		res   = make([][]float64, v)
		i, j  int
	)
	for i = range res {
		res[i] = make([]float64, v)
	}
	for i = 0; i < ns; i++ {
		res[0][1+i] = float64(n.Sources[i].Capacity)
		for j = 0; j < nk; j++ {
			res[1+i][1+ns+j] = 1
		}
		res[1+i][relay] = 1
	}
	for j = 0; j < nk; j++ {
		res[relay][1+ns+j] = 1
		res[1+ns+j][sink] = float64(n.Sinks[j].Demand)
	}

	var total float64
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		path, bottle := augmentingPath(res, 0, sink, eps)
		if path == nil || bottle <= eps {
			break
		}
		total += bottle
		// Push bottle along the path: forward capacity shrinks, reverse grows.
		for i = 0; i < len(path)-1; i++ {
			u, w := path[i], path[i+1]
			res[u][w] -= bottle
			res[w][u] += bottle
		}
	}

	return total, nil
}

// Feasible reports whether MaxDeliverable reaches TotalDemand.
func (n *Network) Feasible(ctx context.Context) (bool, error) {
	mf, err := n.MaxDeliverable(ctx)
	if err != nil {
		return false, err
	}
	return mf+DefaultEpsilon >= float64(n.TotalDemand()), nil
}

// augmentingPath finds the fewest-edge path s→t with residual capacity
// above eps and returns it together with its bottleneck.
func augmentingPath(res [][]float64, s, t int, eps float64) ([]int, float64) {
	var (
		parent = make([]int, len(res))
		bott   = make([]float64, len(res))
		queue  = []int{s}
		u, w   int
	)
	for i := range parent {
		parent[i] = -1
	}
	parent[s] = s
	bott[s] = math.Inf(1)

	for len(queue) > 0 {
		u = queue[0]
		queue = queue[1:]
		for w = range res[u] {
			if parent[w] != -1 || res[u][w] <= eps {
				continue
			}
			parent[w] = u
			bott[w] = math.Min(bott[u], res[u][w])
			if w == t {
				path := []int{t}
				for cur := t; cur != s; cur = parent[cur] {
					path = append([]int{parent[cur]}, path...)
				}
				return path, bott[t]
			}
			queue = append(queue, w)
		}
	}

	return nil, 0
}
