// SPDX-License-Identifier: MIT

package statevector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/netqaoa/backend"
	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/internal/rng"
	"github.com/katalvlaran/netqaoa/sample"
)

// ErrTooManyQubits is returned for circuits wider than the configured limit.
var ErrTooManyQubits = errors.New("statevector: too many qubits")

// gatesPerCtxCheck is the number of gates applied between context polls.
const gatesPerCtxCheck = 64

// Simulator implements backend.Backend.
type Simulator struct {
	cfg config

	mu   sync.Mutex
	base *rand.Rand
	runs uint64
}

var _ backend.Backend = (*Simulator)(nil)

// New returns a simulator configured by opts.
func New(opts ...Option) *Simulator {
	cfg := newConfig(opts...)
	return &Simulator{cfg: cfg, base: rng.FromSeed(cfg.seed)}
}

// Name implements backend.Backend.
func (s *Simulator) Name() string { return s.cfg.name }

// Run simulates c and samples shots outcomes.
//
// Errors: backend.ErrShots, circuit validation errors, ErrTooManyQubits,
// ctx.Err().
//
// Complexity: O(G·2^n + 2^n + shots·n).
func (s *Simulator) Run(ctx context.Context, c *circuit.Circuit, shots int) (sample.Distribution, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: got %d", backend.ErrShots, shots)
	}
	probs, err := s.Probabilities(ctx, c)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	r := rng.Derive(s.base, s.runs)
	s.runs++
	s.mu.Unlock()

	cdf := floats.CumSum(make([]float64, len(probs)), probs)
	total := cdf[len(cdf)-1]
	hits := make(map[int]int)
	for k := 0; k < shots; k++ {
		u := r.Float64() * total
		idx := sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
		if idx == len(cdf) {
			idx = len(cdf) - 1
		}
		hits[idx]++
	}

	dist := make(sample.Distribution, len(hits))
	for idx, n := range hits {
		dist[bitstring(idx, c.Qubits)] = n
	}
	s.cfg.log.V(1).Info("simulated circuit", "qubits", c.Qubits, "gates", len(c.Gates), "shots", shots, "outcomes", len(dist))
	return dist, nil
}

// Probabilities returns |amplitude|² for every basis state of c.
func (s *Simulator) Probabilities(ctx context.Context, c *circuit.Circuit) ([]float64, error) {
	psi, err := s.Statevector(ctx, c)
	if err != nil {
		return nil, err
	}
	p := make([]float64, len(psi))
	for i, a := range psi {
		p[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return p, nil
}

// Statevector applies every unitary gate of c to |0…0⟩ and returns the
// final amplitudes (measurements are skipped).
func (s *Simulator) Statevector(ctx context.Context, c *circuit.Circuit) ([]complex128, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Qubits > s.cfg.maxQubits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyQubits, c.Qubits, s.cfg.maxQubits)
	}

	psi := make([]complex128, 1<<uint(c.Qubits))
	psi[0] = 1
	for i, g := range c.Gates {
		if i%gatesPerCtxCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		apply(psi, g)
	}
	return psi, nil
}

// apply mutates psi by one validated gate.
func apply(psi []complex128, g circuit.Gate) {
	switch g.Op {
	case circuit.OpH:
		hadamard(psi, g.Qubits[0])
	case circuit.OpRX:
		rx(psi, g.Qubits[0], g.Angle)
	case circuit.OpRZ:
		rz(psi, g.Qubits[0], g.Angle)
	case circuit.OpRZZ:
		rzz(psi, g.Qubits[0], g.Qubits[1], g.Angle)
	case circuit.OpCX:
		cx(psi, g.Qubits[0], g.Qubits[1])
	case circuit.OpMeasure:
		// sampled after the last gate
	}
}

func hadamard(psi []complex128, q int) {
	bit := 1 << uint(q)
	inv := complex(1/math.Sqrt2, 0)
	for i := range psi {
		if i&bit != 0 {
			continue
		}
		a, b := psi[i], psi[i|bit]
		psi[i], psi[i|bit] = (a+b)*inv, (a-b)*inv
	}
}

// rx applies exp(−iθX/2).
func rx(psi []complex128, q int, theta float64) {
	bit := 1 << uint(q)
	c := complex(math.Cos(theta/2), 0)
	ms := complex(0, -math.Sin(theta/2))
	for i := range psi {
		if i&bit != 0 {
			continue
		}
		a, b := psi[i], psi[i|bit]
		psi[i], psi[i|bit] = c*a+ms*b, ms*a+c*b
	}
}

// rz applies exp(−iθZ/2).
func rz(psi []complex128, q int, theta float64) {
	bit := 1 << uint(q)
	zero := complex(math.Cos(theta/2), -math.Sin(theta/2))
	one := complex(math.Cos(theta/2), math.Sin(theta/2))
	for i := range psi {
		if i&bit == 0 {
			psi[i] *= zero
		} else {
			psi[i] *= one
		}
	}
}

// rzz applies exp(−iθ Z⊗Z/2): even parity gains e^{−iθ/2}, odd e^{+iθ/2}.
func rzz(psi []complex128, q1, q2 int, theta float64) {
	b1, b2 := 1<<uint(q1), 1<<uint(q2)
	even := complex(math.Cos(theta/2), -math.Sin(theta/2))
	odd := complex(math.Cos(theta/2), math.Sin(theta/2))
	for i := range psi {
		if (i&b1 != 0) == (i&b2 != 0) {
			psi[i] *= even
		} else {
			psi[i] *= odd
		}
	}
}

// cx flips target where control is 1.
func cx(psi []complex128, control, target int) {
	cb, tb := 1<<uint(control), 1<<uint(target)
	for i := range psi {
		if i&cb != 0 && i&tb == 0 {
			psi[i], psi[i|tb] = psi[i|tb], psi[i]
		}
	}
}

// bitstring renders basis index idx with qubit 0 first.
func bitstring(idx, n int) string {
	b := make([]byte, n)
	for q := 0; q < n; q++ {
		if idx&(1<<uint(q)) != 0 {
			b[q] = '1'
		} else {
			b[q] = '0'
		}
	}
	return string(b)
}
