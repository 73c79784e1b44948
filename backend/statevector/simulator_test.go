package statevector_test

import (
	"context"
	"math"
	"math/cmplx"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/netqaoa/backend"
	"github.com/katalvlaran/netqaoa/backend/statevector"
	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/qubo"
	"github.com/katalvlaran/netqaoa/sample"
)

func measured(n int, gates ...circuit.Gate) *circuit.Circuit {
	c := &circuit.Circuit{Qubits: n, Layers: 1, Gates: gates}
	for q := 0; q < n; q++ {
		c.Gates = append(c.Gates, circuit.Gate{Op: circuit.OpMeasure, Qubits: []int{q}, Layer: 2})
	}
	return c
}

func TestRun_BitOrdering(t *testing.T) {
	sim := statevector.New(statevector.WithSeed(3))
	c := measured(3, circuit.Gate{Op: circuit.OpRX, Qubits: []int{1}, Angle: math.Pi, Layer: 1})

	dist, err := sim.Run(context.Background(), c, 100)
	require.NoError(t, err)
	assert.Equal(t, sample.Distribution{"010": 100}, dist, "qubit 1 is the second character")
}

func TestRun_UniformSuperposition(t *testing.T) {
	sim := statevector.New(statevector.WithSeed(11))
	c := measured(1, circuit.Gate{Op: circuit.OpH, Qubits: []int{0}})

	const shots = 20000
	dist, err := sim.Run(context.Background(), c, shots)
	require.NoError(t, err)
	require.NoError(t, backend.Check(dist, shots, 1))
	assert.InDelta(t, 0.5, float64(dist["0"])/shots, 0.03)
}

func TestRun_SeedReproducible(t *testing.T) {
	c := measured(2,
		circuit.Gate{Op: circuit.OpH, Qubits: []int{0}},
		circuit.Gate{Op: circuit.OpH, Qubits: []int{1}},
		circuit.Gate{Op: circuit.OpRZZ, Qubits: []int{0, 1}, Angle: 0.7},
		circuit.Gate{Op: circuit.OpRX, Qubits: []int{0}, Angle: 0.9},
	)
	a, err := statevector.New(statevector.WithSeed(5)).Run(context.Background(), c, 500)
	require.NoError(t, err)
	b, err := statevector.New(statevector.WithSeed(5)).Run(context.Background(), c, 500)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStatevector_SingleQubitExpectation(t *testing.T) {
	// <Z> after H, rz(2γh), rx(2β) is sin(2γh)·sin(2β).
	const h, gamma, beta = 0.5, 0.3, 0.4
	is := &qubo.Ising{N: 1, Bias: []float64{h}, Coupling: map[qubo.Pair]float64{}}
	c, err := circuit.Build(is, []float64{gamma, beta}, 1)
	require.NoError(t, err)

	p, err := statevector.New().Probabilities(context.Background(), c)
	require.NoError(t, err)
	assert.InDelta(t, math.Sin(2*gamma*h)*math.Sin(2*beta), p[0]-p[1], 1e-12)
}

func TestStatevector_DecomposedZZMatchesNative(t *testing.T) {
	is := &qubo.Ising{
		N:        3,
		Bias:     []float64{0.2, -0.4, 0.1},
		Coupling: map[qubo.Pair]float64{{I: 0, J: 1}: 0.8, {I: 1, J: 2}: -0.5, {I: 0, J: 2}: 0.3},
	}
	angles := []float64{0.4, 1.1, 0.3, 0.7}
	native, err := circuit.Build(is, angles, 2)
	require.NoError(t, err)
	decomposed, err := circuit.Build(is, angles, 2, circuit.WithDecomposedZZ())
	require.NoError(t, err)

	sim := statevector.New()
	a, err := sim.Statevector(context.Background(), native)
	require.NoError(t, err)
	b, err := sim.Statevector(context.Background(), decomposed)
	require.NoError(t, err)
	require.Len(t, b, len(a))

	var norm float64
	for i := range a {
		require.Less(t, cmplx.Abs(a[i]-b[i]), 1e-12, "amplitude %d", i)
		norm += real(a[i])*real(a[i]) + imag(a[i])*imag(a[i])
	}
	assert.InDelta(t, 1.0, norm, 1e-12)
}

func TestRun_Errors(t *testing.T) {
	sim := statevector.New(statevector.WithMaxQubits(2))
	_, err := sim.Run(context.Background(), measured(3), 10)
	assert.ErrorIs(t, err, statevector.ErrTooManyQubits)

	_, err = sim.Run(context.Background(), measured(1), 0)
	assert.ErrorIs(t, err, backend.ErrShots)

	bad := measured(1, circuit.Gate{Op: circuit.OpCX, Qubits: []int{0, 0}})
	_, err = sim.Run(context.Background(), bad, 1)
	assert.ErrorIs(t, err, circuit.ErrInvalidGate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx, measured(1), 1)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Panics(t, func() { statevector.WithMaxQubits(0) })
	assert.Panics(t, func() { statevector.WithName("") })
}

func TestRun_Concurrent(t *testing.T) {
	sim := statevector.New(statevector.WithSeed(9), statevector.WithName("sim"))
	require.Equal(t, "sim", sim.Name())
	c := measured(2,
		circuit.Gate{Op: circuit.OpH, Qubits: []int{0}},
		circuit.Gate{Op: circuit.OpCX, Qubits: []int{0, 1}},
	)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dist, err := sim.Run(context.Background(), c, 256)
			if err == nil {
				err = backend.Check(dist, 256, 2)
			}
			if err == nil && dist["01"]+dist["10"] != 0 {
				err = assert.AnError
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err, "bell pair only yields 00 or 11")
	}
}
