package circuit_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/network"
	"github.com/katalvlaran/netqaoa/qubo"
)

// pairModel is h = (0.5, 0), J01 = 1.
func pairModel() *qubo.Ising {
	return &qubo.Ising{
		N:        2,
		Bias:     []float64{0.5, 0},
		Coupling: map[qubo.Pair]float64{{I: 0, J: 1}: 1},
	}
}

func ops(c *circuit.Circuit) []circuit.Op {
	out := make([]circuit.Op, len(c.Gates))
	for i, g := range c.Gates {
		out[i] = g.Op
	}
	return out
}

func TestBuild_GateSequence(t *testing.T) {
	c, err := circuit.Build(pairModel(), []float64{0.1, 0.2}, 1)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, []circuit.Op{
		circuit.OpH, circuit.OpH,
		circuit.OpRZ, circuit.OpRZZ, circuit.OpRX, circuit.OpRX,
		circuit.OpMeasure, circuit.OpMeasure,
	}, ops(c))

	assert.Equal(t, []int{0}, c.Gates[2].Qubits, "zero bias on qubit 1 emits nothing")
	assert.Equal(t, 0.1, c.Gates[2].Angle)
	assert.Equal(t, []int{0, 1}, c.Gates[3].Qubits)
	assert.Equal(t, 0.2, c.Gates[3].Angle)
	assert.Equal(t, 0.4, c.Gates[4].Angle)
	assert.Equal(t, 1, c.Gates[4].Layer)
	assert.Equal(t, 2, c.Gates[7].Layer, "measurement follows the last layer")

	s := c.Stats()
	assert.Equal(t, 8, s.Gates)
	assert.Equal(t, 1, s.TwoQubit)
	assert.Equal(t, 5, s.Depth)
	assert.Equal(t, 2, s.ByOp[circuit.OpMeasure])
}

func TestBuild_AngleLayout(t *testing.T) {
	angles := []float64{0.1, 0.3, 0.2, 0.4}
	c, err := circuit.Build(pairModel(), angles, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.3}, c.Gammas)
	assert.Equal(t, []float64{0.2, 0.4}, c.Betas)

	angles[0] = 9
	assert.Equal(t, 0.1, c.Gammas[0], "circuit keeps its own copy of the angles")

	var mixers []float64
	for _, g := range c.Gates {
		if g.Op == circuit.OpRX && g.Qubits[0] == 0 {
			mixers = append(mixers, g.Angle)
		}
	}
	assert.Equal(t, []float64{0.4, 0.8}, mixers)
}

func TestBuild_DecomposedZZ(t *testing.T) {
	c, err := circuit.Build(pairModel(), []float64{0.1, 0.2}, 1, circuit.WithDecomposedZZ())
	require.NoError(t, err)
	assert.Equal(t, []circuit.Op{
		circuit.OpH, circuit.OpH,
		circuit.OpRZ,
		circuit.OpCX, circuit.OpRZ, circuit.OpCX,
		circuit.OpRX, circuit.OpRX,
		circuit.OpMeasure, circuit.OpMeasure,
	}, ops(c))
	assert.Equal(t, []int{1}, c.Gates[4].Qubits, "phase lands on the target")
	assert.Equal(t, 0.2, c.Gates[4].Angle)
	assert.Equal(t, 2, c.Stats().TwoQubit)
}

func TestBuild_Threshold(t *testing.T) {
	c, err := circuit.Build(pairModel(), []float64{0.1, 0.2}, 1, circuit.WithBiasThreshold(1))
	require.NoError(t, err)
	assert.Len(t, c.Gates, 6)
	assert.NotContains(t, ops(c), circuit.OpRZZ)

	assert.Panics(t, func() { circuit.WithBiasThreshold(-1) })
	assert.Panics(t, func() { circuit.WithBiasThreshold(math.NaN()) })
}

func TestBuild_Errors(t *testing.T) {
	is := pairModel()
	_, err := circuit.Build(is, nil, 0)
	assert.ErrorIs(t, err, circuit.ErrLayers)
	_, err = circuit.Build(is, []float64{1, 2, 3}, 1)
	assert.ErrorIs(t, err, circuit.ErrAngleCount)
	_, err = circuit.Build(&qubo.Ising{}, []float64{1, 2}, 1)
	assert.ErrorIs(t, err, circuit.ErrNoQubits)
	_, err = circuit.Build(nil, []float64{1, 2}, 1)
	assert.ErrorIs(t, err, circuit.ErrNoQubits)
	_, err = circuit.Build(is, []float64{math.Inf(1), 2}, 1)
	assert.ErrorIs(t, err, circuit.ErrBadAngle)

	_, err = circuit.FromQUBO(qubo.NewModel(2), 0, []float64{1, 2}, 1)
	assert.ErrorIs(t, err, circuit.ErrNoQubits)
	m := qubo.NewModel(3)
	m.AddLinear(2, 1)
	_, err = circuit.FromQUBO(m, 2, []float64{1, 2}, 1)
	assert.ErrorIs(t, err, qubo.ErrVariableRange)
}

func TestFromQUBO_Purity(t *testing.T) {
	net, err := network.New(
		[]string{"A", "B"},
		[]network.Sink{{Name: "C", Demand: 1}, {Name: "D", Demand: 1}},
		network.Relay{Name: "E"},
		map[string]float64{"A": 2, "B": 3},
		map[string]int{"A": 1, "B": 1},
	)
	require.NoError(t, err)
	m, _, err := qubo.Build(net, 10)
	require.NoError(t, err)

	angles := []float64{0.7, 0.1, 0.35, 0.2}
	a, err := circuit.FromQUBO(m, m.N, angles, 2)
	require.NoError(t, err)
	b, err := circuit.FromQUBO(m, m.N, angles, 2)
	require.NoError(t, err)
	require.True(t, circuit.Equal(a, b))

	is, err := qubo.ToIsing(m, m.N)
	require.NoError(t, err)
	viaIsing, err := circuit.Build(is, angles, 2)
	require.NoError(t, err)
	require.True(t, circuit.Equal(a, viaIsing))

	other, err := circuit.FromQUBO(m, m.N, []float64{0.7, 0.1, 0.35, 0.25}, 2)
	require.NoError(t, err)
	require.False(t, circuit.Equal(a, other))

	// one measurement per qubit, all at the end
	s := a.Stats()
	require.Equal(t, m.N, s.ByOp[circuit.OpMeasure])
	for i := len(a.Gates) - m.N; i < len(a.Gates); i++ {
		require.Equal(t, circuit.OpMeasure, a.Gates[i].Op)
	}

	// concurrent builds agree with the sequential one
	done := make(chan *circuit.Circuit, 8)
	for i := 0; i < cap(done); i++ {
		go func() {
			c, _ := circuit.FromQUBO(m, m.N, angles, 2)
			done <- c
		}()
	}
	for i := 0; i < cap(done); i++ {
		require.True(t, circuit.Equal(a, <-done))
	}
}

func TestValidate(t *testing.T) {
	c, err := circuit.Build(pairModel(), []float64{0.1, 0.2}, 1)
	require.NoError(t, err)

	bad := *c
	bad.Gates = append([]circuit.Gate(nil), c.Gates...)
	bad.Gates[0] = circuit.Gate{Op: "u3", Qubits: []int{0}}
	assert.ErrorIs(t, bad.Validate(), circuit.ErrInvalidGate)

	bad.Gates[0] = circuit.Gate{Op: circuit.OpCX, Qubits: []int{0}}
	assert.ErrorIs(t, bad.Validate(), circuit.ErrInvalidGate)

	bad.Gates[0] = circuit.Gate{Op: circuit.OpH, Qubits: []int{5}}
	assert.ErrorIs(t, bad.Validate(), circuit.ErrInvalidGate)

	bad.Gates[0] = circuit.Gate{Op: circuit.OpRX, Qubits: []int{0}, Angle: math.NaN()}
	assert.ErrorIs(t, bad.Validate(), circuit.ErrBadAngle)

	assert.ErrorIs(t, (&circuit.Circuit{}).Validate(), circuit.ErrNoQubits)
}

func TestQASM(t *testing.T) {
	c, err := circuit.Build(pairModel(), []float64{0.1, 0.2}, 1)
	require.NoError(t, err)
	assert.Equal(t, `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
h q[1];
rz(0.1) q[0];
rzz(0.2) q[0],q[1];
rx(0.4) q[0];
rx(0.4) q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`, c.QASM())
}
