package qaoa_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/netqaoa/backend"
	"github.com/katalvlaran/netqaoa/backend/remote"
	"github.com/katalvlaran/netqaoa/backend/statevector"
	"github.com/katalvlaran/netqaoa/circuit"
	"github.com/katalvlaran/netqaoa/config"
	"github.com/katalvlaran/netqaoa/metrics"
	"github.com/katalvlaran/netqaoa/network"
	"github.com/katalvlaran/netqaoa/qaoa"
	"github.com/katalvlaran/netqaoa/sample"
	"github.com/katalvlaran/netqaoa/store"
)

// exampleNetwork: A(2,1) and B(3,1) feed C and D (demand 1), relay E.
func exampleNetwork(t *testing.T) *network.Network {
	t.Helper()
	n, err := network.New(
		[]string{"A", "B"},
		[]network.Sink{{Name: "C", Demand: 1}, {Name: "D", Demand: 1}},
		network.Relay{Name: "E"},
		map[string]float64{"A": 2, "B": 3},
		map[string]int{"A": 1, "B": 1},
	)
	require.NoError(t, err)
	return n
}

func testConfig() config.Config {
	c := config.Default()
	c.Shots = 512
	c.MaxIterations = 10
	c.Seed = 11
	c.RetryInitialInterval = time.Millisecond
	return c
}

// flaky fails every third run with a transient error.
type flaky struct {
	backend.Backend
	calls atomic.Int32
}

func (f *flaky) Run(ctx context.Context, c *circuit.Circuit, shots int) (sample.Distribution, error) {
	if f.calls.Add(1)%3 == 1 {
		return nil, backend.Unavailable(f.Name(), errors.New("queue full"))
	}
	return f.Backend.Run(ctx, c, shots)
}

// broken always fails permanently.
type broken struct{}

func (broken) Name() string { return "broken" }

func (broken) Run(context.Context, *circuit.Circuit, int) (sample.Distribution, error) {
	return nil, errors.New("unsupported gate")
}

func TestSolve_Example(t *testing.T) {
	s, err := qaoa.NewSolver(statevector.New(statevector.WithSeed(3)), testConfig())
	require.NoError(t, err)

	rep, err := s.Solve(context.Background(), exampleNetwork(t))
	require.NoError(t, err)

	assert.Equal(t, 8, rep.Variables)
	assert.Len(t, rep.Arcs, 8)
	assert.True(t, rep.Feasible)
	assert.Equal(t, 2.0, rep.MaxDeliverable)
	assert.Equal(t, "statevector", rep.Backend)

	require.NotNil(t, rep.Reference)
	assert.InDelta(t, 5, rep.Reference.Energy, 1e-9)
	assert.Equal(t, "01010000", sample.Format(rep.Reference.Bits))

	assert.Equal(t, 512, rep.Distribution.Total())
	assert.Positive(t, rep.Optimization.Evaluations)
	assert.Len(t, rep.Optimization.Angles, 2)
	assert.GreaterOrEqual(t, rep.LowestEnergy.Energy, rep.Reference.Energy-1e-9)
	assert.LessOrEqual(t, rep.LowestEnergy.Energy, rep.MostFrequent.Energy)
	assert.Equal(t, len(rep.MostFrequent.Check.Active), len(rep.MostFrequent.Flows))
	assert.Greater(t, rep.Circuit.Gates, 0)
}

func TestSolve_Deterministic(t *testing.T) {
	run := func() *qaoa.Report {
		s, err := qaoa.NewSolver(statevector.New(statevector.WithSeed(9)), testConfig())
		require.NoError(t, err)
		rep, err := s.Solve(context.Background(), exampleNetwork(t))
		require.NoError(t, err)
		return rep
	}
	a, b := run(), run()
	assert.Equal(t, a.Optimization.Angles, b.Optimization.Angles)
	assert.Equal(t, a.Distribution, b.Distribution)
	assert.Equal(t, a.MostFrequent.Bitstring, b.MostFrequent.Bitstring)
}

func TestSolve_StoreAndMetrics(t *testing.T) {
	st, err := store.Open(store.Memory)
	require.NoError(t, err)
	defer st.Close()
	reg := metrics.NewRegistry()

	s, err := qaoa.NewSolver(statevector.New(), testConfig(), qaoa.WithStore(st), qaoa.WithMetrics(reg), qaoa.WithLogger(logr.Discard()))
	require.NoError(t, err)
	rep, err := s.Solve(context.Background(), exampleNetwork(t))
	require.NoError(t, err)
	require.NotEmpty(t, rep.RunID)

	run, err := st.GetRun(context.Background(), rep.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusSucceeded, run.Status)
	assert.NotEmpty(t, run.Report)
	assert.NotEmpty(t, run.Network)

	evs, err := st.Evaluations(context.Background(), rep.RunID)
	require.NoError(t, err)
	assert.Len(t, evs, rep.Optimization.Evaluations)

	var m dto.Metric
	require.NoError(t, reg.EvaluationsTotal.WithLabelValues(metrics.StatusOK).Write(&m))
	assert.Equal(t, float64(rep.Optimization.Evaluations), m.GetCounter().GetValue())

	m.Reset()
	require.NoError(t, reg.BackendRunsTotal.WithLabelValues("statevector", metrics.StatusOK).Write(&m))
	assert.Equal(t, float64(rep.Optimization.Evaluations+1), m.GetCounter().GetValue(), "evaluations plus the final run")

	m.Reset()
	require.NoError(t, reg.QUBOVariables.Write(&m))
	assert.Equal(t, 8.0, m.GetGauge().GetValue())
}

func TestSolve_TransientFailuresRecovered(t *testing.T) {
	reg := metrics.NewRegistry()
	b := &flaky{Backend: statevector.New()}
	s, err := qaoa.NewSolver(b, testConfig(), qaoa.WithMetrics(reg))
	require.NoError(t, err)

	rep, err := s.Solve(context.Background(), exampleNetwork(t))
	require.NoError(t, err)
	assert.Equal(t, 512, rep.Distribution.Total())

	var m dto.Metric
	require.NoError(t, reg.BackendRetriesTotal.Write(&m))
	assert.Positive(t, m.GetCounter().GetValue())
}

func TestSolve_PermanentFailureIsRecorded(t *testing.T) {
	st, err := store.Open(store.Memory)
	require.NoError(t, err)
	defer st.Close()

	s, err := qaoa.NewSolver(broken{}, testConfig(), qaoa.WithStore(st))
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), exampleNetwork(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported gate")
	assert.False(t, backend.IsRetryable(err))

	runs, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.StatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "unsupported gate")
}

func TestSolve_ExactDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ExactLimit = 0
	s, err := qaoa.NewSolver(statevector.New(), cfg)
	require.NoError(t, err)
	rep, err := s.Solve(context.Background(), exampleNetwork(t))
	require.NoError(t, err)
	assert.Nil(t, rep.Reference)
	assert.False(t, rep.FoundReference())
}

func TestNewSolver_Rejects(t *testing.T) {
	_, err := qaoa.NewSolver(nil, testConfig())
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Penalty = -1
	_, err = qaoa.NewSolver(statevector.New(), cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)

	assert.Panics(t, func() { qaoa.WithStore(nil) })
	assert.Panics(t, func() { qaoa.WithMetrics(nil) })
}

func TestNewBackend(t *testing.T) {
	for _, name := range []string{"sim", "simulator", "statevector"} {
		cfg := testConfig()
		cfg.Backend = name
		b, closeFn, err := qaoa.NewBackend(cfg, logr.Discard())
		require.NoError(t, err, name)
		assert.IsType(t, &statevector.Simulator{}, b)
		assert.NoError(t, closeFn())
	}

	cfg := testConfig()
	cfg.Backend = "qpu"
	_, _, err := qaoa.NewBackend(cfg, logr.Discard())
	assert.ErrorIs(t, err, qaoa.ErrUnknownBackend)

	cfg.Backend = "remote"
	_, _, err = qaoa.NewBackend(cfg, logr.Discard())
	assert.ErrorIs(t, err, qaoa.ErrUnknownBackend, "remote needs an address")
}

func TestSolve_OverRemote(t *testing.T) {
	addr := "inproc://qaoa-solver-test"
	ctx, cancel := context.WithCancel(context.Background())
	srv, err := remote.NewServer(statevector.New(statevector.WithSeed(4)))
	require.NoError(t, err)
	require.NoError(t, srv.Listen(addr))
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	cfg := testConfig()
	cfg.Backend = "remote"
	cfg.RemoteAddr = addr
	cfg.MaxIterations = 3
	b, closeFn, err := qaoa.NewBackend(cfg, logr.Discard())
	require.NoError(t, err)
	defer closeFn()

	s, err := qaoa.NewSolver(b, cfg)
	require.NoError(t, err)
	rep, err := s.Solve(context.Background(), exampleNetwork(t))
	require.NoError(t, err)
	assert.Equal(t, remote.DefaultName, rep.Backend)
	assert.Equal(t, 512, rep.Distribution.Total())
}
