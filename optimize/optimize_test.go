package optimize_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/netqaoa/backend"
	"github.com/katalvlaran/netqaoa/optimize"
)

// transient is a retryable error.
type transient struct{}

func (transient) Error() string   { return "transient" }
func (transient) Retryable() bool { return true }

func fastOptions() optimize.Options {
	o := optimize.DefaultOptions()
	o.MaxIterations = 200
	o.Retry = optimize.RetryPolicy{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
	return o
}

func bowl(_ context.Context, x []float64) (float64, error) {
	return (x[0]-1)*(x[0]-1) + (x[1]+0.5)*(x[1]+0.5) + 2, nil
}

func TestMinimize_ConstantObjective(t *testing.T) {
	o := fastOptions()
	o.MaxIterations = 20
	res, err := optimize.Minimize(context.Background(), []float64{0.3, 0.7}, func(context.Context, []float64) (float64, error) {
		return 5, nil
	}, o)
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Energy)
	assert.Len(t, res.Angles, 2)
	assert.Positive(t, res.Evaluations)
	assert.Len(t, res.Trace, res.Evaluations)
}

func TestMinimize_Bowl(t *testing.T) {
	res, err := optimize.Minimize(context.Background(), []float64{0, 0}, bowl, fastOptions())
	require.NoError(t, err)
	assert.InDelta(t, 2, res.Energy, 1e-3)
	assert.InDelta(t, 1, res.Angles[0], 0.05)
	assert.InDelta(t, -0.5, res.Angles[1], 0.05)
	assert.LessOrEqual(t, res.Iterations, 200)
	assert.NotEmpty(t, res.Status)
}

func TestMinimize_BestIsMinimumOfTrace(t *testing.T) {
	var hooked int
	o := fastOptions()
	o.MaxIterations = 15
	o.OnEvaluation = func(optimize.Evaluation) { hooked++ }
	res, err := optimize.Minimize(context.Background(), []float64{2, 2}, bowl, o)
	require.NoError(t, err)

	min := math.Inf(1)
	for i, ev := range res.Trace {
		assert.Equal(t, i, ev.Index)
		min = math.Min(min, ev.Energy)
	}
	assert.Equal(t, min, res.Energy)
	assert.Equal(t, res.Evaluations, hooked)
}

func TestMinimize_TransientRecovered(t *testing.T) {
	var calls, retries atomic.Int32
	o := fastOptions()
	o.MaxIterations = 5
	o.OnRetry = func(error, time.Duration) { retries.Add(1) }
	res, err := optimize.Minimize(context.Background(), []float64{0, 0}, func(ctx context.Context, x []float64) (float64, error) {
		if calls.Add(1)%3 == 1 {
			return 0, transient{}
		}
		return bowl(ctx, x)
	}, o)
	require.NoError(t, err)
	assert.Positive(t, retries.Load())
	assert.Less(t, res.Energy, math.Inf(1))
	for _, ev := range res.Trace {
		assert.GreaterOrEqual(t, ev.Attempts, 1)
	}
}

func TestMinimize_PermanentAborts(t *testing.T) {
	boom := errors.New("bad circuit")
	var calls int
	res, err := optimize.Minimize(context.Background(), []float64{0, 0}, func(ctx context.Context, x []float64) (float64, error) {
		calls++
		if calls > 4 {
			return 0, boom
		}
		return bowl(ctx, x)
	}, fastOptions())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 5, calls, "no retry of a permanent error")
	assert.Equal(t, 4, res.Evaluations)
	assert.Len(t, res.Angles, 2, "best point so far is still reported")
}

func TestMinimize_RetriesExhausted(t *testing.T) {
	var calls int
	o := fastOptions()
	o.Retry.MaxRetries = 2
	_, err := optimize.Minimize(context.Background(), []float64{0}, func(context.Context, []float64) (float64, error) {
		calls++
		return 0, transient{}
	}, o)
	require.ErrorIs(t, err, optimize.ErrRetriesExhausted)
	assert.ErrorAs(t, err, new(transient))
	assert.Equal(t, 3, calls)
}

func TestMinimize_NotFinite(t *testing.T) {
	_, err := optimize.Minimize(context.Background(), []float64{0}, func(context.Context, []float64) (float64, error) {
		return math.NaN(), nil
	}, fastOptions())
	assert.ErrorIs(t, err, optimize.ErrNotFinite)
}

func TestMinimize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	_, err := optimize.Minimize(ctx, []float64{0, 0}, func(ctx context.Context, x []float64) (float64, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return bowl(ctx, x)
	}, fastOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMinimize_BadInput(t *testing.T) {
	_, err := optimize.Minimize(context.Background(), nil, bowl, fastOptions())
	assert.ErrorIs(t, err, optimize.ErrNoAngles)

	for name, mutate := range map[string]func(*optimize.Options){
		"iterations":  func(o *optimize.Options) { o.MaxIterations = 0 },
		"evaluations": func(o *optimize.Options) { o.MaxEvaluations = -1 },
		"step":        func(o *optimize.Options) { o.InitialStep = math.NaN() },
		"retries":     func(o *optimize.Options) { o.Retry.MaxRetries = -1 },
		"warm":        func(o *optimize.Options) { o.WarmStart = -2 },
		"workers":     func(o *optimize.Options) { o.Workers = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			o := fastOptions()
			mutate(&o)
			_, err := optimize.Minimize(context.Background(), []float64{0, 0}, bowl, o)
			assert.ErrorIs(t, err, optimize.ErrBadOptions)
		})
	}

	_, err = optimize.Minimize(context.Background(), []float64{math.Inf(1)}, bowl, fastOptions())
	assert.ErrorIs(t, err, optimize.ErrBadOptions)
}

func TestMinimize_WarmStart(t *testing.T) {
	o := fastOptions()
	o.MaxIterations = 1
	o.WarmStart = 16
	o.Workers = 4
	o.Seed = 99

	// The initial point is far away; the best warm candidate must win.
	res, err := optimize.Minimize(context.Background(), []float64{40, 40}, bowl, o)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Trace), 17)

	warm := res.Trace[:17]
	for i, ev := range warm {
		assert.Equal(t, optimize.PhaseWarmStart, ev.Phase)
		if i > 0 {
			for _, a := range ev.Angles {
				assert.GreaterOrEqual(t, a, 0.0)
				assert.Less(t, a, math.Pi)
			}
		}
	}
	assert.Equal(t, []float64{40, 40}, warm[0].Angles)
	assert.Less(t, res.Energy, warm[0].Energy)

	// Same seed, same candidates in the same order.
	again, err := optimize.Minimize(context.Background(), []float64{40, 40}, bowl, o)
	require.NoError(t, err)
	for i := range warm {
		assert.Equal(t, warm[i].Angles, again.Trace[i].Angles)
	}
}

func TestCandidates(t *testing.T) {
	a := optimize.Candidates(7, 4, 3)
	b := optimize.Candidates(7, 4, 3)
	c := optimize.Candidates(8, 4, 3)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	require.Len(t, a, 3)
	for _, p := range a {
		assert.Len(t, p, 4)
	}
}

func TestRetry(t *testing.T) {
	p := optimize.RetryPolicy{MaxRetries: 4, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

	n := 0
	v, attempts, err := optimize.Retry(context.Background(), p, func(context.Context) (string, error) {
		n++
		if n < 3 {
			return "", transient{}
		}
		return "ok", nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, attempts)

	boom := errors.New("boom")
	_, attempts, err = optimize.Retry(context.Background(), p, func(context.Context) (int, error) {
		return 0, boom
	}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)

	// backend.UnavailableError is retried like any self-declared transient error.
	calls := 0
	got, attempts, err := optimize.Retry(context.Background(), p, func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, backend.Unavailable("sim", errors.New("queue full"))
		}
		return 7, nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 2, attempts)
}

func TestRetry_ContextCancelledWhileWaiting(t *testing.T) {
	p := optimize.RetryPolicy{MaxRetries: 10, InitialInterval: time.Hour, MaxInterval: time.Hour}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := optimize.Retry(ctx, p, func(context.Context) (int, error) { return 0, transient{} }, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
