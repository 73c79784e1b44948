package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/netqaoa/optimize"
	"github.com/katalvlaran/netqaoa/store"
)

type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	s     *store.Store
	clock time.Time
}

func (ss *StoreSuite) SetupTest() {
	ss.ctx = context.Background()
	s, err := store.Open(store.Memory)
	ss.Require().NoError(err)
	ss.clock = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.SetClock(func() time.Time {
		ss.clock = ss.clock.Add(time.Second)
		return ss.clock
	})
	ss.s = s
}

func (ss *StoreSuite) TearDownTest() {
	ss.NoError(ss.s.Close())
}

func (ss *StoreSuite) TestLifecycle() {
	run, err := ss.s.CreateRun(ss.ctx, store.NewRun{
		Backend: "statevector",
		Network: map[string]any{"sources": []string{"A", "B"}},
		Params:  map[string]int{"layers": 1},
	})
	ss.Require().NoError(err)
	ss.NotEmpty(run.ID)
	ss.Equal(store.StatusRunning, run.Status)

	for i := 0; i < 3; i++ {
		ss.Require().NoError(ss.s.RecordEvaluation(ss.ctx, run.ID, optimize.Evaluation{
			Index:    i,
			Phase:    optimize.PhaseSearch,
			Angles:   []float64{0.1 * float64(i), 0.2},
			Energy:   10 - float64(i),
			Attempts: 1,
			Elapsed:  time.Duration(i) * time.Millisecond,
		}))
	}
	ss.Require().NoError(ss.s.FinishRun(ss.ctx, run.ID, map[string]float64{"energy": 8}, nil))

	got, err := ss.s.GetRun(ss.ctx, run.ID)
	ss.Require().NoError(err)
	ss.Equal(store.StatusSucceeded, got.Status)
	ss.Equal("statevector", got.Backend)
	ss.Equal(run.CreatedAt, got.CreatedAt)
	ss.Require().NotNil(got.FinishedAt)
	ss.True(got.FinishedAt.After(got.CreatedAt))
	ss.JSONEq(`{"energy": 8}`, string(got.Report))
	ss.JSONEq(`{"layers": 1}`, string(got.Params))
	ss.Empty(got.Error)

	evs, err := ss.s.Evaluations(ss.ctx, run.ID)
	ss.Require().NoError(err)
	ss.Require().Len(evs, 3)
	ss.Equal(2, evs[2].Index)
	ss.Equal([]float64{0.2, 0.2}, evs[2].Angles)
	ss.Equal(8.0, evs[2].Energy)
	ss.Equal(optimize.PhaseSearch, evs[2].Phase)
	ss.Equal(2*time.Millisecond, evs[2].Elapsed)

	// finished runs are immutable
	ss.ErrorIs(ss.s.FinishRun(ss.ctx, run.ID, nil, nil), store.ErrFinished)
	ss.ErrorIs(ss.s.RecordEvaluation(ss.ctx, run.ID, optimize.Evaluation{Index: 9}), store.ErrFinished)
}

func (ss *StoreSuite) TestFailedRun() {
	run, err := ss.s.CreateRun(ss.ctx, store.NewRun{Backend: "remote"})
	ss.Require().NoError(err)
	ss.Require().NoError(ss.s.FinishRun(ss.ctx, run.ID, nil, errors.New("backend unavailable")))

	got, err := ss.s.GetRun(ss.ctx, run.ID)
	ss.Require().NoError(err)
	ss.Equal(store.StatusFailed, got.Status)
	ss.Equal("backend unavailable", got.Error)
	ss.Nil(got.Report)
	ss.Nil(got.Network)
}

func (ss *StoreSuite) TestListNewestFirst() {
	var ids []string
	for i := 0; i < 4; i++ {
		run, err := ss.s.CreateRun(ss.ctx, store.NewRun{})
		ss.Require().NoError(err)
		ids = append(ids, run.ID)
	}

	all, err := ss.s.ListRuns(ss.ctx, 0)
	ss.Require().NoError(err)
	ss.Require().Len(all, 4)
	for i, r := range all {
		ss.Equal(ids[3-i], r.ID)
	}

	two, err := ss.s.ListRuns(ss.ctx, 2)
	ss.Require().NoError(err)
	ss.Equal([]string{ids[3], ids[2]}, []string{two[0].ID, two[1].ID})
}

func (ss *StoreSuite) TestUnknownRun() {
	_, err := ss.s.GetRun(ss.ctx, "nope")
	ss.ErrorIs(err, store.ErrNotFound)
	_, err = ss.s.Evaluations(ss.ctx, "nope")
	ss.ErrorIs(err, store.ErrNotFound)
	ss.ErrorIs(ss.s.RecordEvaluation(ss.ctx, "nope", optimize.Evaluation{}), store.ErrNotFound)
	ss.ErrorIs(ss.s.FinishRun(ss.ctx, "nope", nil, nil), store.ErrNotFound)
}

func (ss *StoreSuite) TestDuplicateEvaluationIndex() {
	run, err := ss.s.CreateRun(ss.ctx, store.NewRun{})
	ss.Require().NoError(err)
	ev := optimize.Evaluation{Index: 0, Phase: optimize.PhaseWarmStart, Angles: []float64{1}}
	ss.Require().NoError(ss.s.RecordEvaluation(ss.ctx, run.ID, ev))
	ss.Error(ss.s.RecordEvaluation(ss.ctx, run.ID, ev))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func TestOpen_FilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	run, err := s.CreateRun(context.Background(), store.NewRun{Backend: "statevector", Params: json.RawMessage(`{"p":2}`)})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusRunning, got.Status)
	assert.JSONEq(t, `{"p":2}`, string(got.Params))
}
