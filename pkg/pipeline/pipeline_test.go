package pipeline_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgpipe/pkg/pipeline"
	"github.com/askiada/go-imgpipe/pkg/pipeline/drawer"
	"github.com/askiada/go-imgpipe/pkg/pipeline/measure"
	"github.com/askiada/go-imgpipe/pkg/pipeline/model"
)

func TestNewNilQueue(t *testing.T) {
	t.Parallel()

	_, err := pipeline.New[int](nil)
	require.ErrorIs(t, err, pipeline.ErrQueueMustBeSet)
}

func TestNewSealsQueue(t *testing.T) {
	t.Parallel()

	q := newQueue(t, pipeline.Entry[int]{Label: "a", Op: add(1)})
	pipe, err := pipeline.New(q)
	require.NoError(t, err)
	assert.True(t, q.Sealed())
	assert.Equal(t, 1, pipe.Len())
	assert.Equal(t, []string{"a"}, pipe.Labels())
	assert.False(t, pipe.StartTime().IsZero())
}

func TestRunAppliesInOrder(t *testing.T) {
	t.Parallel()

	// (1 + 2) * 10 differs from 1 * 10 + 2
	q := newQueue(t,
		pipeline.Entry[int]{Label: "add", Op: add(2)},
		pipeline.Entry[int]{Label: "mul", Op: mul(10)},
	)
	pipe, err := pipeline.New(q)
	require.NoError(t, err)

	got, err := pipe.Run(context.Background(), "job", 1)
	require.NoError(t, err)
	assert.Equal(t, 30, got)
}

func TestRunStopsOnFirstError(t *testing.T) {
	t.Parallel()

	var after atomic.Int32
	q := newQueue(t,
		pipeline.Entry[int]{Label: "add", Op: add(2)},
		pipeline.Entry[int]{Label: "broken", Op: fail(assert.AnError)},
		pipeline.Entry[int]{Label: "never", Op: func(_ context.Context, handle int) (int, error) {
			after.Add(1)
			return handle, nil
		}},
	)
	pipe, err := pipeline.New(q)
	require.NoError(t, err)

	got, err := pipe.Run(context.Background(), "job", 1)
	var stepErr *pipeline.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Index)
	assert.Equal(t, "broken", stepErr.Label)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 3, got)
	assert.Zero(t, after.Load())
}

func TestRunCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	q := newQueue(t,
		pipeline.Entry[int]{Label: "cancel", Op: func(_ context.Context, handle int) (int, error) {
			cancel()
			return handle + 1, nil
		}},
		pipeline.Entry[int]{Label: "never", Op: add(100)},
	)
	pipe, err := pipeline.New(q)
	require.NoError(t, err)

	got, err := pipe.Run(ctx, "job", 0)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, got)
}

func TestRunAllIndependentHandles(t *testing.T) {
	t.Parallel()

	q := newQueue(t,
		pipeline.Entry[int]{Label: "mul", Op: mul(2)},
		pipeline.Entry[int]{Label: "add", Op: add(1)},
	)
	pipe, err := pipeline.New(q, pipeline.PipelineConcurrency(3))
	require.NoError(t, err)

	res := newResults()
	jobs := make([]pipeline.Job[int], 0, 10)
	for i := 0; i < 10; i++ {
		jobs = append(jobs, res.job(fmt.Sprintf("job-%d", i), i))
	}
	require.NoError(t, pipe.RunAll(context.Background(), jobs))

	require.Len(t, res.values, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, i*2+1, res.values[fmt.Sprintf("job-%d", i)])
	}
}

func TestRunAllBoundsConcurrency(t *testing.T) {
	t.Parallel()

	var running, peak atomic.Int32
	q := newQueue(t, pipeline.Entry[int]{Label: "slow", Op: func(_ context.Context, handle int) (int, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return handle, nil
	}})
	pipe, err := pipeline.New(q, pipeline.PipelineConcurrency(2))
	require.NoError(t, err)

	res := newResults()
	jobs := []pipeline.Job[int]{res.job("a", 0), res.job("b", 0), res.job("c", 0), res.job("d", 0), res.job("e", 0)}
	require.NoError(t, pipe.RunAll(context.Background(), jobs))
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Len(t, res.values, 5)
}

func TestRunAllCollectsFailures(t *testing.T) {
	t.Parallel()

	q := newQueue(t, pipeline.Entry[int]{Label: "check", Op: func(_ context.Context, handle int) (int, error) {
		if handle < 0 {
			return 0, assert.AnError
		}
		return handle, nil
	}})
	pipe, err := pipeline.New(q)
	require.NoError(t, err)

	res := newResults()
	openErr := pipeline.Job[int]{Name: "unreadable", Open: func(context.Context) (int, error) {
		return 0, fmt.Errorf("no such file")
	}}
	jobs := []pipeline.Job[int]{
		res.job("ok-1", 1),
		res.job("negative", -1),
		openErr,
		{Name: "no-open"},
		res.job("ok-2", 2),
	}

	err = pipe.RunAll(context.Background(), jobs)
	var batch *pipeline.BatchError
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Failures, 3)
	assert.Equal(t, "negative", batch.Failures[0].Job)
	assert.ErrorIs(t, batch.Failures[0], assert.AnError)
	assert.Equal(t, "unreadable", batch.Failures[1].Job)
	assert.Equal(t, "no-open", batch.Failures[2].Job)
	assert.ErrorIs(t, batch.Failures[2], pipeline.ErrOpenMustBeSet)

	// siblings kept running
	assert.Equal(t, map[string]int{"ok-1": 1, "ok-2": 2}, res.values)
}

type recorder struct {
	prepared []string
	outputs  atomic.Int32
	jobs     atomic.Int32
	finished atomic.Int32
}

func newRecorder() *recorder {
	return &recorder{}
}

func (r *recorder) New() error { return nil }

func (r *recorder) PrepareEntry(parent, entry *model.EntryInfo) error {
	r.prepared = append(r.prepared, parent.Key()+">"+entry.Key())
	return nil
}

func (r *recorder) OnEntryOutput(string, *model.EntryInfo, time.Duration) error {
	r.outputs.Add(1)
	return nil
}

func (r *recorder) AfterJob(string, time.Duration, error) error {
	r.jobs.Add(1)
	return nil
}

func (r *recorder) Finish() error {
	r.finished.Add(1)
	return nil
}

func TestPipelineHooks(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	q := newQueue(t,
		pipeline.Entry[int]{Label: "a", Op: add(1)},
		pipeline.Entry[int]{Label: "b", Op: add(1)},
	)
	pipe, err := pipeline.New(q, pipeline.PipelineHooks(rec))
	require.NoError(t, err)
	assert.Equal(t, []string{"input>0:a", "0:a>1:b"}, rec.prepared)

	res := newResults()
	require.NoError(t, pipe.RunAll(context.Background(), []pipeline.Job[int]{res.job("x", 0), res.job("y", 0)}))
	assert.Equal(t, int32(4), rec.outputs.Load())
	assert.Equal(t, int32(2), rec.jobs.Load())
	assert.Equal(t, int32(1), rec.finished.Load())

	require.NoError(t, pipe.Finish())
	assert.Equal(t, int32(1), rec.finished.Load())
}

func TestPipelineMeasureAndDrawer(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	msr := measure.NewDefaultMeasure()
	q := newQueue(t,
		pipeline.Entry[int]{Label: "resize", Op: add(1)},
		pipeline.Entry[int]{Label: "rotate", Op: add(1)},
		pipeline.Entry[int]{Label: "rotate", Op: add(1)},
	)
	pipe, err := pipeline.New(q, pipeline.PipelineHooks(
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(fs, "graph.dot"), msr),
	))
	require.NoError(t, err)

	res := newResults()
	require.NoError(t, pipe.RunAll(context.Background(), []pipeline.Job[int]{res.job("a", 0), res.job("b", 0)}))

	for _, key := range []string{"0:resize", "1:rotate", "2:rotate"} {
		mt := msr.GetMetric(key)
		require.NotNil(t, mt, key)
		assert.Equal(t, int64(2), mt.Total(), key)
	}
	assert.Equal(t, int64(2), msr.GetMetric("output").Total())

	dot, err := afero.ReadFile(fs, "graph.dot")
	require.NoError(t, err)
	assert.Contains(t, string(dot), `"input" -> "0:resize"`)
	assert.Contains(t, string(dot), `"1:rotate" -> "2:rotate"`)
	assert.Contains(t, string(dot), `"2:rotate" -> "output"`)
}

func TestRunRecoversPanic(t *testing.T) {
	t.Parallel()

	q := newQueue(t,
		pipeline.Entry[int]{Label: "add", Op: add(1)},
		pipeline.Entry[int]{Label: "explode", Op: func(context.Context, int) (int, error) {
			panic("huge dimensions")
		}},
	)
	pipe, err := pipeline.New(q)
	require.NoError(t, err)

	res := newResults()
	err = pipe.RunAll(context.Background(), []pipeline.Job[int]{res.job("bad", 0), res.job("other", 0)})
	var batch *pipeline.BatchError
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Failures, 2)

	var stepErr *pipeline.StepError
	require.ErrorAs(t, batch.Failures[0], &stepErr)
	assert.Equal(t, "explode", stepErr.Label)
	assert.ErrorIs(t, batch.Failures[0], pipeline.ErrOpPanicked)
	assert.Contains(t, stepErr.Error(), "huge dimensions")
}
