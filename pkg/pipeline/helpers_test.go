package pipeline_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgpipe/pkg/pipeline"
)

// add returns an operation adding n to the handle.
func add(n int) pipeline.Op[int] {
	return func(_ context.Context, handle int) (int, error) {
		return handle + n, nil
	}
}

// mul returns an operation multiplying the handle by n.
func mul(n int) pipeline.Op[int] {
	return func(_ context.Context, handle int) (int, error) {
		return handle * n, nil
	}
}

func fail(err error) pipeline.Op[int] {
	return func(_ context.Context, handle int) (int, error) {
		return 0, err
	}
}

func newQueue(t *testing.T, entries ...pipeline.Entry[int]) *pipeline.Queue[int] {
	t.Helper()

	q := pipeline.NewQueue[int]()
	require.NoError(t, q.Push(entries...))

	return q
}

// results collects the final handle of each job.
type results struct {
	mu     sync.Mutex
	values map[string]int
}

func newResults() *results {
	return &results{values: map[string]int{}}
}

func (r *results) job(name string, start int) pipeline.Job[int] {
	return pipeline.Job[int]{
		Name: name,
		Open: func(context.Context) (int, error) {
			return start, nil
		},
		Finish: func(_ context.Context, handle int) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.values[name] = handle
			return nil
		},
	}
}
