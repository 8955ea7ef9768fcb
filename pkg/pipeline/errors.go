package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrQueueMustBeSet = errors.New("queue must be set")
	ErrQueueSealed    = errors.New("queue is sealed")
	ErrOpMustBeSet    = errors.New("operation must be set")
	ErrOpenMustBeSet  = errors.New("job open function must be set")
	ErrOpPanicked     = errors.New("operation panicked")
)

// StepError is returned when an entry of the queue fails.
type StepError struct {
	Index int
	Label string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Label, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// JobError is the failure of a single job.
type JobError struct {
	Job string
	Err error

	order int
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s: %v", e.Job, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// BatchError lists every failed job of a RunAll, in job order.
type BatchError struct {
	Failures []*JobError
}

func (e *BatchError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}

	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}

	return fmt.Sprintf("%d jobs failed:\n  - %s", len(e.Failures), strings.Join(msgs, "\n  - "))
}

type jobErrors struct {
	mu   sync.Mutex
	list []*JobError
}

func (je *jobErrors) add(jobErr *JobError) {
	je.mu.Lock()
	defer je.mu.Unlock()
	je.list = append(je.list, jobErr)
}

// batch returns nil when no job failed.
func (je *jobErrors) batch() error {
	je.mu.Lock()
	defer je.mu.Unlock()

	if len(je.list) == 0 {
		return nil
	}

	failures := append([]*JobError(nil), je.list...)
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].order < failures[j].order
	})

	return &BatchError{Failures: failures}
}
