package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-imgpipe/pkg/pipeline/model"
)

// Pipeline is a sealed operation queue.
type Pipeline[H any] struct {
	entries   []Entry[H]
	infos     []*model.EntryInfo
	cfg       *config
	startTime time.Time

	finishOnce sync.Once
	finishErr  error
}

// Job is one run of the pipeline against its own handle.
type Job[H any] struct {
	Name string
	// Open returns the initial handle of the job.
	Open func(ctx context.Context) (H, error)
	// Finish receives the final handle, optional.
	Finish func(ctx context.Context, handle H) error
}

// New seals the queue and creates a new pipeline.
func New[H any](q *Queue[H], opts ...PipelineOption) (*Pipeline[H], error) {
	if q == nil {
		return nil, ErrQueueMustBeSet
	}

	pipe := &Pipeline[H]{
		entries:   q.Seal(),
		cfg:       newConfig(opts...),
		startTime: time.Now(),
	}

	for _, hook := range pipe.cfg.hooks {
		err := hook.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	parent := model.InputEntry
	pipe.infos = make([]*model.EntryInfo, len(pipe.entries))
	for i, e := range pipe.entries {
		info := &model.EntryInfo{Type: model.OperationEntryType, Index: i, Label: e.Label}
		for _, hook := range pipe.cfg.hooks {
			err := hook.PrepareEntry(parent, info)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to prepare entry %s", info.Key())
			}
		}
		pipe.infos[i] = info
		parent = info
	}

	return pipe, nil
}

// Len returns the number of entries.
func (p *Pipeline[H]) Len() int {
	return len(p.entries)
}

// Labels returns the entry labels front to back.
func (p *Pipeline[H]) Labels() []string {
	labels := make([]string, len(p.entries))
	for i, e := range p.entries {
		labels[i] = e.Label
	}

	return labels
}

// Run applies every entry to the handle, in queue order. It stops on the first error, which is
// returned as a *StepError along with the last good handle.
func (p *Pipeline[H]) Run(ctx context.Context, job string, handle H) (H, error) {
	for i, e := range p.entries {
		select {
		case <-ctx.Done():
			return handle, errors.Wrapf(ctx.Err(), "before step %d (%s)", i, e.Label)
		default:
		}

		startFn := time.Now()
		out, err := call(ctx, e.Op, handle)
		if err != nil {
			return handle, &StepError{Index: i, Label: e.Label, Err: err}
		}
		endFn := time.Since(startFn)
		handle = out

		for _, hook := range p.cfg.hooks {
			err := hook.OnEntryOutput(job, p.infos[i], endFn)
			if err != nil {
				return handle, errors.Wrap(err, "unable to run entry output hook")
			}
		}
	}

	return handle, nil
}

// call runs op, turning a panic into an error so one bad handle cannot stop the other jobs.
func call[H any](ctx context.Context, op Op[H], handle H) (out H, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = handle, errors.Wrapf(ErrOpPanicked, "%v", r)
		}
	}()

	return op(ctx, handle)
}

// RunAll runs every job, at most PipelineConcurrency at the same time. Each job opens its own
// handle. The jobs share the entries read-only. All failures are collected in a *BatchError.
func (p *Pipeline[H]) RunAll(ctx context.Context, jobs []Job[H]) error {
	failures := &jobErrors{}

	errGrp := &errgroup.Group{}
	errGrp.SetLimit(p.cfg.concurrency)
	for i, job := range jobs {
		order, job := i, job
		errGrp.Go(func() error {
			err := p.runJob(ctx, job)
			if err != nil {
				failures.add(&JobError{Job: job.Name, Err: err, order: order})
			}
			// a job failure must not cancel its siblings
			return nil
		})
	}
	_ = errGrp.Wait()

	err := p.Finish()
	if err != nil {
		return err
	}

	return failures.batch()
}

func (p *Pipeline[H]) runJob(ctx context.Context, job Job[H]) (err error) {
	start := time.Now()
	defer func() {
		for _, hook := range p.cfg.hooks {
			hookErr := hook.AfterJob(job.Name, time.Since(start), err)
			if hookErr != nil && err == nil {
				err = errors.Wrap(hookErr, "unable to run after job hook")
			}
		}
	}()

	if job.Open == nil {
		return ErrOpenMustBeSet
	}
	handle, err := job.Open(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to open")
	}

	handle, err = p.Run(ctx, job.Name, handle)
	if err != nil {
		return err
	}

	if job.Finish == nil {
		return nil
	}

	return job.Finish(ctx, handle)
}

// Finish runs the Finish hook of every option. Only the first call has an effect.
func (p *Pipeline[H]) Finish() error {
	p.finishOnce.Do(func() {
		for _, hook := range p.cfg.hooks {
			err := hook.Finish()
			if err != nil {
				p.finishErr = errors.Wrap(err, "unable to finish pipeline option")
				return
			}
		}
	})

	return p.finishErr
}

// StartTime returns when the pipeline was sealed.
func (p *Pipeline[H]) StartTime() time.Time {
	return p.startTime
}
