package pipeline

import (
	"runtime"

	"github.com/askiada/go-imgpipe/pkg/pipeline/model"
)

type config struct {
	concurrency int
	hooks       []model.PipelineOption
}

type PipelineOption func(c *config)

// PipelineConcurrency bounds the number of jobs RunAll runs at the same time.
// A value lower than 1 uses the number of CPUs.
func PipelineConcurrency(concurrent int) PipelineOption {
	return func(c *config) {
		c.concurrency = concurrent
	}
}

// PipelineHooks registers options observing the runs, like measure.PipelineMeasure.
func PipelineHooks(hooks ...model.PipelineOption) PipelineOption {
	return func(c *config) {
		c.hooks = append(c.hooks, hooks...)
	}
}

func newConfig(opts ...PipelineOption) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = runtime.NumCPU()
	}

	return cfg
}
