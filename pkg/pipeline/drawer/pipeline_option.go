package drawer

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-imgpipe/pkg/pipeline/measure"
	"github.com/askiada/go-imgpipe/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m measure.Measure

	mu   sync.Mutex
	last string
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.InputEntry.Key(), model.InputEntry.Label)
	if err != nil {
		return errors.Wrap(err, "unable to add input step to drawer")
	}
	pd.last = model.InputEntry.Key()

	return nil
}

func (pd *pipelineDrawer) PrepareEntry(parent, entry *model.EntryInfo) error {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	err := pd.AddStep(entry.Key(), entry.Label)
	if err != nil {
		return err
	}
	err = pd.AddLink(parent.Key(), entry.Key())
	if err != nil {
		return err
	}
	pd.last = entry.Key()

	return nil
}

func (pd *pipelineDrawer) OnEntryOutput(string, *model.EntryInfo, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) AfterJob(string, time.Duration, error) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	err := pd.AddStep(model.OutputEntry.Key(), model.OutputEntry.Label)
	if err != nil {
		return errors.Wrap(err, "unable to add output step to drawer")
	}
	err = pd.AddLink(pd.last, model.OutputEntry.Key())
	if err != nil {
		return errors.Wrap(err, "unable to link output step")
	}

	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the queue once every job is done. measure is optional.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
