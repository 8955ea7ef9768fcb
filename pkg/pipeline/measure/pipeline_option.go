package measure

import (
	"time"

	"github.com/askiada/go-imgpipe/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.InputEntry.Key())
	pm.AddMetric(model.OutputEntry.Key())

	return nil
}

func (pm *pipelineMeasure) PrepareEntry(_, entry *model.EntryInfo) error {
	pm.AddMetric(entry.Key())

	return nil
}

func (pm *pipelineMeasure) OnEntryOutput(_ string, entry *model.EntryInfo, computationDuration time.Duration) error {
	pm.AddMetric(entry.Key()).AddDuration(computationDuration)

	return nil
}

// AfterJob records the duration of every job, successful or not, on the output metric.
func (pm *pipelineMeasure) AfterJob(_ string, totalDuration time.Duration, _ error) error {
	mt := pm.AddMetric(model.OutputEntry.Key())
	mt.AddDuration(totalDuration)
	mt.SetTotalDuration(totalDuration)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure records the duration of every entry in measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
