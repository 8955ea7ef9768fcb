package drawer

import (
	"github.com/askiada/go-imgpipe/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing an operation queue.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(stepName, label string) error
	// AddLink adds a link between parent and children steps.
	AddLink(parentStepName, childrenStepName string) error
	// Draw creates a file with the pipeline graph.
	Draw() error
	// AddMeasure adds a measure to the pipeline drawer.
	AddMeasure(measure measure.Measure) error
}
