package drawer

import (
	"fmt"
	"io"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-imgpipe/internal/store"
	"github.com/askiada/go-imgpipe/pkg/pipeline/measure"
)

// DOTDrawer is a drawer that writes the queue as a Graphviz DOT file.
type DOTDrawer struct {
	fs       afero.Fs
	fileName string
	store    store.CustomStore[string, string]
	graph    graph.Graph[string, string]
}

// NewDOTDrawer creates a new DOT drawer writing fileName on fs.
func NewDOTDrawer(fs afero.Fs, fileName string) *DOTDrawer {
	st := store.NewOrderedStore[string, string]()

	return &DOTDrawer{
		fs:       fs,
		fileName: fileName,
		store:    st,
		graph:    graph.NewWithStore(graph.StringHash, st, graph.Directed()),
	}
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name, label string) error {
	err := d.graph.AddVertex(name, graph.VertexAttribute("label", label))
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// Draw creates the DOT file.
func (d *DOTDrawer) Draw() error {
	file, err := d.fs.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}

	err = d.Render(file)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		return errors.Wrapf(closeErr, "unable to close dot file %s", d.fileName)
	}
	if err != nil {
		return errors.Wrapf(err, "unable to write dot file %s", d.fileName)
	}

	return nil
}

// Render renders the graph to wrt.
func (d *DOTDrawer) Render(wrt io.Writer) error {
	desc, err := d.generateDOT()
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

const maxRGB = 240

// AddMeasure colours each step from blue (fastest) to red (slowest) and labels it with its
// average duration.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	allElapsed := make(map[time.Duration]string)
	sortedAllElapsed := []time.Duration{}

	for _, mt := range msr.AllMetrics() {
		avg := mt.AVGDuration()
		if avg == 0 {
			continue
		}
		if _, ok := allElapsed[avg]; ok {
			continue
		}
		allElapsed[avg] = ""
		sortedAllElapsed = append(sortedAllElapsed, avg)
	}

	if len(sortedAllElapsed) == 0 {
		return nil
	}

	sort.Slice(sortedAllElapsed, func(i, j int) bool {
		return sortedAllElapsed[i] > sortedAllElapsed[j]
	})

	maxValue := sortedAllElapsed[0]
	minValue := sortedAllElapsed[len(sortedAllElapsed)-1]

	for curr := range allElapsed {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(curr-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := -maxRGB*fraction + maxRGB

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		allElapsed[curr] = colour.ToHEX().String()
	}

	for name, mt := range msr.AllMetrics() {
		if _, _, err := d.store.Vertex(name); err != nil {
			continue
		}

		avg := mt.AVGDuration()
		if avg == 0 {
			continue
		}

		err := d.store.UpdateVertex(name,
			graph.VertexAttribute("xlabel", avg.String()),
			graph.VertexAttribute("color", allElapsed[avg]),
		)
		if err != nil {
			return errors.Wrap(err, "unable to update vertex")
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range $s := .Statements}}
	{{- if .Target}}
	"{{.Source}}" {{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.EdgeWeight}} ];
	{{- else}}
	"{{.Source}}" [ {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.SourceWeight}} ];
	{{- end}}
{{- end}}
}
`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

// generateDOT walks the vertices in insertion order so the same queue always renders the
// same file.
func (d *DOTDrawer) generateDOT() (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   map[string]string{"rankdir": "LR"},
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	vertices, err := d.store.ListVertices()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list vertices")
	}

	for _, vertex := range vertices {
		_, sourceProperties, err := d.store.Vertex(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
		})

		targets, err := d.store.Successors(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get successors")
		}
		for _, target := range targets {
			edge, err := d.store.Edge(vertex, target)
			if err != nil {
				return desc, errors.Wrap(err, "unable to get edge")
			}
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
