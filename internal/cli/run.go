package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/askiada/go-imgpipe/internal/commands"
	"github.com/askiada/go-imgpipe/internal/ctxlog"
	"github.com/askiada/go-imgpipe/internal/engine"
	"github.com/askiada/go-imgpipe/internal/globalopts"
	"github.com/askiada/go-imgpipe/internal/output"
	"github.com/askiada/go-imgpipe/internal/resolver"
	"github.com/askiada/go-imgpipe/internal/schema"
	"github.com/askiada/go-imgpipe/pkg/pipeline"
	"github.com/askiada/go-imgpipe/pkg/pipeline/drawer"
	"github.com/askiada/go-imgpipe/pkg/pipeline/measure"
	"github.com/askiada/go-imgpipe/pkg/pipeline/model"
)

func (a *app) run(ctx context.Context, argv []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	global := schema.GlobalOptions()
	err := schema.Validate(global, a.registry.Specs())
	if err != nil {
		return err
	}

	res, err := resolver.Resolve(argv, schema.New(global), a.registry, a.terminal())
	if err != nil {
		return err
	}

	switch {
	case res.Help:
		return a.help(res.HelpCommand)
	case res.Version:
		_, err = fmt.Fprintln(a.stdout, a.version)
		return errors.Wrap(err, "unable to print version")
	}

	logger := ctxlog.New(a.stderr, res.Global.Bool(schema.OptVerbose))
	ctx = ctxlog.WithLogger(ctx, logger)

	q, err := commands.Build(res, a.registry)
	if err != nil {
		return err
	}
	err = globalopts.Apply(q, res.Global)
	if err != nil {
		return err
	}
	for _, inv := range res.Invocations {
		logger.Debug("command", "name", inv.Command, "args", lo.Map(inv.Args.Names(), func(n string, _ int) string {
			return fmt.Sprintf("%s=%v", n, inv.Args.Value(n))
		}))
	}
	logger.Debug("operation queue", "entries", q.Labels())

	inputs := []string{output.Stream}
	if res.Global.IsSet(schema.OptInput) {
		inputs = res.Global.Strings(schema.OptInput)
	}
	router, err := output.NewRouter(a.fs, res.Global.String(schema.OptOutput), a.stdout, len(inputs))
	if err != nil {
		return err
	}

	msr := measure.NewDefaultMeasure()
	hooks := []model.PipelineOption{measure.PipelineMeasure(msr)}
	if path := res.Global.String(schema.OptGraph); path != "" {
		hooks = append(hooks, drawer.PipelineDrawer(drawer.NewDOTDrawer(a.fs, path), msr))
	}

	pipe, err := pipeline.New(q,
		pipeline.PipelineConcurrency(res.Global.Int(schema.OptConcurrency)),
		pipeline.PipelineHooks(hooks...),
	)
	if err != nil {
		return errors.Wrap(err, "unable to create pipeline")
	}

	jobs := lo.Map(inputs, func(in string, _ int) pipeline.Job[*engine.Image] {
		return a.job(in, router)
	})
	err = pipe.RunAll(ctx, jobs)
	logMetrics(logger, pipe, msr)

	return err
}

func (a *app) job(input string, router *output.Router) pipeline.Job[*engine.Image] {
	return pipeline.Job[*engine.Image]{
		Name: input,
		Open: func(ctx context.Context) (*engine.Image, error) {
			rc, err := output.Open(a.fs, input, a.stdin)
			if err != nil {
				return nil, err
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to read %s", input)
			}

			return engine.New(input, bytes.NewReader(data)), nil
		},
		Finish: func(ctx context.Context, img *engine.Image) error {
			f, err := img.OutputFormat(router.Hint())
			if err != nil {
				return err
			}
			w, path, err := router.Create(input, f)
			if err != nil {
				return err
			}
			err = img.Encode(w, f)
			if closeErr := w.Close(); err == nil && closeErr != nil {
				err = errors.Wrapf(closeErr, "unable to close %s", path)
			}
			if err != nil {
				return err
			}
			ctxlog.FromContext(ctx).Debug("written", "input", input, "output", path, "format", f)

			return nil
		},
	}
}

func logMetrics(logger *slog.Logger, pipe *pipeline.Pipeline[*engine.Image], msr measure.Measure) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for i, label := range pipe.Labels() {
		info := model.EntryInfo{Type: model.OperationEntryType, Index: i, Label: label}
		mt := msr.GetMetric(info.Key())
		if mt == nil {
			continue
		}
		logger.Debug("operation timing", "entry", info.Key(), "runs", mt.Total(), "avg", mt.AVGDuration())
	}
	if mt := msr.GetMetric(model.OutputEntry.Key()); mt != nil {
		logger.Debug("job timing", "jobs", mt.Total(), "avg", mt.AVGDuration(), "max", mt.GetTotalDuration())
	}
}
