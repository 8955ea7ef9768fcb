// Package globalopts turns the resolved global options into the encoding operations placed in
// front of the queue.
package globalopts

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/askiada/go-imgpipe/internal/engine"
	"github.com/askiada/go-imgpipe/internal/schema"
	"github.com/askiada/go-imgpipe/pkg/pipeline"
)

// Labels of the prefix entries, head to tail.
const (
	LabelToFormat         = "toFormat"
	LabelJPEG             = "jpeg"
	LabelLimitInputPixels = "limitInputPixels"
	LabelPNG              = "png"
	LabelSequentialRead   = "sequentialRead"
	LabelTIFF             = "tiff"
	LabelWebP             = "webp"
	LabelWithMetadata     = "withMetadata"
)

type entry = pipeline.Entry[*engine.Image]

var (
	jpegTriggers = []string{
		schema.OptChromaSubsampling,
		schema.OptOptimise,
		schema.OptOptimiseScans,
		schema.OptOvershootDeringing,
		schema.OptProgressive,
		schema.OptQuality,
		schema.OptTrellisQuantisation,
	}
	pngTriggers = []string{
		schema.OptAdaptiveFiltering,
		schema.OptCompressionLevel,
		schema.OptProgressive,
	}
)

// Prefix returns the encoding entries for args, head to tail. The order is fixed and does not
// depend on the order the options were given in.
func Prefix(args schema.Args) []pipeline.Entry[*engine.Image] {
	anySet := func(names []string) bool {
		return lo.SomeBy(names, args.IsSet)
	}
	quality := engine.DefaultQuality
	if args.IsSet(schema.OptQuality) {
		quality = args.Int(schema.OptQuality)
	}

	var prefix []entry

	if f := args.String(schema.OptFormat); f != "" && f != schema.FormatInput {
		prefix = append(prefix, toFormat(f))
	}

	if anySet(jpegTriggers) {
		optimise := args.Bool(schema.OptOptimise)
		opts := engine.JPEGOptions{
			Quality:             quality,
			Progressive:         args.Bool(schema.OptProgressive),
			ChromaSubsampling:   args.String(schema.OptChromaSubsampling),
			OptimiseScans:       args.Bool(schema.OptOptimiseScans) || optimise,
			OvershootDeringing:  args.Bool(schema.OptOvershootDeringing) || optimise,
			TrellisQuantisation: args.Bool(schema.OptTrellisQuantisation) || optimise,
		}
		if opts.OptimiseScans {
			// scan optimisation only exists for progressive output
			opts.Progressive = true
		}
		prefix = append(prefix, entry{Label: LabelJPEG, Op: func(_ context.Context, img *engine.Image) (*engine.Image, error) {
			return img.JPEG(opts)
		}})
	}

	if args.IsSet(schema.OptLimitInputPixels) {
		limit := args.Int(schema.OptLimitInputPixels)
		prefix = append(prefix, entry{Label: LabelLimitInputPixels, Op: func(_ context.Context, img *engine.Image) (*engine.Image, error) {
			return img.LimitInputPixels(limit)
		}})
	}

	if anySet(pngTriggers) {
		opts := engine.PNGOptions{
			Progressive:       args.Bool(schema.OptProgressive),
			CompressionLevel:  engine.DefaultCompressionLevel,
			AdaptiveFiltering: args.Bool(schema.OptAdaptiveFiltering),
		}
		if args.IsSet(schema.OptCompressionLevel) {
			opts.CompressionLevel = args.Int(schema.OptCompressionLevel)
		}
		prefix = append(prefix, entry{Label: LabelPNG, Op: func(_ context.Context, img *engine.Image) (*engine.Image, error) {
			return img.PNG(opts)
		}})
	}

	if args.Bool(schema.OptSequentialRead) {
		prefix = append(prefix, entry{Label: LabelSequentialRead, Op: func(_ context.Context, img *engine.Image) (*engine.Image, error) {
			return img.SequentialRead()
		}})
	}

	if args.IsSet(schema.OptQuality) {
		prefix = append(prefix,
			entry{Label: LabelTIFF, Op: func(_ context.Context, img *engine.Image) (*engine.Image, error) {
				return img.TIFF(engine.TIFFOptions{Quality: quality})
			}},
			entry{Label: LabelWebP, Op: func(_ context.Context, img *engine.Image) (*engine.Image, error) {
				return img.WebP(engine.WebPOptions{Quality: quality})
			}},
		)
	}

	if args.Bool(schema.OptWithMetadata) {
		prefix = append(prefix, entry{Label: LabelWithMetadata, Op: func(_ context.Context, img *engine.Image) (*engine.Image, error) {
			return img.WithMetadata()
		}})
	}

	return prefix
}

func toFormat(name string) entry {
	return entry{Label: LabelToFormat, Op: func(_ context.Context, img *engine.Image) (*engine.Image, error) {
		f, err := engine.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		return img.ToFormat(f)
	}}
}

// Apply puts the prefix of args in front of q, in one insertion.
func Apply(q *pipeline.Queue[*engine.Image], args schema.Args) error {
	prefix := Prefix(args)
	if len(prefix) == 0 {
		return nil
	}

	return errors.Wrap(q.Prepend(prefix...), "unable to add global options")
}
