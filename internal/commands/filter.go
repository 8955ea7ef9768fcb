package commands

import (
	"github.com/askiada/go-imgpipe/internal/engine"
	"github.com/askiada/go-imgpipe/internal/schema"
	"github.com/askiada/go-imgpipe/pkg/pipeline"
)

func blur() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "blur",
			Description: "Blur the image",
			Examples: []schema.Example{
				{Command: "imgpipe -i in.jpg -o out.jpg blur 5", Description: "Gaussian blur with a sigma of 5"},
			},
			Positionals: []schema.Positional{
				{Name: "sigma", Type: schema.Number, Description: "Sigma of the gaussian mask, a fast box blur when omitted"},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			sigma := args.Float("sigma")
			return push(q, "blur", func(img *engine.Image) (*engine.Image, error) {
				return img.Blur(sigma)
			})
		},
	}
}

func sharpen() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "sharpen",
			Description: "Sharpen the image",
			Positionals: []schema.Positional{
				{Name: "sigma", Type: schema.Number, Description: "Sigma of the gaussian mask, a fast sharpen when omitted"},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			sigma := args.Float("sigma")
			return push(q, "sharpen", func(img *engine.Image) (*engine.Image, error) {
				return img.Sharpen(sigma)
			})
		},
	}
}

func gamma() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "gamma",
			Description: "Apply a gamma correction",
			Positionals: []schema.Positional{
				{Name: "gamma", Type: schema.Number, Default: 2.2, Description: "Value between 1.0 and 3.0"},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			value := args.Float("gamma")
			return push(q, "gamma", func(img *engine.Image) (*engine.Image, error) {
				return img.Gamma(value)
			})
		},
	}
}

func threshold() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "threshold",
			Description: "Turn pixels white when their luminance is at least the threshold, black otherwise",
			Positionals: []schema.Positional{
				{Name: "threshold", Type: schema.Number, Default: 128.0, Description: "Value between 0 and 255"},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			value := args.Int("threshold")
			return push(q, "threshold", func(img *engine.Image) (*engine.Image, error) {
				return img.Threshold(value)
			})
		},
	}
}
