package commands

import (
	"github.com/askiada/go-imgpipe/internal/engine"
	"github.com/askiada/go-imgpipe/internal/schema"
	"github.com/askiada/go-imgpipe/pkg/pipeline"
)

func flatten() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "flatten",
			Description: "Merge the alpha transparency channel with the background",
			Options:     []schema.Descriptor{backgroundOption("#000000")},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			bg, err := colourArg(args, "background")
			if err != nil {
				return err
			}
			return push(q, "flatten", func(img *engine.Image) (*engine.Image, error) {
				return img.Flatten(bg)
			})
		},
	}
}

func grayscale() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "grayscale",
			Aliases:     []string{"greyscale"},
			Description: "Convert to 8-bit greyscale",
		},
		Handler: func(q *pipeline.Queue[*engine.Image], _ schema.Args) error {
			return push(q, "grayscale", (*engine.Image).Grayscale)
		},
	}
}

func modulate() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "modulate",
			Description: "Transform the image using brightness and saturation multipliers",
			Examples: []schema.Example{
				{Command: "imgpipe -i in.jpg -o out.jpg modulate --brightness 2", Description: "Twice as bright"},
			},
			Options: []schema.Descriptor{
				{Name: "brightness", Type: schema.Number, Group: schema.GroupCommand, Description: "Brightness multiplier", Default: 1.0},
				{Name: "saturation", Type: schema.Number, Group: schema.GroupCommand, Description: "Saturation multiplier", Default: 1.0},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			brightness, saturation := args.Float("brightness"), args.Float("saturation")
			return push(q, "modulate", func(img *engine.Image) (*engine.Image, error) {
				return img.Modulate(brightness, saturation)
			})
		},
	}
}

func negate() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "negate",
			Description: "Produce the negative of the image",
		},
		Handler: func(q *pipeline.Queue[*engine.Image], _ schema.Args) error {
			return push(q, "negate", (*engine.Image).Negate)
		},
	}
}

func normalize() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "normalize",
			Aliases:     []string{"normalise"},
			Description: "Enhance output image contrast by stretching its luminance to cover the full dynamic range",
		},
		Handler: func(q *pipeline.Queue[*engine.Image], _ schema.Args) error {
			return push(q, "normalize", (*engine.Image).Normalize)
		},
	}
}

func tint() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "tint",
			Description: "Tint the image using the provided chroma while preserving the image luminance",
			Examples: []schema.Example{
				{Command: "imgpipe -i in.jpg -o out.jpg tint '#704214'", Description: "Sepia"},
			},
			Positionals: []schema.Positional{
				{Name: "colour", Type: schema.String, Required: true, Description: "Colour, parsed by the colour module"},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			c, err := colourArg(args, "colour")
			if err != nil {
				return err
			}
			return push(q, "tint", func(img *engine.Image) (*engine.Image, error) {
				return img.Tint(c)
			})
		},
	}
}
