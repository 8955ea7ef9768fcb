package commands

import (
	"github.com/askiada/go-imgpipe/internal/engine"
	"github.com/askiada/go-imgpipe/internal/schema"
	"github.com/askiada/go-imgpipe/pkg/pipeline"
)

func backgroundOption(def string) schema.Descriptor {
	return schema.Descriptor{
		Name:        "background",
		Type:        schema.String,
		Group:       schema.GroupCommand,
		Description: "Background colour, parsed by the colour module",
		Default:     def,
	}
}

func crop() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "crop",
			Description: "Resize the image to exactly width x height, cropping the overflow",
			Examples: []schema.Example{
				{Command: "imgpipe -i in.jpg -o out.jpg crop 300 200 --gravity north", Description: "Keep the top of the image"},
			},
			Options: []schema.Descriptor{
				{
					Name:        "gravity",
					Type:        schema.String,
					Group:       schema.GroupCommand,
					Description: "Part of the image to keep",
					Default:     "centre",
					Choices:     engine.Gravities(),
				},
			},
			Positionals: []schema.Positional{
				{Name: "width", Type: schema.Number, Required: true, Description: "Number of pixels wide"},
				{Name: "height", Type: schema.Number, Required: true, Description: "Number of pixels high"},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			width, height, gravity := args.Int("width"), args.Int("height"), args.String("gravity")
			return push(q, "crop", func(img *engine.Image) (*engine.Image, error) {
				return img.Crop(width, height, gravity)
			})
		},
	}
}

func extend() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "extend",
			Description: "Extend / pad / extrude one or more edges of the image",
			Examples: []schema.Example{
				{Command: "imgpipe -i in.png -o out.png extend 10 20 10 20 --background '#ff0000'", Description: "Add a red border"},
			},
			Options: []schema.Descriptor{backgroundOption("#000000")},
			Positionals: []schema.Positional{
				{Name: "top", Type: schema.Number, Required: true},
				{Name: "right", Type: schema.Number, Required: true},
				{Name: "bottom", Type: schema.Number, Required: true},
				{Name: "left", Type: schema.Number, Required: true},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			bg, err := colourArg(args, "background")
			if err != nil {
				return err
			}
			top, right, bottom, left := args.Int("top"), args.Int("right"), args.Int("bottom"), args.Int("left")
			return push(q, "extend", func(img *engine.Image) (*engine.Image, error) {
				return img.Extend(top, right, bottom, left, bg)
			})
		},
	}
}

func extract() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "extract",
			Description: "Extract a region of the image",
			Positionals: []schema.Positional{
				{Name: "top", Type: schema.Number, Required: true},
				{Name: "left", Type: schema.Number, Required: true},
				{Name: "width", Type: schema.Number, Required: true},
				{Name: "height", Type: schema.Number, Required: true},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			top, left, width, height := args.Int("top"), args.Int("left"), args.Int("width"), args.Int("height")
			return push(q, "extract", func(img *engine.Image) (*engine.Image, error) {
				return img.Extract(top, left, width, height)
			})
		},
	}
}

func flip() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "flip",
			Description: "Flip the image upside down, about the horizontal axis",
		},
		Handler: func(q *pipeline.Queue[*engine.Image], _ schema.Args) error {
			return push(q, "flip", (*engine.Image).Flip)
		},
	}
}

func flop() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "flop",
			Description: "Mirror the image about the vertical axis",
		},
		Handler: func(q *pipeline.Queue[*engine.Image], _ schema.Args) error {
			return push(q, "flop", (*engine.Image).Flop)
		},
	}
}

func resize() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "resize",
			Description: "Resize the image to width x height",
			Examples: []schema.Example{
				{Command: "imgpipe -i in.jpg -o out.jpg resize 300 200", Description: "Cover a 300x200 box"},
				{Command: "imgpipe -i in.jpg -o out.jpg resize 300 --without-enlargement", Description: "Shrink to 300 pixels wide, never enlarge"},
			},
			Options: []schema.Descriptor{
				{
					Name:        "fit",
					Type:        schema.String,
					Group:       schema.GroupCommand,
					Description: "How the image should be resized to fit both provided dimensions",
					Default:     engine.FitCover,
					Choices:     []string{engine.FitCover, engine.FitContain, engine.FitFill, engine.FitInside, engine.FitOutside},
				},
				{
					Name:        "kernel",
					Type:        schema.String,
					Group:       schema.GroupCommand,
					Description: "The kernel to use for image reduction",
					Default:     "lanczos3",
					Choices:     engine.Kernels(),
				},
				{
					Name:        "without-enlargement",
					Type:        schema.Boolean,
					Group:       schema.GroupCommand,
					Description: "Do not enlarge the output image",
				},
			},
			Positionals: []schema.Positional{
				{Name: "width", Type: schema.Number, Required: true, Description: "Number of pixels wide"},
				{Name: "height", Type: schema.Number, Description: "Number of pixels high, keeps the aspect ratio when omitted"},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			width, height := args.Int("width"), args.Int("height")
			opts := engine.ResizeOptions{
				Fit:                args.String("fit"),
				Kernel:             args.String("kernel"),
				WithoutEnlargement: args.Bool("without-enlargement"),
			}
			return push(q, "resize", func(img *engine.Image) (*engine.Image, error) {
				return img.Resize(width, height, opts)
			})
		},
	}
}

func rotate() *Command {
	return &Command{
		CommandSpec: schema.CommandSpec{
			Name:        "rotate",
			Description: "Rotate the image by an angle, or auto-orient it from its EXIF data",
			Examples: []schema.Example{
				{Command: "imgpipe -i in.jpg -o out.jpg rotate 90", Description: "Rotate clockwise by 90 degrees"},
				{Command: "imgpipe -i in.jpg -o out.jpg rotate", Description: "Auto-orient"},
			},
			Options: []schema.Descriptor{backgroundOption("#000000")},
			Positionals: []schema.Positional{
				{Name: "angle", Type: schema.Number, Description: "Angle of rotation, clockwise, in degrees"},
			},
		},
		Handler: func(q *pipeline.Queue[*engine.Image], args schema.Args) error {
			if !args.Has("angle") {
				return push(q, "rotate", (*engine.Image).AutoOrient)
			}
			bg, err := colourArg(args, "background")
			if err != nil {
				return err
			}
			angle := args.Float("angle")
			return push(q, "rotate", func(img *engine.Image) (*engine.Image, error) {
				return img.Rotate(angle, bg)
			})
		},
	}
}
