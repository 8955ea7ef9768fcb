package engine

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"
)

// ParseColour parses a CSS-like colour: #rgb, #rrggbb, rgb(...) or rgba(...).
func ParseColour(s string) (color.NRGBA, error) {
	c, err := colors.Parse(s)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid colour %q", s)
	}
	rgba := c.ToRGBA()

	return color.NRGBA{
		R: rgba.R,
		G: rgba.G,
		B: rgba.B,
		A: uint8(math.Round(rgba.A * 255)),
	}, nil
}
