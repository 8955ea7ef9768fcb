package engine

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Fit modes of Resize.
const (
	FitCover   = "cover"
	FitContain = "contain"
	FitFill    = "fill"
	FitInside  = "inside"
	FitOutside = "outside"
)

var ErrBadExtractArea = errors.New("extract area outside of the image")

var kernels = map[string]imaging.ResampleFilter{
	"nearest":  imaging.NearestNeighbor,
	"linear":   imaging.Linear,
	"cubic":    imaging.CatmullRom,
	"mitchell": imaging.MitchellNetravali,
	"lanczos2": imaging.Lanczos,
	"lanczos3": imaging.Lanczos,
}

// Kernels lists the accepted resize kernel names.
func Kernels() []string {
	return []string{"nearest", "linear", "cubic", "mitchell", "lanczos2", "lanczos3"}
}

var gravities = map[string]imaging.Anchor{
	"centre":    imaging.Center,
	"center":    imaging.Center,
	"north":     imaging.Top,
	"northeast": imaging.TopRight,
	"east":      imaging.Right,
	"southeast": imaging.BottomRight,
	"south":     imaging.Bottom,
	"southwest": imaging.BottomLeft,
	"west":      imaging.Left,
	"northwest": imaging.TopLeft,
}

// Gravities lists the accepted crop gravity names.
func Gravities() []string {
	return []string{"centre", "center", "north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}
}

// apply decodes the image if needed and replaces its pixels with fn's result.
func (i *Image) apply(fn func(img image.Image) (image.Image, error)) (*Image, error) {
	img, err := i.Pixels()
	if err != nil {
		return nil, err
	}
	out, err := fn(img)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", i.name)
	}
	i.img = out

	return i, nil
}

// Blur applies a gaussian blur. A sigma of 0 selects a fast 3x3 box blur.
func (i *Image) Blur(sigma float64) (*Image, error) {
	if sigma < 0 {
		return nil, errors.Errorf("invalid blur sigma %v", sigma)
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		if sigma == 0 {
			return imaging.Convolve3x3(img, [9]float64{1, 1, 1, 1, 1, 1, 1, 1, 1}, &imaging.ConvolveOptions{Normalize: true}), nil
		}
		return imaging.Blur(img, sigma), nil
	})
}

// Sharpen sharpens the image. A sigma of 0 selects a fast 3x3 kernel.
func (i *Image) Sharpen(sigma float64) (*Image, error) {
	if sigma < 0 {
		return nil, errors.Errorf("invalid sharpen sigma %v", sigma)
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		if sigma == 0 {
			return imaging.Convolve3x3(img, [9]float64{0, -1, 0, -1, 5, -1, 0, -1, 0}, nil), nil
		}
		return imaging.Sharpen(img, sigma), nil
	})
}

// Crop cuts a width x height area placed by gravity.
func (i *Image) Crop(width, height int, gravity string) (*Image, error) {
	anchor, ok := gravities[strings.ToLower(gravity)]
	if !ok {
		return nil, errors.Errorf("unknown gravity %q", gravity)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid crop size %dx%d", width, height)
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		return imaging.CropAnchor(img, width, height, anchor), nil
	})
}

// Extend adds borders filled with background.
func (i *Image) Extend(top, right, bottom, left int, background color.Color) (*Image, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return nil, errors.New("extend sizes must not be negative")
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		size := img.Bounds().Size()
		dst := imaging.New(size.X+left+right, size.Y+top+bottom, background)
		return imaging.Paste(dst, img, image.Pt(left, top)), nil
	})
}

// Extract cuts the given area, which must lie within the image.
func (i *Image) Extract(top, left, width, height int) (*Image, error) {
	return i.apply(func(img image.Image) (image.Image, error) {
		b := img.Bounds()
		area := image.Rect(left, top, left+width, top+height).Add(b.Min)
		if width <= 0 || height <= 0 || !area.In(b) {
			return nil, errors.Wrapf(ErrBadExtractArea, "%v in %v", area, b)
		}
		return imaging.Crop(img, area), nil
	})
}

// Flatten merges the alpha channel onto background.
func (i *Image) Flatten(background color.Color) (*Image, error) {
	return i.apply(func(img image.Image) (image.Image, error) {
		size := img.Bounds().Size()
		dst := imaging.New(size.X, size.Y, background)
		return imaging.Overlay(dst, img, image.Pt(0, 0), 1), nil
	})
}

// Flip mirrors the image about the horizontal axis.
func (i *Image) Flip() (*Image, error) {
	return i.apply(func(img image.Image) (image.Image, error) {
		return imaging.FlipV(img), nil
	})
}

// Flop mirrors the image about the vertical axis.
func (i *Image) Flop() (*Image, error) {
	return i.apply(func(img image.Image) (image.Image, error) {
		return imaging.FlipH(img), nil
	})
}

func (i *Image) Gamma(gamma float64) (*Image, error) {
	if gamma < 1 || gamma > 3 {
		return nil, errors.Errorf("invalid gamma %v, expected 1.0 to 3.0", gamma)
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		return imaging.AdjustGamma(img, gamma), nil
	})
}

func (i *Image) Grayscale() (*Image, error) {
	return i.apply(func(img image.Image) (image.Image, error) {
		return imaging.Grayscale(img), nil
	})
}

// Modulate multiplies brightness and saturation.
func (i *Image) Modulate(brightness, saturation float64) (*Image, error) {
	if brightness < 0 || saturation < 0 {
		return nil, errors.New("modulate multipliers must not be negative")
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		out := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{
				R: clamp(float64(c.R) * brightness),
				G: clamp(float64(c.G) * brightness),
				B: clamp(float64(c.B) * brightness),
				A: c.A,
			}
		})
		if saturation != 1 {
			out = imaging.AdjustSaturation(out, math.Min((saturation-1)*100, 500))
		}
		return out, nil
	})
}

func (i *Image) Negate() (*Image, error) {
	return i.apply(func(img image.Image) (image.Image, error) {
		return imaging.Invert(img), nil
	})
}

// Normalize stretches the luminance to cover the full range.
func (i *Image) Normalize() (*Image, error) {
	return i.apply(func(img image.Image) (image.Image, error) {
		hist := imaging.Histogram(img)
		low, high := 0, 255
		for low < 255 && hist[low] == 0 {
			low++
		}
		for high > 0 && hist[high] == 0 {
			high--
		}
		if high <= low {
			return img, nil
		}
		scale := 255 / float64(high-low)
		return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{
				R: clamp((float64(c.R) - float64(low)) * scale),
				G: clamp((float64(c.G) - float64(low)) * scale),
				B: clamp((float64(c.B) - float64(low)) * scale),
				A: c.A,
			}
		}), nil
	})
}

// ResizeOptions controls how Resize fits the image into the target box.
type ResizeOptions struct {
	Fit                string
	Kernel             string
	WithoutEnlargement bool
}

// Resize scales the image. A height of 0 keeps the aspect ratio.
func (i *Image) Resize(width, height int, opts ResizeOptions) (*Image, error) {
	if width <= 0 || height < 0 {
		return nil, errors.Errorf("invalid resize size %dx%d", width, height)
	}
	if opts.Fit == "" {
		opts.Fit = FitCover
	}
	if opts.Kernel == "" {
		opts.Kernel = "lanczos3"
	}
	filter, ok := kernels[opts.Kernel]
	if !ok {
		return nil, errors.Errorf("unknown kernel %q", opts.Kernel)
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		size := img.Bounds().Size()
		if opts.WithoutEnlargement && size.X <= width && (height == 0 || size.Y <= height) {
			return img, nil
		}
		if height == 0 {
			return imaging.Resize(img, width, 0, filter), nil
		}

		switch opts.Fit {
		case FitCover:
			return imaging.Fill(img, width, height, imaging.Center, filter), nil
		case FitFill:
			return imaging.Resize(img, width, height, filter), nil
		case FitInside, FitOutside, FitContain:
			sx := float64(width) / float64(size.X)
			sy := float64(height) / float64(size.Y)
			scale := math.Min(sx, sy)
			if opts.Fit == FitOutside {
				scale = math.Max(sx, sy)
			}
			w := int(math.Max(1, math.Round(float64(size.X)*scale)))
			h := int(math.Max(1, math.Round(float64(size.Y)*scale)))
			out := imaging.Resize(img, w, h, filter)
			if opts.Fit != FitContain {
				return out, nil
			}
			return imaging.PasteCenter(imaging.New(width, height, color.NRGBA{}), out), nil
		default:
			return nil, errors.Errorf("unknown fit %q", opts.Fit)
		}
	})
}

// Rotate turns the image clockwise by angle degrees, filling uncovered areas with background.
func (i *Image) Rotate(angle float64, background color.Color) (*Image, error) {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		switch angle {
		case 0:
			return img, nil
		case 90:
			return imaging.Rotate270(img), nil
		case 180:
			return imaging.Rotate180(img), nil
		case 270:
			return imaging.Rotate90(img), nil
		default:
			// counter-clockwise
			return imaging.Rotate(img, -angle, background), nil
		}
	})
}

// AutoOrient rotates the image according to its EXIF orientation. It only has an effect before
// the image is decoded.
func (i *Image) AutoOrient() (*Image, error) {
	i.autoOrient = true

	return i.apply(func(img image.Image) (image.Image, error) {
		return img, nil
	})
}

// Threshold turns every pixel white when its luminance is at least t, black otherwise.
func (i *Image) Threshold(t int) (*Image, error) {
	if t < 0 || t > 255 {
		return nil, errors.Errorf("invalid threshold %d, expected 0 to 255", t)
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			v := uint8(0)
			if int(luma(c)) >= t {
				v = 255
			}
			return color.NRGBA{R: v, G: v, B: v, A: c.A}
		}), nil
	})
}

// Tint keeps the luminance of each pixel and takes its chroma from tint.
func (i *Image) Tint(tint color.Color) (*Image, error) {
	tc := color.NRGBAModel.Convert(tint).(color.NRGBA)
	tl := float64(luma(tc))
	if tl == 0 {
		tl = 1
	}

	return i.apply(func(img image.Image) (image.Image, error) {
		return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			k := float64(luma(c)) / tl
			return color.NRGBA{
				R: clamp(float64(tc.R) * k),
				G: clamp(float64(tc.G) * k),
				B: clamp(float64(tc.B) * k),
				A: c.A,
			}
		}), nil
	})
}

func luma(c color.NRGBA) uint8 {
	return clamp(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
}

func clamp(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
