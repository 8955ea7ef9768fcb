// Package engine is the image processing engine driven by the pipeline. An Image is a handle on
// one input: operations are recorded or applied in place and return the same handle, so they
// chain. Decoding happens on the first operation that needs pixels.
package engine

import (
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// registers the WebP decoder
	_ "golang.org/x/image/webp"
)

var (
	ErrPixelLimit     = errors.New("input image exceeds pixel limit")
	ErrAlreadyDecoded = errors.New("image already decoded")
	ErrDecode         = errors.New("unable to decode image")
)

// Image is a handle on one input image. It is not safe for concurrent use.
type Image struct {
	name       string
	src        io.Reader
	img        image.Image
	input      Format
	autoOrient bool
	settings   Settings
}

// New returns a handle reading the encoded image from r. name is used in messages.
func New(name string, r io.Reader) *Image {
	return &Image{
		name:     name,
		src:      r,
		settings: Settings{LimitInputPixels: DefaultPixelLimit},
	}
}

// FromImage wraps decoded pixels. f is reported as the input format.
func FromImage(name string, img image.Image, f Format) *Image {
	return &Image{
		name:     name,
		img:      img,
		input:    f,
		settings: Settings{LimitInputPixels: DefaultPixelLimit},
	}
}

func (i *Image) Name() string {
	return i.name
}

// Settings returns a copy of the recorded encoding settings.
func (i *Image) Settings() Settings {
	return i.settings
}

// Decoded reports whether the pixels have been read.
func (i *Image) Decoded() bool {
	return i.img != nil
}

// InputFormat returns the format of the input, decoding it if needed.
func (i *Image) InputFormat() (Format, error) {
	if err := i.decode(); err != nil {
		return "", err
	}

	return i.input, nil
}

// Pixels returns the current pixels, decoding the input if needed.
func (i *Image) Pixels() (image.Image, error) {
	if err := i.decode(); err != nil {
		return nil, err
	}

	return i.img, nil
}

// Bounds returns the current size of the image.
func (i *Image) Bounds() (image.Rectangle, error) {
	img, err := i.Pixels()
	if err != nil {
		return image.Rectangle{}, err
	}

	return img.Bounds(), nil
}

func (i *Image) decode() error {
	if i.img != nil {
		return nil
	}
	if i.src == nil {
		return errors.Wrapf(ErrDecode, "%s: no input", i.name)
	}

	data, err := io.ReadAll(i.src)
	if err != nil {
		return errors.Wrapf(err, "unable to read %s", i.name)
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return errors.Wrapf(ErrDecode, "%s: %v", i.name, err)
	}
	if limit := i.settings.LimitInputPixels; limit > 0 && cfg.Width*cfg.Height > limit {
		return errors.Wrapf(ErrPixelLimit, "%s: %dx%d is more than %d pixels", i.name, cfg.Width, cfg.Height, limit)
	}

	i.input, err = ParseFormat(name)
	if err != nil {
		return errors.Wrapf(err, "%s", i.name)
	}
	i.img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(i.autoOrient))
	if err != nil {
		return errors.Wrapf(ErrDecode, "%s: %v", i.name, err)
	}
	i.src = nil

	return nil
}

// OutputFormat picks the encoding format: the forced format, then hint, then the input format.
func (i *Image) OutputFormat(hint Format) (Format, error) {
	switch {
	case i.settings.ToFormat != "":
		return i.settings.ToFormat, nil
	case hint != "":
		return hint, nil
	default:
		return i.InputFormat()
	}
}

// Encode writes the image to w in format f using the recorded encoder options.
func (i *Image) Encode(w io.Writer, f Format) error {
	img, err := i.Pixels()
	if err != nil {
		return err
	}
	enc, err := f.encoder()
	if err != nil {
		return err
	}

	var opts []imaging.EncodeOption
	switch f {
	case JPEG:
		quality := DefaultQuality
		if i.settings.JPEG != nil && i.settings.JPEG.Quality > 0 {
			quality = i.settings.JPEG.Quality
		}
		opts = append(opts, imaging.JPEGQuality(quality))
	case PNG:
		level := DefaultCompressionLevel
		if i.settings.PNG != nil {
			level = i.settings.PNG.CompressionLevel
		}
		opts = append(opts, imaging.PNGCompressionLevel(pngLevel(level)))
	}

	err = imaging.Encode(w, img, enc, opts...)
	if err != nil {
		return errors.Wrapf(err, "unable to encode %s as %s", i.name, f)
	}

	return nil
}

// pngLevel maps a zlib level to the levels the encoder knows.
func pngLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
