package engine

import (
	"github.com/pkg/errors"
)

// Defaults applied when an encoder option is not given.
const (
	DefaultQuality          = 80
	DefaultCompressionLevel = 6
	// DefaultPixelLimit is 0x3FFF x 0x3FFF pixels.
	DefaultPixelLimit = 0x3FFF * 0x3FFF
)

// JPEGOptions configures the JPEG encoder. Force makes JPEG the output format.
type JPEGOptions struct {
	Quality             int
	Progressive         bool
	ChromaSubsampling   string
	OptimiseScans       bool
	OvershootDeringing  bool
	TrellisQuantisation bool
	Force               bool
}

// PNGOptions configures the PNG encoder.
type PNGOptions struct {
	Progressive       bool
	CompressionLevel  int
	AdaptiveFiltering bool
	Force             bool
}

type TIFFOptions struct {
	Quality int
	Force   bool
}

type WebPOptions struct {
	Quality int
	Force   bool
}

// Settings holds what the encoding operations recorded on an image. Encoder options only take
// effect when the output format matches.
type Settings struct {
	ToFormat         Format
	JPEG             *JPEGOptions
	PNG              *PNGOptions
	TIFF             *TIFFOptions
	WebP             *WebPOptions
	LimitInputPixels int
	SequentialRead   bool
	WithMetadata     bool
}

// ToFormat forces the output format.
func (i *Image) ToFormat(f Format) (*Image, error) {
	if _, ok := formatNames[string(f)]; !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", f)
	}
	i.settings.ToFormat = f

	return i, nil
}

func (i *Image) JPEG(opts JPEGOptions) (*Image, error) {
	i.settings.JPEG = &opts
	if opts.Force {
		i.settings.ToFormat = JPEG
	}

	return i, nil
}

func (i *Image) PNG(opts PNGOptions) (*Image, error) {
	if opts.CompressionLevel < 0 || opts.CompressionLevel > 9 {
		return nil, errors.Errorf("invalid compression level %d, expected 0 to 9", opts.CompressionLevel)
	}
	i.settings.PNG = &opts
	if opts.Force {
		i.settings.ToFormat = PNG
	}

	return i, nil
}

func (i *Image) TIFF(opts TIFFOptions) (*Image, error) {
	i.settings.TIFF = &opts
	if opts.Force {
		i.settings.ToFormat = TIFF
	}

	return i, nil
}

func (i *Image) WebP(opts WebPOptions) (*Image, error) {
	i.settings.WebP = &opts
	if opts.Force {
		i.settings.ToFormat = WebP
	}

	return i, nil
}

// LimitInputPixels sets the largest accepted width x height of the input. 0 disables the check.
// It must be applied before the image is decoded.
func (i *Image) LimitInputPixels(n int) (*Image, error) {
	if n < 0 {
		return nil, errors.Errorf("invalid pixel limit %d", n)
	}
	if i.img != nil {
		return nil, errors.Wrap(ErrAlreadyDecoded, "limit input pixels")
	}
	i.settings.LimitInputPixels = n

	return i, nil
}

func (i *Image) SequentialRead() (*Image, error) {
	i.settings.SequentialRead = true

	return i, nil
}

func (i *Image) WithMetadata() (*Image, error) {
	i.settings.WithMetadata = true

	return i, nil
}
