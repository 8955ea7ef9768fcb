package engine

import (
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Format is an image file format.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
	TIFF Format = "tiff"
	BMP  Format = "bmp"
	WebP Format = "webp"
)

// ErrUnsupportedFormat is returned for a format the engine cannot handle in that direction.
var ErrUnsupportedFormat = errors.New("unsupported format")

var formatNames = map[string]Format{
	"jpeg": JPEG,
	"jpg":  JPEG,
	"png":  PNG,
	"gif":  GIF,
	"tiff": TIFF,
	"tif":  TIFF,
	"bmp":  BMP,
	"webp": WebP,
}

// ParseFormat returns the format named s. "jpg" and "tif" are accepted.
func ParseFormat(s string) (Format, error) {
	f, ok := formatNames[strings.ToLower(s)]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", s)
	}

	return f, nil
}

// FormatFromPath guesses the format from the extension of path.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)

	return f, err == nil
}

// Extension returns the usual file extension of the format, with the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}

	return "." + string(f)
}

func (f Format) encoder() (imaging.Format, error) {
	switch f {
	case JPEG:
		return imaging.JPEG, nil
	case PNG:
		return imaging.PNG, nil
	case GIF:
		return imaging.GIF, nil
	case TIFF:
		return imaging.TIFF, nil
	case BMP:
		return imaging.BMP, nil
	default:
		return -1, errors.Wrapf(ErrUnsupportedFormat, "cannot encode %s", f)
	}
}
