// Package output decides where each processed image is written, and where inputs are read from.
package output

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/valyala/fasttemplate"

	"github.com/askiada/go-imgpipe/internal/engine"
)

// Stream names standard input or output in place of a path.
const Stream = "-"

var (
	ErrMultipleInputs = errors.New("a single output file cannot hold several inputs")
	ErrPathCollision  = errors.New("output path already written by another input")
)

type kind int

const (
	toStream kind = iota
	toDirectory
	toTemplate
	toFile
)

// Router maps inputs to destinations: the standard output, a directory, a template with the
// {root} {dir} {base} {name} {ext} tags, or a single file.
type Router struct {
	fs     afero.Fs
	target string
	stdout io.Writer
	kind   kind
	tmpl   *fasttemplate.Template

	mu      sync.Mutex
	claimed map[string]string
}

// NewRouter checks target can receive the given number of inputs.
func NewRouter(fs afero.Fs, target string, stdout io.Writer, inputs int) (*Router, error) {
	r := &Router{fs: fs, target: target, stdout: stdout, claimed: map[string]string{}}

	switch {
	case target == "" || target == Stream:
		r.kind = toStream
	case strings.Contains(target, "{"):
		tmpl, err := fasttemplate.NewTemplate(target, "{", "}")
		if err != nil {
			return nil, errors.Wrapf(err, "invalid output template %q", target)
		}
		r.kind, r.tmpl = toTemplate, tmpl
	default:
		isDir, err := afero.IsDir(fs, target)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "unable to stat %s", target)
		}
		r.kind = toFile
		if isDir {
			r.kind = toDirectory
		}
	}

	if inputs > 1 && (r.kind == toFile || r.kind == toStream) {
		return nil, errors.Wrapf(ErrMultipleInputs, "%d inputs for %s", inputs, r.describe())
	}

	return r, nil
}

func (r *Router) describe() string {
	if r.kind == toStream {
		return "standard output"
	}

	return r.target
}

// Hint returns the format implied by the extension of the target, if any.
func (r *Router) Hint() engine.Format {
	if r.kind != toFile && r.kind != toTemplate {
		return ""
	}
	ext := filepath.Ext(r.target)
	if strings.ContainsAny(ext, "{}") {
		return ""
	}
	f, _ := engine.FormatFromPath(r.target)

	return f
}

// Path returns where input is written when encoded as f. It is "-" for the standard output.
func (r *Router) Path(input string, f engine.Format) string {
	switch r.kind {
	case toDirectory:
		return filepath.Join(r.target, stem(input)+f.Extension())
	case toTemplate:
		return r.tmpl.ExecuteStringStd(tags(input, f))
	case toFile:
		return r.target
	default:
		return Stream
	}
}

// Create opens the destination of input. Parent directories of a templated path are created.
// Two inputs mapped to the same path fail with ErrPathCollision instead of overwriting each other.
func (r *Router) Create(input string, f engine.Format) (io.WriteCloser, string, error) {
	path := r.Path(input, f)
	if path == Stream {
		return nopCloser{r.stdout}, path, nil
	}

	err := r.claim(input, path)
	if err != nil {
		return nil, path, err
	}

	if r.kind == toTemplate {
		err = r.fs.MkdirAll(filepath.Dir(path), 0o755)
		if err != nil {
			return nil, path, errors.Wrapf(err, "unable to create directory for %s", path)
		}
	}
	file, err := r.fs.Create(path)
	if err != nil {
		return nil, path, errors.Wrapf(err, "unable to create %s", path)
	}

	return file, path, nil
}

func (r *Router) claim(input, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := filepath.Clean(path)
	if prev, ok := r.claimed[key]; ok {
		return errors.Wrapf(ErrPathCollision, "%s and %s both write %s", prev, input, path)
	}
	r.claimed[key] = input

	return nil
}

func tags(input string, f engine.Format) map[string]interface{} {
	root := ""
	if filepath.IsAbs(input) {
		root = filepath.VolumeName(input) + string(filepath.Separator)
	}

	return map[string]interface{}{
		"root": root,
		"dir":  filepath.Dir(input),
		"base": filepath.Base(input),
		"name": stem(input),
		"ext":  f.Extension(),
	}
}

func stem(input string) string {
	if input == Stream || input == "" {
		return "stdin"
	}
	base := filepath.Base(input)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Open opens an input for reading. "-" is the standard input, which is never closed.
func Open(fs afero.Fs, path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == Stream {
		return io.NopCloser(stdin), nil
	}
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}

	return file, nil
}
