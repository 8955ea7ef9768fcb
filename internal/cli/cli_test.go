package cli_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgpipe/internal/cli"
	"github.com/askiada/go-imgpipe/internal/output"
	"github.com/askiada/go-imgpipe/internal/resolver"
	"github.com/askiada/go-imgpipe/pkg/pipeline"
)

type result struct {
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	err    error
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	require.NoError(t, imaging.Encode(buf, imaging.New(w, h, color.NRGBA{R: 10, G: 200, B: 30, A: 255}), imaging.PNG))

	return buf.Bytes()
}

func execute(t *testing.T, fs afero.Fs, stdin []byte, env resolver.Env, argv ...string) result {
	t.Helper()

	res := result{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	cmd := cli.NewRootCmd(
		cli.WithFs(fs),
		cli.WithStreams(bytes.NewReader(stdin), res.stdout, res.stderr),
		cli.WithTerminal(env),
		cli.WithVersion("1.2.3"),
	)
	cmd.SetArgs(argv)
	res.err = cmd.ExecuteContext(context.Background())

	return res
}

func decodeFile(t *testing.T, fs afero.Fs, path string) (image.Config, string) {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)

	return cfg, format
}

func TestFileToFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in.png", pngBytes(t, 40, 20), 0o644))

	res := execute(t, fs, nil, resolver.Env{}, "-i", "in.png", "-o", "out.jpg", "-q", "70", "resize", "10")
	require.NoError(t, res.err)

	cfg, format := decodeFile(t, fs, "out.jpg")
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 5, cfg.Height)
}

func TestStdinToStdout(t *testing.T) {
	t.Parallel()

	res := execute(t, afero.NewMemMapFs(), pngBytes(t, 40, 20), resolver.Env{}, "rotate", "90", "--", "flip")
	require.NoError(t, res.err)

	cfg, format, err := image.DecodeConfig(res.stdout)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Pt(20, 40), image.Pt(cfg.Width, cfg.Height))
}

func TestForcedFormat(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in.png", pngBytes(t, 8, 8), 0o644))
	require.NoError(t, fs.MkdirAll("out", 0o755))

	res := execute(t, fs, nil, resolver.Env{}, "-i", "in.png", "-o", "out", "-f", "gif")
	require.NoError(t, res.err)

	_, format := decodeFile(t, fs, "out/in.gif")
	assert.Equal(t, "gif", format)
}

func TestUnknownFlagRunsNothing(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in.png", pngBytes(t, 8, 8), 0o644))

	res := execute(t, fs, nil, resolver.Env{}, "-i", "in.png", "-o", "out.png", "--not-a-real-option")
	var perr *resolver.ParseError
	require.ErrorAs(t, res.err, &perr)
	assert.Equal(t, "--not-a-real-option", perr.Token)

	exists, err := afero.Exists(fs, "out.png")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, res.stdout.String())
}

func TestTerminalNeedsInput(t *testing.T) {
	t.Parallel()

	res := execute(t, afero.NewMemMapFs(), nil, resolver.Env{StdinTerminal: true, StdoutTerminal: true}, "-o", "out.png", "flip")
	var verr *resolver.ValidationError
	require.ErrorAs(t, res.err, &verr)
	assert.Equal(t, "input", verr.Option)
	assert.Empty(t, res.stdout.String())
}

func TestHelp(t *testing.T) {
	t.Parallel()

	res := execute(t, afero.NewMemMapFs(), nil, resolver.Env{StdinTerminal: true, StdoutTerminal: true}, "--help")
	require.NoError(t, res.err)

	out := res.stdout.String()
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "Global Options:")
	assert.Contains(t, out, "Optimization Options:")
	assert.Contains(t, out, "Misc Options:")
	assert.Contains(t, out, "--optimise-scans")
	assert.Contains(t, out, "[implies: --progressive]")

	blur := strings.Index(out, "imgpipe blur")
	crop := strings.Index(out, "imgpipe crop")
	tint := strings.Index(out, "imgpipe tint")
	require.NotEqual(t, -1, blur)
	assert.Less(t, blur, crop)
	assert.Less(t, crop, tint)
}

func TestCommandHelp(t *testing.T) {
	t.Parallel()

	res := execute(t, afero.NewMemMapFs(), nil, resolver.Env{}, "resize", "--help")
	require.NoError(t, res.err)

	out := res.stdout.String()
	assert.Contains(t, out, "Usage: imgpipe resize <width> [height]")
	assert.Contains(t, out, "--without-enlargement")
	assert.Contains(t, out, "Examples:")
	assert.NotContains(t, out, "Optimization Options:")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	res := execute(t, afero.NewMemMapFs(), nil, resolver.Env{StdinTerminal: true}, "--version")
	require.NoError(t, res.err)
	assert.Equal(t, "1.2.3\n", res.stdout.String())
}

func TestSiblingFilesKeepRunning(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.png", pngBytes(t, 8, 8), 0o644))
	require.NoError(t, afero.WriteFile(fs, "c.png", pngBytes(t, 8, 8), 0o644))
	require.NoError(t, afero.WriteFile(fs, "b.png", []byte("broken"), 0o644))

	res := execute(t, fs, nil, resolver.Env{}, "-i", "a.png", "b.png", "c.png", "-o", "{name}-small{ext}", "resize", "4")

	var batch *pipeline.BatchError
	require.ErrorAs(t, res.err, &batch)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "b.png", batch.Failures[0].Job)

	var step *pipeline.StepError
	require.ErrorAs(t, batch.Failures[0], &step)
	assert.Equal(t, "resize", step.Label)

	for _, path := range []string{"a-small.png", "c-small.png"} {
		cfg, _ := decodeFile(t, fs, path)
		assert.Equal(t, 4, cfg.Width, path)
	}
}

func TestGraphAndVerbose(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in.png", pngBytes(t, 8, 8), 0o644))

	res := execute(t, fs, nil, resolver.Env{}, "-i", "in.png", "-o", "out.png", "--graph", "queue.dot", "--verbose", "-q", "80", "flip", "negate")
	require.NoError(t, res.err)

	dot, err := afero.ReadFile(fs, "queue.dot")
	require.NoError(t, err)
	assert.Contains(t, string(dot), "strict digraph")
	assert.Contains(t, string(dot), `"input" -> "0:jpeg"`)
	assert.Contains(t, string(dot), `"3:flip" -> "4:negate"`)
	assert.Contains(t, string(dot), `"4:negate" -> "output"`)

	logs := res.stderr.String()
	assert.Contains(t, logs, "operation queue")
	assert.Contains(t, logs, "operation timing")
}

func TestMultipleInputsToOneFile(t *testing.T) {
	t.Parallel()

	res := execute(t, afero.NewMemMapFs(), nil, resolver.Env{}, "-i", "a.png", "b.png", "-o", "out.png")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "single output file")
}

func TestNonFiniteNumberRunsNothing(t *testing.T) {
	t.Parallel()

	for _, argv := range [][]string{{"rotate", "NaN"}, {"blur", "Inf"}, {"-q", "NaN", "flip"}} {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "in.png", pngBytes(t, 8, 8), 0o644))

		res := execute(t, fs, nil, resolver.Env{}, append([]string{"-i", "in.png", "-o", "out.png"}, argv...)...)
		var parseErr *resolver.ParseError
		require.ErrorAs(t, res.err, &parseErr, argv)

		exists, err := afero.Exists(fs, "out.png")
		require.NoError(t, err)
		assert.False(t, exists, argv)
	}
}

func TestSameNameInputsToDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("out", 0o755))
	require.NoError(t, afero.WriteFile(fs, "a/x.png", pngBytes(t, 8, 8), 0o644))
	require.NoError(t, afero.WriteFile(fs, "b/x.png", pngBytes(t, 8, 8), 0o644))

	res := execute(t, fs, nil, resolver.Env{}, "-i", "a/x.png", "b/x.png", "-o", "out", "flip")

	var batch *pipeline.BatchError
	require.ErrorAs(t, res.err, &batch)
	require.Len(t, batch.Failures, 1)
	assert.ErrorIs(t, batch.Failures[0], output.ErrPathCollision)

	cfg, _ := decodeFile(t, fs, "out/x.png")
	assert.Equal(t, 8, cfg.Width)
}
