package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-imgpipe/internal/resolver"
	"github.com/askiada/go-imgpipe/internal/schema"
)

type catalog map[string]*schema.CommandSpec

func (c catalog) Lookup(name string) (*schema.CommandSpec, bool) {
	spec, ok := c[name]
	return spec, ok
}

func testCatalog() catalog {
	resize := &schema.CommandSpec{
		Name: "resize",
		Options: []schema.Descriptor{
			{Name: "fit", Type: schema.String, Group: schema.GroupCommand, Default: "cover", Choices: []string{"cover", "contain", "fill"}},
			{Name: "without-enlargement", Type: schema.Boolean, Group: schema.GroupCommand},
		},
		Positionals: []schema.Positional{
			{Name: "width", Type: schema.Number, Required: true},
			{Name: "height", Type: schema.Number},
		},
	}
	rotate := &schema.CommandSpec{
		Name: "rotate",
		Options: []schema.Descriptor{
			{Name: "background", Type: schema.String, Group: schema.GroupCommand, Default: "#000000"},
		},
		Positionals: []schema.Positional{{Name: "angle", Type: schema.Number}},
	}
	grayscale := &schema.CommandSpec{Name: "grayscale", Aliases: []string{"greyscale"}}
	blur := &schema.CommandSpec{
		Name: "blur",
		Options: []schema.Descriptor{
			{Name: "radius", Type: schema.Number, Group: schema.GroupCommand},
		},
		Positionals: []schema.Positional{{Name: "sigma", Type: schema.Number}},
	}
	tint := &schema.CommandSpec{
		Name:        "tint",
		Positionals: []schema.Positional{{Name: "colour", Type: schema.String, Required: true}},
	}

	return catalog{
		"resize":    resize,
		"rotate":    rotate,
		"grayscale": grayscale,
		"greyscale": grayscale,
		"tint":      tint,
		"blur":      blur,
	}
}

var piped = resolver.Env{}

func resolve(t *testing.T, env resolver.Env, argv ...string) (*resolver.Resolved, error) {
	t.Helper()

	return resolver.Resolve(argv, schema.New(schema.GlobalOptions()), testCatalog(), env)
}

func commands(res *resolver.Resolved) []string {
	names := make([]string, 0, len(res.Invocations))
	for _, inv := range res.Invocations {
		names = append(names, inv.Command)
	}

	return names
}

func TestResolveParseErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		argv  []string
		token string
	}{
		"unknown long flag":         {argv: []string{"--unknown-flag"}, token: "--unknown-flag"},
		"unknown shorthand":         {argv: []string{"-z"}, token: "z"},
		"unknown command flag":      {argv: []string{"rotate", "--fit", "cover"}, token: "--fit"},
		"stray global positional":   {argv: []string{"photo.jpg"}, token: "photo.jpg"},
		"too many positionals":      {argv: []string{"rotate", "90", "180"}, token: "180"},
		"missing positional":        {argv: []string{"resize"}, token: "<width>"},
		"malformed number":          {argv: []string{"resize", "wide"}, token: "wide"},
		"missing flag value":        {argv: []string{"--quality"}, token: "--quality"},
		"separator without command": {argv: []string{"resize", "300", "--", "200"}, token: "200"},
		"nan positional":            {argv: []string{"rotate", "NaN"}, token: "NaN"},
		"infinite positional":       {argv: []string{"blur", "Inf"}, token: "Inf"},
		"overflowing positional":    {argv: []string{"resize", "1e400"}, token: "1e400"},
		"nan global number":         {argv: []string{"-q", "NaN"}, token: "NaN"},
		"infinite command number":   {argv: []string{"blur", "--radius", "+Inf"}, token: "+Inf"},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := resolve(t, piped, tc.argv...)
			require.Error(t, err)
			assert.Nil(t, res)

			var perr *resolver.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, perr.Token, tc.token)
		})
	}
}

func TestResolveImpliesWithoutDependency(t *testing.T) {
	t.Parallel()

	_, err := resolve(t, piped, "--optimise-scans")
	var verr *resolver.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Option, schema.OptProgressive)

	res, err := resolve(t, piped, "--optimise-scans", "--progressive")
	require.NoError(t, err)
	assert.True(t, res.Global.Bool(schema.OptOptimiseScans))
	assert.True(t, res.Global.Bool(schema.OptProgressive))
}

func TestResolveTerminalDemand(t *testing.T) {
	t.Parallel()

	_, err := resolve(t, resolver.Env{StdinTerminal: true}, "resize", "300")
	var verr *resolver.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, schema.OptInput, verr.Option)
	assert.Equal(t, "missing required argument", verr.Reason)

	_, err = resolve(t, resolver.Env{StdoutTerminal: true}, "-i", "a.png", "resize", "300")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, schema.OptOutput, verr.Option)

	res, err := resolve(t, piped, "resize", "300")
	require.NoError(t, err)
	assert.False(t, res.Global.IsSet(schema.OptInput))
	assert.False(t, res.Global.IsSet(schema.OptOutput))

	res, err = resolve(t, resolver.Env{StdinTerminal: true, StdoutTerminal: true}, "-i", "a.png", "-o", "out", "resize", "300")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, res.Global.Strings(schema.OptInput))
	assert.Equal(t, "out", res.Global.String(schema.OptOutput))
}

func TestResolveExplicitEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := resolve(t, piped, "--input", "resize", "300")
	var verr *resolver.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, schema.OptInput, verr.Option)
	assert.Contains(t, verr.Reason, "not enough arguments")
}

func TestResolveArrayConsumesUntilCommand(t *testing.T) {
	t.Parallel()

	res, err := resolve(t, piped, "-i", "a.png", "b.png", "c.png", "resize", "300")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, res.Global.Strings(schema.OptInput))
	assert.Equal(t, []string{"resize"}, commands(res))
}

func TestResolveAliasesAreEquivalent(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		a []string
		b []string
	}{
		"long alias":        {a: []string{"--optimise"}, b: []string{"--optimize"}},
		"shorthand":         {a: []string{"-q", "90"}, b: []string{"--quality", "90"}},
		"equals form":       {a: []string{"--quality=90"}, b: []string{"-q90"}},
		"shorthand cluster": {a: []string{"-pm"}, b: []string{"--progressive", "--with-metadata"}},
		"command alias":     {a: []string{"grayscale"}, b: []string{"greyscale"}},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := resolve(t, piped, tc.a...)
			require.NoError(t, err)
			b, err := resolve(t, piped, tc.b...)
			require.NoError(t, err)

			assert.Equal(t, a.Global.Supplied(), b.Global.Supplied())
			for _, n := range a.Global.Names() {
				assert.Equal(t, a.Global.Value(n), b.Global.Value(n), n)
			}
			assert.Equal(t, commands(a), commands(b))
		})
	}
}

func TestResolveKeepsCommandOrder(t *testing.T) {
	t.Parallel()

	res, err := resolve(t, piped, "resize", "300", "200", "rotate", "180")
	require.NoError(t, err)
	require.Equal(t, []string{"resize", "rotate"}, commands(res))
	assert.Equal(t, 300.0, res.Invocations[0].Args.Float("width"))
	assert.Equal(t, 200.0, res.Invocations[0].Args.Float("height"))
	assert.Equal(t, 180.0, res.Invocations[1].Args.Float("angle"))

	res, err = resolve(t, piped, "rotate", "180", "resize", "300", "200")
	require.NoError(t, err)
	assert.Equal(t, []string{"rotate", "resize"}, commands(res))
}

func TestResolveRepeatedCommands(t *testing.T) {
	t.Parallel()

	res, err := resolve(t, piped, "rotate", "90", "--", "rotate", "45", "--background", "#ffffff", "rotate")
	require.NoError(t, err)
	require.Equal(t, []string{"rotate", "rotate", "rotate"}, commands(res))
	assert.Equal(t, 90.0, res.Invocations[0].Args.Float("angle"))
	assert.Equal(t, "#000000", res.Invocations[0].Args.String("background"))
	assert.False(t, res.Invocations[0].Args.IsSet("background"))
	assert.Equal(t, 45.0, res.Invocations[1].Args.Float("angle"))
	assert.Equal(t, "#ffffff", res.Invocations[1].Args.String("background"))
	assert.False(t, res.Invocations[2].Args.Has("angle"))
}

func TestResolveNegativeNumberIsPositional(t *testing.T) {
	t.Parallel()

	res, err := resolve(t, piped, "rotate", "-90")
	require.NoError(t, err)
	require.Len(t, res.Invocations, 1)
	assert.Equal(t, -90.0, res.Invocations[0].Args.Float("angle"))
}

func TestResolveGlobalOptionInCommandScope(t *testing.T) {
	t.Parallel()

	res, err := resolve(t, piped, "resize", "300", "-q", "70", "--fit", "contain")
	require.NoError(t, err)
	assert.True(t, res.Global.IsSet(schema.OptQuality))
	assert.Equal(t, 70, res.Global.Int(schema.OptQuality))
	require.Len(t, res.Invocations, 1)
	assert.Equal(t, "contain", res.Invocations[0].Args.String("fit"))
	assert.False(t, res.Invocations[0].Args.Has(schema.OptQuality))
}

func TestResolveChoices(t *testing.T) {
	t.Parallel()

	_, err := resolve(t, piped, "--format", "avif")
	var verr *resolver.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, schema.OptFormat, verr.Option)

	_, err = resolve(t, piped, "resize", "300", "--fit", "stretch")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "resize", verr.Command)
	assert.Equal(t, "fit", verr.Option)

	res, err := resolve(t, piped)
	require.NoError(t, err)
	assert.Equal(t, schema.FormatInput, res.Global.String(schema.OptFormat))
	assert.False(t, res.Global.IsSet(schema.OptFormat))
}

func TestResolveHelpAndVersionSkipValidation(t *testing.T) {
	t.Parallel()

	tty := resolver.Env{StdinTerminal: true, StdoutTerminal: true}

	res, err := resolve(t, tty, "--help")
	require.NoError(t, err)
	assert.True(t, res.Help)
	assert.Empty(t, res.HelpCommand)

	res, err = resolve(t, tty, "--version")
	require.NoError(t, err)
	assert.True(t, res.Version)

	res, err = resolve(t, tty, "resize", "300", "-h")
	require.NoError(t, err)
	assert.True(t, res.Help)
	assert.Equal(t, "resize", res.HelpCommand)

	// missing positionals do not hide the help
	res, err = resolve(t, piped, "resize", "--help")
	require.NoError(t, err)
	assert.Equal(t, "resize", res.HelpCommand)
}

func TestResolveFlagValueIsNotACommand(t *testing.T) {
	t.Parallel()

	res, err := resolve(t, piped, "--output", "rotate", "resize", "300")
	require.NoError(t, err)
	assert.Equal(t, "rotate", res.Global.String(schema.OptOutput))
	assert.Equal(t, []string{"resize"}, commands(res))
}

func TestResolveStringPositional(t *testing.T) {
	t.Parallel()

	res, err := resolve(t, piped, "tint", "#ff0000")
	require.NoError(t, err)
	require.Len(t, res.Invocations, 1)
	assert.Equal(t, "#ff0000", res.Invocations[0].Args.String("colour"))
}
