package resolver

import (
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/askiada/go-imgpipe/internal/schema"
)

// newFlagSet creates a strict flag set whose long aliases resolve to canonical names.
func newFlagSet(name string, scope *schema.Schema) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	aliases := map[string]string{}
	for _, d := range scope.Options() {
		for _, a := range d.Aliases {
			aliases[a] = d.Name
		}
	}
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if canonical, ok := aliases[name]; ok {
			return pflag.NormalizedName(canonical)
		}

		return pflag.NormalizedName(name)
	})

	return fs
}

func addFlag(fs *pflag.FlagSet, d schema.Descriptor) {
	switch d.Type {
	case schema.Boolean:
		def, _ := d.Default.(bool)
		fs.BoolP(d.Name, d.Short, def, d.Description)
	case schema.Number:
		def, _ := d.Default.(float64)
		fs.Float64P(d.Name, d.Short, def, d.Description)
	case schema.String:
		def, _ := d.Default.(string)
		fs.StringP(d.Name, d.Short, def, d.Description)
	case schema.Array:
		def, _ := d.Default.([]string)
		fs.StringArrayP(d.Name, d.Short, def, d.Description)
	}
}

// globalFlagSet holds the global options. Its flags are shared with every command flag set so
// values supplied in any segment merge into the same place.
func globalFlagSet(global *schema.Schema) *pflag.FlagSet {
	fs := newFlagSet("global", global)
	for _, d := range global.Options() {
		addFlag(fs, d)
	}

	return fs
}

func commandFlagSet(spec *schema.CommandSpec, scope *schema.Schema, global *schema.Schema, gfs *pflag.FlagSet) *pflag.FlagSet {
	fs := newFlagSet(spec.Name, scope)
	for _, d := range spec.Options {
		addFlag(fs, d)
	}
	for _, d := range global.Options() {
		if !d.Global {
			continue
		}
		fs.AddFlag(gfs.Lookup(d.Name))
	}

	return fs
}

// extract copies the values of descs from fs. Absent options without a default are left out.
// NaN and infinite numbers are rejected.
func extract(command string, fs *pflag.FlagSet, descs []schema.Descriptor, empty map[string]bool, b *schema.ArgsBuilder) error {
	for _, d := range descs {
		f := fs.Lookup(d.Name)
		if f == nil {
			continue
		}

		var (
			value any
			err   error
		)
		switch d.Type {
		case schema.Boolean:
			value, err = fs.GetBool(d.Name)
		case schema.Number:
			var n float64
			n, err = fs.GetFloat64(d.Name)
			if err == nil && !finite(n) {
				return &ParseError{Command: command, Token: f.Value.String(), Reason: "invalid number for --" + d.Name}
			}
			value = n
		case schema.String:
			value, err = fs.GetString(d.Name)
		case schema.Array:
			var values []string
			values, err = fs.GetStringArray(d.Name)
			value = lo.Filter(values, func(v string, _ int) bool { return v != "" })
		}
		if err != nil {
			return errors.Wrapf(err, "unable to read option %s", d.Name)
		}

		switch {
		case f.Changed:
			b.Set(d.Name, value, true)
		case empty[d.Name]:
			b.Set(d.Name, []string{}, true)
		case d.Default != nil:
			b.Set(d.Name, value, false)
		}
	}

	return nil
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
