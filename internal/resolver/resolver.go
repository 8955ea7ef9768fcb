// Package resolver turns a command line into resolved global arguments and an ordered list of
// sub-command invocations. It only reads its inputs: building the operation queue is left to
// the caller, once resolution succeeded.
package resolver

import (
	"strconv"

	"github.com/askiada/go-imgpipe/internal/schema"
)

// Catalog finds a sub-command by name or alias.
type Catalog interface {
	Lookup(name string) (*schema.CommandSpec, bool)
}

// Env describes the terminal state of the standard streams.
type Env struct {
	StdinTerminal  bool
	StdoutTerminal bool
}

// Invocation is one occurrence of a sub-command with its own arguments.
type Invocation struct {
	Command string
	// Token is the name as typed, possibly an alias.
	Token string
	Args  schema.Args
}

// Resolved is the result of a successful resolution.
type Resolved struct {
	Global      schema.Args
	Invocations []Invocation
	Help        bool
	// HelpCommand is set when help was asked within a sub-command.
	HelpCommand string
	Version     bool
}

// Resolve parses argv against the global schema and the command catalog. It returns a
// *ParseError or a *ValidationError when the command line is not acceptable.
func Resolve(argv []string, global *schema.Schema, catalog Catalog, env Env) (*Resolved, error) {
	segs, err := split(argv, global, catalog)
	if err != nil {
		return nil, err
	}

	gfs := globalFlagSet(global)
	empty := map[string]bool{}
	res := &Resolved{}

	// positional errors wait until we know help was not asked for
	var positionalErr error

	helpFlag := gfs.Lookup(schema.OptHelp)
	for _, seg := range segs {
		fs := gfs
		if seg.spec != nil {
			fs = commandFlagSet(seg.spec, seg.scope, global, gfs)
		}
		helpBefore := helpFlag != nil && helpFlag.Changed

		err := fs.Parse(seg.flags)
		if err != nil {
			return nil, fromFlagError(seg.name(), err)
		}
		for _, name := range seg.empty {
			empty[name] = true
		}

		if seg.spec == nil {
			if len(seg.positionals) > 0 {
				return nil, &ParseError{Token: seg.positionals[0], Reason: "unknown argument"}
			}
			continue
		}

		if !helpBefore && helpFlag != nil && helpFlag.Changed {
			res.HelpCommand = seg.spec.Name
		}

		b := schema.NewArgsBuilder()
		err = extract(seg.spec.Name, fs, seg.spec.Options, emptySet(seg.empty), b)
		if err != nil {
			return nil, err
		}
		err = bindPositionals(seg, b)
		if err != nil && positionalErr == nil {
			positionalErr = err
		}
		res.Invocations = append(res.Invocations, Invocation{
			Command: seg.spec.Name,
			Token:   seg.token,
			Args:    b.Build(),
		})
	}

	b := schema.NewArgsBuilder()
	err = extract("", gfs, global.Options(), empty, b)
	if err != nil {
		return nil, err
	}
	res.Global = b.Build()
	res.Help = res.Global.Bool(schema.OptHelp)
	res.Version = res.Global.Bool(schema.OptVersion)

	if res.Help || res.Version {
		return res, nil
	}
	if positionalErr != nil {
		return nil, positionalErr
	}

	err = validate(res, global, catalog, env)
	if err != nil {
		return nil, err
	}

	return res, nil
}

func emptySet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	return set
}

func bindPositionals(seg *segment, b *schema.ArgsBuilder) error {
	specs := seg.spec.Positionals
	if len(seg.positionals) > len(specs) {
		return &ParseError{Command: seg.spec.Name, Token: seg.positionals[len(specs)], Reason: "unknown argument"}
	}

	for i, p := range specs {
		if i >= len(seg.positionals) {
			if p.Required {
				return &ParseError{Command: seg.spec.Name, Token: "<" + p.Name + ">", Reason: "missing required argument"}
			}
			if p.Default != nil {
				b.Set(p.Name, p.Default, false)
			}
			continue
		}

		raw := seg.positionals[i]
		if p.Type != schema.Number {
			b.Set(p.Name, raw, true)
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || !finite(value) {
			return &ParseError{Command: seg.spec.Name, Token: raw, Reason: "invalid number for <" + p.Name + ">"}
		}
		b.Set(p.Name, value, true)
	}

	return nil
}
