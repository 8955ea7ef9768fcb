// Package commands holds the sub-commands. A handler only appends entries to the queue it is
// given, each entry binding the arguments of that occurrence.
package commands

import (
	"context"
	"image/color"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/askiada/go-imgpipe/internal/engine"
	"github.com/askiada/go-imgpipe/internal/resolver"
	"github.com/askiada/go-imgpipe/internal/schema"
	"github.com/askiada/go-imgpipe/pkg/pipeline"
)

var ErrDuplicateCommand = errors.New("command already registered")

// Handler appends the operations of one command occurrence to q.
type Handler func(q *pipeline.Queue[*engine.Image], args schema.Args) error

// Command is a sub-command definition.
type Command struct {
	schema.CommandSpec
	Handler Handler
}

// Registry maps names and aliases to commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]string
}

// NewRegistry indexes cmds. Names and aliases must be unique.
func NewRegistry(cmds ...*Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  map[string]string{},
	}
	for _, cmd := range cmds {
		if cmd.Handler == nil {
			return nil, errors.Errorf("command %s has no handler", cmd.Name)
		}
		for _, n := range append([]string{cmd.Name}, cmd.Aliases...) {
			if _, ok := r.aliases[n]; ok {
				return nil, errors.Wrapf(ErrDuplicateCommand, "%s", n)
			}
			r.aliases[n] = cmd.Name
		}
		r.commands[cmd.Name] = cmd
	}

	return r, nil
}

// Default returns the registry of every built-in command.
func Default() *Registry {
	r, err := NewRegistry(
		blur(), crop(), extend(), extract(), flatten(), flip(), flop(), gamma(), grayscale(),
		modulate(), negate(), normalize(), resize(), rotate(), sharpen(), threshold(), tint(),
	)
	if err != nil {
		panic(err)
	}

	return r
}

// Get finds a command by name or alias.
func (r *Registry) Get(name string) (*Command, bool) {
	canonical, ok := r.aliases[name]
	if !ok {
		return nil, false
	}

	return r.commands[canonical], true
}

// Lookup finds a command spec by name or alias.
func (r *Registry) Lookup(name string) (*schema.CommandSpec, bool) {
	cmd, ok := r.Get(name)
	if !ok {
		return nil, false
	}

	return &cmd.CommandSpec, true
}

// Names returns the command names sorted alphabetically, aliases excluded.
func (r *Registry) Names() []string {
	names := lo.Keys(r.commands)
	sort.Strings(names)

	return names
}

// List returns the commands sorted alphabetically by name.
func (r *Registry) List() []*Command {
	return lo.Map(r.Names(), func(n string, _ int) *Command {
		return r.commands[n]
	})
}

// Specs returns the specs of the commands sorted alphabetically by name.
func (r *Registry) Specs() []schema.CommandSpec {
	return lo.Map(r.List(), func(c *Command, _ int) schema.CommandSpec {
		return c.CommandSpec
	})
}

// Build creates the queue holding the operations of every invocation, in order.
func Build(res *resolver.Resolved, r *Registry) (*pipeline.Queue[*engine.Image], error) {
	q := pipeline.NewQueue[*engine.Image]()
	for _, inv := range res.Invocations {
		cmd, ok := r.Get(inv.Command)
		if !ok {
			return nil, errors.Errorf("unknown command %s", inv.Command)
		}
		err := cmd.Handler(q, inv.Args)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", inv.Token)
		}
	}

	return q, nil
}

// push appends a single operation that does not need the context.
func push(q *pipeline.Queue[*engine.Image], label string, fn func(img *engine.Image) (*engine.Image, error)) error {
	return q.Add(label, func(_ context.Context, img *engine.Image) (*engine.Image, error) {
		return fn(img)
	})
}

func colourArg(args schema.Args, name string) (color.NRGBA, error) {
	c, err := engine.ParseColour(args.String(name))
	if err != nil {
		return color.NRGBA{}, &resolver.ValidationError{Option: name, Reason: err.Error()}
	}

	return c, nil
}
