package schema

import (
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-imgpipe/internal/store"
)

// Error is a schema violation. The program cannot start with an inconsistent schema.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return "invalid option schema:\n  - " + strings.Join(e.Problems, "\n  - ")
}

// Validate checks the global options and the command specs are consistent with each other.
func Validate(global []Descriptor, commands []CommandSpec) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	names := map[string]string{}
	shorts := map[string]string{}
	claim := func(scope, name, owner string) {
		if strings.TrimSpace(name) == "" {
			add("%s: option with empty name", scope)
			return
		}
		if prev, ok := names[name]; ok {
			add("%s: %q of %s already used by %s", scope, name, owner, prev)
			return
		}
		names[name] = owner
	}
	claimShort := func(scope, short, owner string) {
		if short == "" {
			return
		}
		if len(short) != 1 {
			add("%s: shorthand %q of %s must be a single letter", scope, short, owner)
			return
		}
		if prev, ok := shorts[short]; ok {
			add("%s: shorthand %q of %s already used by %s", scope, short, owner, prev)
			return
		}
		shorts[short] = owner
	}

	for _, d := range global {
		claim("global", d.Name, d.Name)
		for _, a := range d.Aliases {
			claim("global", a, d.Name)
		}
		claimShort("global", d.Short, d.Name)
		problems = append(problems, checkDescriptor("global", d)...)
	}

	problems = append(problems, checkImplies("global", global)...)

	cmdNames := map[string]string{}
	for _, cmd := range commands {
		scope := "command " + cmd.Name
		for _, n := range append([]string{cmd.Name}, cmd.Aliases...) {
			if prev, ok := cmdNames[n]; ok {
				add("%s: name %q already used by command %s", scope, n, prev)
				continue
			}
			cmdNames[n] = cmd.Name
		}

		local := map[string]string{}
		localShorts := map[string]string{}
		for _, d := range cmd.Options {
			for _, n := range append([]string{d.Name}, d.Aliases...) {
				if owner, ok := names[n]; ok {
					add("%s: option %q shadows global option %s", scope, n, owner)
				}
				if prev, ok := local[n]; ok {
					add("%s: %q of %s already used by %s", scope, n, d.Name, prev)
				}
				local[n] = d.Name
			}
			if d.Short != "" {
				if owner, ok := shorts[d.Short]; ok {
					add("%s: shorthand %q of %s shadows global option %s", scope, d.Short, d.Name, owner)
				}
				if prev, ok := localShorts[d.Short]; ok {
					add("%s: shorthand %q of %s already used by %s", scope, d.Short, d.Name, prev)
				}
				localShorts[d.Short] = d.Name
			}
			problems = append(problems, checkDescriptor(scope, d)...)
		}
		problems = append(problems, checkImplies(scope, append(append([]Descriptor(nil), cmd.Options...), global...))...)

		optional := false
		for _, p := range cmd.Positionals {
			if p.Type != String && p.Type != Number {
				add("%s: positional %s must be a string or a number", scope, p.Name)
			}
			if !p.Required {
				optional = true
				continue
			}
			if optional {
				add("%s: required positional %s follows an optional one", scope, p.Name)
			}
		}
	}

	for n := range cmdNames {
		if _, ok := names[n]; ok {
			add("command %s: name %q is also an option", cmdNames[n], n)
		}
	}

	if len(problems) > 0 {
		return &Error{Problems: problems}
	}

	return nil
}

func checkDescriptor(scope string, d Descriptor) []string {
	var problems []string
	if len(d.Choices) > 0 && d.Type != String {
		problems = append(problems, fmt.Sprintf("%s: option %s has choices but is a %s", scope, d.Name, d.Type))
	}
	if d.Nargs != 0 && d.Type != Array {
		problems = append(problems, fmt.Sprintf("%s: option %s has nargs but is a %s", scope, d.Name, d.Type))
	}
	if d.DemandWhenTerminal != NoStream && d.Group == GroupCommand {
		problems = append(problems, fmt.Sprintf("%s: command option %s cannot depend on a terminal", scope, d.Name))
	}

	return problems
}

// checkImplies verifies every implies target exists and the implications do not loop.
func checkImplies(scope string, opts []Descriptor) []string {
	var problems []string

	g := graph.NewWithStore(graph.StringHash, store.NewOrderedStore[string, string](), graph.Directed(), graph.PreventCycles())
	for _, d := range opts {
		// duplicates are reported by the name checks
		_ = g.AddVertex(d.Name)
	}

	for _, d := range opts {
		if d.Implies == "" {
			continue
		}
		err := g.AddEdge(d.Name, d.Implies)
		switch {
		case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
		case errors.Is(err, graph.ErrVertexNotFound):
			problems = append(problems, fmt.Sprintf("%s: option %s implies unknown option %q", scope, d.Name, d.Implies))
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			problems = append(problems, fmt.Sprintf("%s: option %s implying %s creates a cycle", scope, d.Name, d.Implies))
		default:
			problems = append(problems, fmt.Sprintf("%s: option %s: %v", scope, d.Name, err))
		}
	}

	return problems
}
