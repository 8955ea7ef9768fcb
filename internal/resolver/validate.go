package resolver

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/askiada/go-imgpipe/internal/schema"
)

func validate(res *Resolved, global *schema.Schema, catalog Catalog, env Env) error {
	globalOpts := global.Options()

	// present but empty is checked before absent: they are different mistakes
	for _, d := range globalOpts {
		if d.Type == schema.Array && res.Global.IsSet(d.Name) && len(res.Global.Strings(d.Name)) < d.MinValues() {
			return &ValidationError{Option: d.Name, Reason: fmt.Sprintf("not enough arguments, need at least %d", d.MinValues())}
		}
	}

	for _, d := range globalOpts {
		demanded := (d.DemandWhenTerminal == schema.Stdin && env.StdinTerminal) ||
			(d.DemandWhenTerminal == schema.Stdout && env.StdoutTerminal)
		if demanded && !res.Global.IsSet(d.Name) {
			return &ValidationError{Option: d.Name, Reason: "missing required argument"}
		}
	}

	isSet := func(name string) bool { return res.Global.IsSet(name) }
	value := func(name string) schema.Args { return res.Global }
	if err := checkRules("", globalOpts, global, isSet, value); err != nil {
		return err
	}

	for _, inv := range res.Invocations {
		spec, ok := catalog.Lookup(inv.Command)
		if !ok {
			continue
		}
		inv := inv
		isSet := func(name string) bool { return inv.Args.IsSet(name) || res.Global.IsSet(name) }
		value := func(name string) schema.Args {
			if inv.Args.Has(name) {
				return inv.Args
			}
			return res.Global
		}
		if err := checkRules(spec.Name, spec.Options, global.Scoped(spec), isSet, value); err != nil {
			return err
		}
	}

	return nil
}

// checkRules enforces implications and choices on descs.
func checkRules(command string, descs []schema.Descriptor, scope *schema.Schema, isSet func(string) bool, args func(string) schema.Args) error {
	supplied := func(d *schema.Descriptor) bool {
		if !isSet(d.Name) {
			return false
		}
		if d.Type == schema.Boolean {
			return args(d.Name).Bool(d.Name)
		}

		return true
	}

	for i := range descs {
		d := &descs[i]

		if d.Implies != "" && supplied(d) {
			target, ok := scope.Lookup(d.Implies)
			if !ok || !supplied(target) {
				return &ValidationError{
					Command: command,
					Option:  d.Name + " -> " + d.Implies,
					Reason:  "missing dependent arguments",
				}
			}
		}

		if len(d.Choices) > 0 && isSet(d.Name) {
			v := args(d.Name).String(d.Name)
			if !lo.Contains(d.Choices, v) {
				return &ValidationError{
					Command: command,
					Option:  d.Name,
					Reason:  fmt.Sprintf("invalid value %q, choices are %s", v, strings.Join(d.Choices, ", ")),
				}
			}
		}
	}

	return nil
}
