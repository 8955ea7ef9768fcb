package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/askiada/go-imgpipe/internal/schema"
)

var heading = color.New(color.Bold)

// help prints the global help, or the help of command when it is set.
func (a *app) help(command string) error {
	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	if command == "" {
		a.globalHelp(w)
	} else {
		cmd, ok := a.registry.Get(command)
		if !ok {
			return errors.Errorf("unknown command %s", command)
		}
		commandHelp(w, &cmd.CommandSpec)
	}

	return errors.Wrap(w.Flush(), "unable to print help")
}

func (a *app) globalHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: imgpipe <options> [command]\n\n")

	heading.Fprintln(w, "Commands:")
	for _, cmd := range a.registry.List() {
		fmt.Fprintf(w, "  imgpipe %s\t%s\n", cmd.Usage(), cmd.Description)
	}

	s := schema.New(schema.GlobalOptions())
	for _, g := range []schema.Group{schema.GroupGlobal, schema.GroupOptimization, schema.GroupMisc} {
		fmt.Fprintln(w)
		heading.Fprintf(w, "%s:\n", g)
		for _, d := range s.Group(g) {
			optionLine(w, d)
		}
	}

	fmt.Fprintf(w, "\nRun 'imgpipe <command> --help' for the options of a command.\n")
}

func commandHelp(w io.Writer, spec *schema.CommandSpec) {
	fmt.Fprintf(w, "Usage: imgpipe %s [options]\n\n%s\n", spec.Usage(), spec.Description)

	if len(spec.Aliases) > 0 {
		fmt.Fprintf(w, "\nAliases: %s\n", strings.Join(spec.Aliases, ", "))
	}

	if len(spec.Positionals) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Positionals:")
		for _, p := range spec.Positionals {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", p.Name, p.Description, annotations(p.Type, p.Required, p.Default, ""))
		}
	}

	if len(spec.Options) > 0 {
		fmt.Fprintln(w)
		heading.Fprintf(w, "%s:\n", schema.GroupCommand)
		for _, d := range spec.Options {
			optionLine(w, d)
		}
	}

	if len(spec.Examples) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Examples:")
		for _, ex := range spec.Examples {
			fmt.Fprintf(w, "  %s\t%s\n", ex.Command, ex.Description)
		}
	}

	fmt.Fprintf(w, "\nGlobal options are accepted too, see 'imgpipe --help'.\n")
}

func optionLine(w io.Writer, d schema.Descriptor) {
	names := "--" + d.Name
	if d.Short != "" {
		names = "-" + d.Short + ", " + names
	}
	for _, a := range d.Aliases {
		names += ", --" + a
	}

	note := annotations(d.Type, false, d.Default, d.DefaultDescription)
	if len(d.Choices) > 0 {
		note += fmt.Sprintf(" [choices: %s]", strings.Join(d.Choices, ", "))
	}
	if d.Implies != "" {
		note += " [implies: --" + d.Implies + "]"
	}
	fmt.Fprintf(w, "  %s\t%s\t%s\n", names, d.Description, note)
}

func annotations(t schema.Type, required bool, def any, defDescription string) string {
	note := "[" + t.String() + "]"
	if required {
		note += " [required]"
	}
	switch {
	case defDescription != "":
		note += " [default: " + defDescription + "]"
	case def != nil:
		note += fmt.Sprintf(" [default: %v]", def)
	}

	return note
}
