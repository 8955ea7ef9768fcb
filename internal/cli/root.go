// Package cli wires the resolver, the command registry and the pipeline behind a cobra command.
package cli

import (
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/askiada/go-imgpipe/internal/commands"
	"github.com/askiada/go-imgpipe/internal/resolver"
)

type app struct {
	fs       afero.Fs
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	env      *resolver.Env
	version  string
	registry *commands.Registry
}

type Option func(a *app)

// WithFs replaces the OS filesystem used for inputs, outputs and the graph file.
func WithFs(fs afero.Fs) Option {
	return func(a *app) {
		a.fs = fs
	}
}

// WithStreams replaces the standard streams.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(a *app) {
		a.stdin, a.stdout, a.stderr = stdin, stdout, stderr
	}
}

// WithTerminal overrides the terminal detection of the standard streams.
func WithTerminal(env resolver.Env) Option {
	return func(a *app) {
		a.env = &env
	}
}

func WithVersion(version string) Option {
	return func(a *app) {
		a.version = version
	}
}

func WithRegistry(r *commands.Registry) Option {
	return func(a *app) {
		a.registry = r
	}
}

// NewRootCmd returns the imgpipe command. Its arguments are parsed by the resolver, not cobra.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{
		fs:      afero.NewOsFs(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		version: "dev",
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = commands.Default()
	}

	cmd := &cobra.Command{
		Use:                "imgpipe <options> [command]",
		Short:              "Process images with a pipeline of operations",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args)
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	return cmd
}

func (a *app) terminal() resolver.Env {
	if a.env != nil {
		return *a.env
	}

	return resolver.Env{
		StdinTerminal:  isTerminal(a.stdin),
		StdoutTerminal: isTerminal(a.stdout),
	}
}

func isTerminal(stream any) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
