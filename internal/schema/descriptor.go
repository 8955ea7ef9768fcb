// Package schema declares the options understood by imgpipe and the shape of sub-commands.
// It holds data only, plus the consistency check run once at start.
package schema

// Type is the value type of an option or a positional argument.
type Type int

const (
	String Type = iota
	Number
	Boolean
	Array
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// Group is the help section an option is listed in.
type Group string

const (
	GroupGlobal       Group = "Global Options"
	GroupOptimization Group = "Optimization Options"
	GroupMisc         Group = "Misc Options"
	GroupCommand      Group = "Command Options"
)

// Stream names a standard stream whose terminal state makes an option mandatory.
type Stream int

const (
	NoStream Stream = iota
	Stdin
	Stdout
)

// Descriptor is one entry of the option schema.
type Descriptor struct {
	Name string
	// Short is the single letter alias, without dash.
	Short string
	// Aliases are long alternative names.
	Aliases            []string
	Type               Type
	Group              Group
	Description        string
	DefaultDescription string
	// Default is the value used when the option is absent: bool, float64, string or []string.
	Default any
	// Global options are accepted in the scope of every sub-command.
	Global bool
	// Implies names an option that must be supplied whenever this one is.
	Implies string
	// Nargs is the minimum number of values an Array option takes when present.
	Nargs   int
	Choices []string
	// DemandWhenTerminal makes the option mandatory when that stream is a terminal.
	DemandWhenTerminal Stream
}

// TakesValue reports whether the option consumes the following token(s).
func (d *Descriptor) TakesValue() bool {
	return d.Type != Boolean
}

// MinValues returns the minimum number of values of an Array option.
func (d *Descriptor) MinValues() int {
	if d.Nargs > 0 {
		return d.Nargs
	}

	return 1
}

// Positional is a positional argument of a sub-command.
type Positional struct {
	Name        string
	Type        Type
	Required    bool
	Default     any
	Description string
}

// Example is a usage example shown in a command help.
type Example struct {
	Command     string
	Description string
}

// CommandSpec describes a sub-command: its name, its own options and positionals.
type CommandSpec struct {
	Name        string
	Aliases     []string
	Description string
	Examples    []Example
	Options     []Descriptor
	Positionals []Positional
}

// Usage returns the command synopsis, e.g. "resize <width> [height]".
func (c *CommandSpec) Usage() string {
	usage := c.Name
	for _, p := range c.Positionals {
		if p.Required {
			usage += " <" + p.Name + ">"
		} else {
			usage += " [" + p.Name + "]"
		}
	}

	return usage
}
