package schema

import (
	"math"
	"sort"
)

// Args holds resolved values keyed by canonical option or positional name: defaults merged
// with what the user supplied. It is read-only once built.
type Args struct {
	values map[string]any
	set    map[string]bool
}

// ArgsBuilder fills an Args.
type ArgsBuilder struct {
	args Args
}

func NewArgsBuilder() *ArgsBuilder {
	return &ArgsBuilder{args: Args{values: map[string]any{}, set: map[string]bool{}}}
}

// Set stores a value. explicit marks it as supplied by the user rather than a default.
func (b *ArgsBuilder) Set(name string, value any, explicit bool) *ArgsBuilder {
	b.args.values[name] = value
	if explicit {
		b.args.set[name] = true
	}

	return b
}

func (b *ArgsBuilder) Build() Args {
	return b.args
}

// IsSet reports whether the user supplied the value, even if equal to the default.
func (a Args) IsSet(name string) bool {
	return a.set[name]
}

// Has reports whether a value exists, supplied or default.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

func (a Args) Value(name string) any {
	return a.values[name]
}

func (a Args) Bool(name string) bool {
	v, _ := a.values[name].(bool)
	return v
}

func (a Args) Float(name string) float64 {
	v, _ := a.values[name].(float64)
	return v
}

// Int rounds a number value to the nearest integer.
func (a Args) Int(name string) int {
	return int(math.Round(a.Float(name)))
}

func (a Args) String(name string) string {
	v, _ := a.values[name].(string)
	return v
}

func (a Args) Strings(name string) []string {
	v, _ := a.values[name].([]string)
	return append([]string(nil), v...)
}

// Names returns every name holding a value, sorted.
func (a Args) Names() []string {
	names := make([]string, 0, len(a.values))
	for n := range a.values {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Supplied returns the names supplied by the user, sorted.
func (a Args) Supplied() []string {
	names := make([]string, 0, len(a.set))
	for n := range a.set {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}
