package schema

import (
	"github.com/samber/lo"
)

// Schema indexes a list of descriptors by name, alias and shorthand.
type Schema struct {
	options []Descriptor
	byName  map[string]int
}

// New indexes opts. Duplicates are reported by Validate, not here: the last one wins.
func New(opts []Descriptor) *Schema {
	s := &Schema{
		options: append([]Descriptor(nil), opts...),
		byName:  make(map[string]int),
	}
	for i, d := range s.options {
		s.byName[d.Name] = i
		for _, a := range d.Aliases {
			s.byName[a] = i
		}
	}

	return s
}

// Options returns the descriptors in declaration order.
func (s *Schema) Options() []Descriptor {
	return append([]Descriptor(nil), s.options...)
}

// Lookup finds a descriptor by its name or one of its long aliases.
func (s *Schema) Lookup(name string) (*Descriptor, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}

	return &s.options[i], true
}

// LookupShort finds a descriptor by its single letter alias.
func (s *Schema) LookupShort(short string) (*Descriptor, bool) {
	for i := range s.options {
		if s.options[i].Short != "" && s.options[i].Short == short {
			return &s.options[i], true
		}
	}

	return nil, false
}

// Group returns the descriptors of a help group, in declaration order.
func (s *Schema) Group(g Group) []Descriptor {
	return lo.Filter(s.options, func(d Descriptor, _ int) bool {
		return d.Group == g
	})
}

// Scoped returns a schema holding the command options followed by the global ones.
func (s *Schema) Scoped(cmd *CommandSpec) *Schema {
	if cmd == nil {
		return s
	}
	global := lo.Filter(s.options, func(d Descriptor, _ int) bool {
		return d.Global
	})

	return New(append(append([]Descriptor(nil), cmd.Options...), global...))
}
