package resolver

import (
	"strconv"
	"strings"

	"github.com/askiada/go-imgpipe/internal/schema"
)

const separator = "--"

// segment is the part of the command line owned by the global scope or by one sub-command.
type segment struct {
	spec  *schema.CommandSpec
	token string
	scope *schema.Schema

	flags       []string
	positionals []string
	// empty lists array options given without any value.
	empty []string
}

func (s *segment) name() string {
	if s.spec == nil {
		return ""
	}

	return s.spec.Name
}

// split cuts argv into segments. A token starts a new segment when it names a command and is not
// the value of the preceding flag; "--" closes the current segment.
func split(argv []string, global *schema.Schema, catalog Catalog) ([]*segment, error) {
	isCommand := func(tok string) bool {
		_, ok := catalog.Lookup(tok)
		return ok
	}

	cur := &segment{scope: global}
	segs := []*segment{cur}
	afterSeparator := false

	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if tok == separator {
			afterSeparator = true
			continue
		}
		if spec, ok := catalog.Lookup(tok); ok {
			cur = &segment{spec: spec, token: tok, scope: global.Scoped(spec)}
			segs = append(segs, cur)
			afterSeparator = false
			continue
		}
		if afterSeparator {
			return nil, &ParseError{Token: tok, Reason: "expected a command after " + separator}
		}
		i += cur.classify(argv[i:], isCommand) - 1
	}

	return segs, nil
}

// classify files rest[0], and the values it takes, as flags or positionals. It returns the
// number of tokens consumed.
func (s *segment) classify(rest []string, isCommand func(string) bool) int {
	tok := rest[0]

	switch {
	case !isFlagLike(tok):
		s.positionals = append(s.positionals, tok)
		return 1
	case strings.HasPrefix(tok, "--"):
		name := tok[2:]
		if strings.Contains(name, "=") {
			s.flags = append(s.flags, tok)
			return 1
		}
		d, ok := s.scope.Lookup(name)
		if !ok || !d.TakesValue() {
			// unknown flags are left to the flag parser to report
			s.flags = append(s.flags, tok)
			return 1
		}

		return 1 + s.values(tok, d, rest[1:], isCommand)
	default:
		cluster := tok[1:]
		for j, c := range cluster {
			d, ok := s.scope.LookupShort(string(c))
			if !ok {
				s.flags = append(s.flags, "-"+cluster[j:])
				return 1
			}
			flag := "-" + string(c)
			if !d.TakesValue() {
				s.flags = append(s.flags, flag)
				continue
			}
			if j < len(cluster)-1 {
				// -q90 or -q=90
				s.flags = append(s.flags, flag+cluster[j+1:])
				return 1
			}

			return 1 + s.values(flag, d, rest[1:], isCommand)
		}

		return 1
	}
}

// values consumes the value of a flag. Arrays take every token up to the next flag, command or
// separator and are rewritten as repeated flags.
func (s *segment) values(flag string, d *schema.Descriptor, rest []string, isCommand func(string) bool) int {
	if d.Type == schema.Array {
		n := 0
		for n < len(rest) && rest[n] != separator && !isFlagLike(rest[n]) && !isCommand(rest[n]) {
			s.flags = append(s.flags, flag, rest[n])
			n++
		}
		if n == 0 {
			s.empty = append(s.empty, d.Name)
		}

		return n
	}

	if len(rest) == 0 {
		s.flags = append(s.flags, flag)
		return 0
	}
	s.flags = append(s.flags, flag, rest[0])

	return 1
}

// isFlagLike reports whether tok looks like a flag. "-" alone and negative numbers do not.
func isFlagLike(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}

	return !isNegativeNumber(tok)
}

func isNegativeNumber(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if c := tok[1]; c != '.' && (c < '0' || c > '9') {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)

	return err == nil
}
