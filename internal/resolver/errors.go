package resolver

import (
	"fmt"
	"strings"
)

// ParseError reports a command line that does not match the grammar: unknown flag, stray or
// missing positional, bad value.
type ParseError struct {
	Command string
	Token   string
	Reason  string
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Token != "" {
		msg = fmt.Sprintf("%s: %s", e.Reason, e.Token)
	}
	if e.Command != "" {
		msg = e.Command + ": " + msg
	}

	return msg
}

// ValidationError reports a command line that parsed but breaks a rule of the schema.
type ValidationError struct {
	Command string
	Option  string
	Reason  string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Reason, e.Option)
	if e.Command != "" {
		msg = e.Command + ": " + msg
	}

	return msg
}

var flagErrorPrefixes = []string{"unknown flag: ", "unknown shorthand flag: ", "flag needs an argument: "}

func fromFlagError(command string, err error) *ParseError {
	msg := err.Error()
	for _, prefix := range flagErrorPrefixes {
		if tok, ok := strings.CutPrefix(msg, prefix); ok {
			return &ParseError{Command: command, Token: tok, Reason: strings.TrimSuffix(prefix, ": ")}
		}
	}

	return &ParseError{Command: command, Reason: msg}
}
