// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// KindBare is a single token with no process-type alias, passed verbatim.
	KindBare Kind = iota + 1
	// KindQuoted is an optional alias template followed by quoted arguments.
	KindQuoted
)

var (
	// ErrNoCommand is returned when no command tokens remain.
	ErrNoCommand = &UsageError{Message: "must specify a command"}

	// ErrUnquotable is the sentinel error wrapped by UnquotableError.
	ErrUnquotable = errors.New("argument cannot be quoted for the shell")

	errNulByte = errors.New("shell strings cannot contain NUL bytes")
)

type (
	// Kind distinguishes how a Command renders its arguments.
	Kind int

	// Command is a structured command line.
	Command struct {
		Kind Kind
		// Alias is the process-type name that was expanded, if any.
		Alias string
		// Prefix is the expanded process-type template, if any.
		Prefix string
		// Args are the literal arguments, unquoted.
		Args []string

		line string
	}

	// UsageError reports a malformed invocation.
	UsageError struct {
		Message string
	}

	// UnquotableError is returned for an argument the shell cannot represent
	// (it contains a NUL byte).
	UnquotableError struct {
		Arg string
		Err error
	}
)

// Error implements the error interface.
func (e *UsageError) Error() string { return e.Message }

// Error implements the error interface.
func (e *UnquotableError) Error() string {
	return fmt.Sprintf("argument %q: %v", e.Arg, e.Err)
}

// Unwrap returns ErrUnquotable and the quoting error.
func (e *UnquotableError) Unwrap() []error { return []error{ErrUnquotable, e.Err} }

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBare:
		return "bare"
	case KindQuoted:
		return "quoted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// String returns the shell command line.
func (c Command) String() string { return c.line }

// Build reconstructs a shell command line from args.
//
// When the first argument names a process type, its template replaces it,
// followed by a separator space. A lone argument with no alias is kept
// verbatim; in every other case each remaining argument is quoted and the
// results are joined with single spaces. The line is then run through the
// test-suite guard.
func Build(args []string, processTypes map[string]string) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrNoCommand
	}

	cmd, err := assemble(args, processTypes)
	if err != nil {
		return Command{}, err
	}

	if err := CheckSafe(cmd.line); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func assemble(args []string, processTypes map[string]string) (Command, error) {
	if tmpl, ok := processTypes[args[0]]; ok {
		rest := args[1:]
		quoted, err := quoteAll(rest)
		if err != nil {
			return Command{}, err
		}
		return Command{
			Kind:   KindQuoted,
			Alias:  args[0],
			Prefix: tmpl,
			Args:   append([]string(nil), rest...),
			line:   tmpl + " " + quoted,
		}, nil
	}

	if len(args) == 1 {
		return Command{Kind: KindBare, Args: []string{args[0]}, line: args[0]}, nil
	}

	quoted, err := quoteAll(args)
	if err != nil {
		return Command{}, err
	}
	return Command{
		Kind: KindQuoted,
		Args: append([]string(nil), args...),
		line: quoted,
	}, nil
}

func quoteAll(args []string) (string, error) {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		q, err := quote(arg)
		if err != nil {
			return "", err
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}

// quote escapes arg for any POSIX shell. syntax.Quote covers printable text;
// control characters and invalid UTF-8 have no POSIX escape sequence, so
// they go in single quotes, which keep every byte literal.
func quote(arg string) (string, error) {
	if strings.IndexByte(arg, 0) >= 0 {
		return "", &UnquotableError{Arg: arg, Err: errNulByte}
	}
	if q, err := syntax.Quote(arg, syntax.LangPOSIX); err == nil {
		return q, nil
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'", nil
}
