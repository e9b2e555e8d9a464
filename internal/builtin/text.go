// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path"
	"strings"
)

var errMissingOperand = errors.New("missing operand")

type (
	catCommand      struct{}
	headCommand     struct{}
	basenameCommand struct{}
	dirnameCommand  struct{}
)

func newCatCommand() *catCommand { return &catCommand{} }

func newHeadCommand() *headCommand { return &headCommand{} }

func newBasenameCommand() *basenameCommand { return &basenameCommand{} }

func newDirnameCommand() *dirnameCommand { return &dirnameCommand{} }

// Name returns the command name.
func (c *catCommand) Name() string { return "cat" }

// Run concatenates files, or stdin, to stdout.
// Usage: cat [FILE...]
func (c *catCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)
	return processFilesOrStdin(args[1:], hc.Stdin, hc.Dir, c.Name(),
		func(r io.Reader, _ string, _, _ int) error {
			if _, err := io.Copy(hc.Stdout, r); err != nil {
				return wrapError(c.Name(), err)
			}
			return nil
		})
}

// Name returns the command name.
func (c *headCommand) Name() string { return "head" }

// Run prints the first lines of each input. Unknown flags are ignored.
// Usage: head [-n N] [FILE...]
func (c *headCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	numLines := fs.Int("n", 10, "number of lines")
	_ = fs.Parse(args[1:]) //nolint:errcheck // unsupported flags are ignored

	return processFilesOrStdin(fs.Args(), hc.Stdin, hc.Dir, c.Name(),
		func(r io.Reader, filename string, index, total int) error {
			if total > 1 {
				if index > 0 {
					fmt.Fprintln(hc.Stdout)
				}
				fmt.Fprintf(hc.Stdout, "==> %s <==\n", filename)
			}
			return headLines(hc.Stdout, r, *numLines)
		})
}

func headLines(out io.Writer, in io.Reader, n int) error {
	scanner := bufio.NewScanner(in)
	for count := 0; count < n && scanner.Scan(); count++ {
		fmt.Fprintln(out, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// Name returns the command name.
func (c *basenameCommand) Name() string { return "basename" }

// Run prints the last path element, minus SUFFIX when given.
// Usage: basename PATH [SUFFIX]
func (c *basenameCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	operands := args[1:]
	if len(operands) == 0 {
		return wrapError(c.Name(), errMissingOperand)
	}

	base := path.Base(operands[0])
	if len(operands) > 1 {
		suffix := operands[1]
		if suffix != "" && base != suffix {
			base = strings.TrimSuffix(base, suffix)
		}
	}

	fmt.Fprintln(hc.Stdout, base)
	return nil
}

// Name returns the command name.
func (c *dirnameCommand) Name() string { return "dirname" }

// Run prints each path with its last element removed.
// Usage: dirname PATH...
func (c *dirnameCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	operands := args[1:]
	if len(operands) == 0 {
		return wrapError(c.Name(), errMissingOperand)
	}
	for _, p := range operands {
		fmt.Fprintln(hc.Stdout, path.Dir(p))
	}
	return nil
}
