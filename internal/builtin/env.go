// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupported is returned for invocations a builtin does not implement.
var ErrUnsupported = errors.New("unsupported invocation")

// errMissingVariable makes printenv exit non-zero without a message.
var errMissingVariable = errors.New("variable not set")

type (
	// envCommand prints the exported environment. Running another program
	// through it is left to the host.
	envCommand struct{}

	// printenvCommand prints selected variables, or all of them.
	printenvCommand struct{}
)

func newEnvCommand() *envCommand { return &envCommand{} }

func newPrintenvCommand() *printenvCommand { return &printenvCommand{} }

// Name returns the command name.
func (c *envCommand) Name() string { return "env" }

// Run prints KEY=VALUE lines sorted by key.
// Usage: env
func (c *envCommand) Run(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return wrapError(c.Name(), fmt.Errorf("%w: operands are not supported", ErrUnsupported))
	}
	hc := GetHandlerContext(ctx)
	for _, kv := range hc.Environ() {
		fmt.Fprintln(hc.Stdout, kv)
	}
	return nil
}

// Name returns the command name.
func (c *printenvCommand) Name() string { return "printenv" }

// Run prints the value of each named variable, or the whole environment
// when no names are given. Fails when any named variable is unset.
// Usage: printenv [NAME...]
func (c *printenvCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	names := args[1:]
	if len(names) == 0 {
		for _, kv := range hc.Environ() {
			fmt.Fprintln(hc.Stdout, kv)
		}
		return nil
	}

	var missing bool
	for _, name := range names {
		v, ok := hc.LookupEnv(name)
		if !ok {
			missing = true
			continue
		}
		fmt.Fprintln(hc.Stdout, v)
	}
	if missing {
		return errMissingVariable
	}
	return nil
}
