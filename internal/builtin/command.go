// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
)

// Command is a utility implemented in-process.
type Command interface {
	// Name returns the command name (e.g. "env", "cat").
	Name() string

	// Run executes the command. args[0] is the command name.
	// The context carries the HandlerContext with the command's stdio.
	Run(ctx context.Context, args []string) error
}

// wrapError prefixes err with the command name. Returns nil if err is nil.
func wrapError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", cmdName, err)
}
