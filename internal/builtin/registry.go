// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps command names to builtin implementations.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates a Registry holding cmds.
// Panics on an empty or duplicate name.
func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{commands: make(map[string]Command, len(cmds))}
	for _, cmd := range cmds {
		r.Register(cmd)
	}
	return r
}

// Default returns a registry with every builtin of this package.
func Default() *Registry {
	return NewRegistry(
		newEnvCommand(),
		newPrintenvCommand(),
		newCatCommand(),
		newHeadCommand(),
		newBasenameCommand(),
		newDirnameCommand(),
	)
}

// Register adds cmd. Panics if the name is empty or already registered.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if name == "" {
		panic("builtin: cannot register command with empty name")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("builtin: command %q already registered", name))
	}
	r.commands[name] = cmd
}

// Lookup retrieves a command by name.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.commands))
}

// Run executes the command named args[0].
func (r *Registry) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("builtin: no command")
	}
	cmd, ok := r.Lookup(args[0])
	if !ok {
		return fmt.Errorf("%s: command not found", args[0])
	}
	return cmd.Run(ctx, args)
}
