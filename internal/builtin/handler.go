// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

type (
	// HandlerContext is the execution context of a builtin, taken from the
	// interpreter's handler context.
	HandlerContext struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Dir is the interpreter's current directory.
		Dir string
		// LookupEnv reads a variable visible to the command.
		LookupEnv func(string) (string, bool)
		// Environ lists the exported variables as sorted KEY=VALUE pairs.
		Environ func() []string
	}

	handlerContextKey struct{}
)

// ExtractHandlerContext builds a HandlerContext from mvdan/sh's context.
func ExtractHandlerContext(ctx context.Context) *HandlerContext {
	hc := interp.HandlerCtx(ctx)
	return &HandlerContext{
		Stdin:  hc.Stdin,
		Stdout: hc.Stdout,
		Stderr: hc.Stderr,
		Dir:    hc.Dir,
		LookupEnv: func(name string) (string, bool) {
			v := hc.Env.Get(name)
			return v.String(), v.IsSet()
		},
		Environ: func() []string {
			var list []string
			hc.Env.Each(func(name string, v expand.Variable) bool {
				if v.Exported && v.IsSet() {
					list = append(list, name+"="+v.String())
				}
				return true
			})
			slices.Sort(list)
			return list
		},
	}
}

// WithHandlerContext stores hc in ctx. Tests use it to run builtins outside
// the interpreter.
func WithHandlerContext(ctx context.Context, hc *HandlerContext) context.Context {
	return context.WithValue(ctx, handlerContextKey{}, hc)
}

// GetHandlerContext returns the HandlerContext stored with WithHandlerContext,
// or extracts one from the interpreter's context.
func GetHandlerContext(ctx context.Context) *HandlerContext {
	if hc, ok := ctx.Value(handlerContextKey{}).(*HandlerContext); ok {
		return hc
	}
	return ExtractHandlerContext(ctx)
}

// ExecHandler returns interpreter middleware that answers registered names
// from r and passes everything else to next. A failing builtin prints its
// error to stderr and exits with status 1; it never falls back to the host.
func (r *Registry) ExecHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			return next(ctx, args)
		}
		cmd, ok := r.Lookup(args[0])
		if !ok {
			return next(ctx, args)
		}
		if err := cmd.Run(ctx, args); err != nil {
			if !errors.Is(err, errMissingVariable) {
				fmt.Fprintln(GetHandlerContext(ctx).Stderr, err)
			}
			return interp.ExitStatus(1)
		}
		return nil
	}
}
