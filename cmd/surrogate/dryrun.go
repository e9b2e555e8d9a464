// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/surrogate/surrogate/internal/command"
	"github.com/surrogate/surrogate/internal/environ"
	"github.com/surrogate/surrogate/internal/release"
	"github.com/surrogate/surrogate/internal/runtime"

	"github.com/pelletier/go-toml/v2"
)

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatTOML outputFormat = "toml"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// outputFormat selects how a dry-run plan is printed.
	outputFormat string

	// InvalidFormatError is returned for an unknown --format value.
	InvalidFormatError struct {
		Value string
	}

	// plan is what a run would do, printed by --dry-run.
	plan struct {
		App       string            `json:"app" toml:"app"`
		Release   string            `json:"release" toml:"release"`
		ReleaseID string            `json:"release_id" toml:"release_id"`
		Commit    string            `json:"commit,omitempty" toml:"commit,omitempty"`
		Runtime   string            `json:"runtime" toml:"runtime"`
		Checkout  bool              `json:"checkout" toml:"checkout"`
		Command   string            `json:"command" toml:"command"`
		Env       map[string]string `json:"env" toml:"env"`
	}
)

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (expected text, json or toml)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is checks.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatTOML:
		return f, nil
	default:
		return "", &InvalidFormatError{Value: s}
	}
}

func newPlan(app string, rel *release.Release, env environ.Env, cmdLine command.Command, mode runtime.Mode, checkout bool) plan {
	if mode == "" {
		mode = runtime.ModeNative
	}
	return plan{
		App:       app,
		Release:   rel.Label(),
		ReleaseID: rel.ID,
		Commit:    rel.Commit,
		Runtime:   string(mode),
		Checkout:  checkout,
		Command:   cmdLine.String(),
		Env:       env.Clone(),
	}
}

func (p plan) render(w io.Writer, format outputFormat) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case formatTOML:
		return toml.NewEncoder(w).Encode(p)
	default:
		_, err := io.WriteString(w, p.text())
		return err
	}
}

func (p plan) text() string {
	var b strings.Builder

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(fmt.Sprintf("%-9s", label+":")), value)
	}

	b.WriteString(TitleStyle.Render("Dry run") + SubtitleStyle.Render(" (nothing was executed)") + "\n\n")
	row("App", p.App)
	row("Release", p.Release+VerboseStyle.Render(" ("+p.ReleaseID+")"))
	if p.Commit != "" {
		row("Commit", p.Commit)
	}
	row("Runtime", p.Runtime)
	if p.Checkout {
		row("Checkout", "yes")
	}
	row("Command", CmdStyle.Render(p.Command))

	b.WriteString("\n" + TitleStyle.Render("Environment") + "\n")
	env := environ.Env(p.Env)
	if len(env) == 0 {
		b.WriteString(VerboseStyle.Render("  (empty)") + "\n")
	}
	for _, k := range env.Keys() {
		fmt.Fprintf(&b, "  %s=%s\n", KeyStyle.Render(k), env[k])
	}
	return b.String()
}
