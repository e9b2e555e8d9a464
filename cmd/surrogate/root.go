// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/surrogate/surrogate/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// runOptions holds the root command's flag values.
type runOptions struct {
	app         string
	release     string
	checkout    bool
	dryRun      bool
	format      string
	virtual     bool
	configPath  string
	printConfig bool
	verbose     bool
}

// newRootCommand builds the root command bound to app.
func newRootCommand(app *App) *cobra.Command {
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:   "surrogate [flags] [KEY=VALUE ...] COMMAND [ARGS...]",
		Short: "Run a local command with a release's config vars",
		Long: TitleStyle.Render("surrogate") + SubtitleStyle.Render(" - run a local command with a release's config vars") + `

surrogate fetches the configuration of an application release and runs a
command locally with that environment. Variables ending in PATH are never
copied from the release. Leading KEY=VALUE arguments override individual
variables. A first argument naming a process type expands to that process
type's command line.

Test suites are refused: they would run against the release's databases.

` + SubtitleStyle.Render("Examples:") + `
  surrogate -a myapp bin/rails console          Console against the latest release
  surrogate -a myapp PORT=3000 web              Run the web process type on port 3000
  surrogate -a myapp -r v42 --checkout worker   Check out release v42, then run worker
  surrogate --dry-run --format json env         Show what would run, as JSON
  surrogate --print-config > config.cue         Write the effective configuration`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd.Context(), *opts, args)
		},
	}

	// Everything after the first positional argument belongs to the command.
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.app, "app", "a", "", "application name (default: derived from the configured git remote)")
	flags.StringVarP(&opts.release, "release", "r", "", "release id or version (default: latest)")
	flags.BoolVar(&opts.checkout, "checkout", false, "check out the release's commit before running")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the resolved release, environment and command without running it")
	flags.StringVar(&opts.format, "format", string(formatText), "dry-run output format: text, json or toml")
	flags.BoolVar(&opts.virtual, "virtual", false, "run the command in the embedded shell interpreter")
	flags.StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/surrogate/config.cue)")
	flags.BoolVar(&opts.printConfig, "print-config", false, "print the effective configuration as CUE and exit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging and full error chains")

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// errorHandler prints errors fang receives. ExitErrors were already rendered
// by the command and are not printed again.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute runs the root command and exits with its status.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		os.Exit(int(types.ExitFailure))
	}

	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithoutManpage(),
		fang.WithoutCompletions(),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code.Normalize()))
		}
		os.Exit(int(types.ExitFailure))
	}
}
