// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/surrogate/surrogate/internal/checkout"
	"github.com/surrogate/surrogate/internal/command"
	"github.com/surrogate/surrogate/internal/config"
	"github.com/surrogate/surrogate/internal/environ"
	"github.com/surrogate/surrogate/internal/issue"
	"github.com/surrogate/surrogate/internal/platformapi"
	"github.com/surrogate/surrogate/internal/release"
	"github.com/surrogate/surrogate/internal/runtime"
	"github.com/surrogate/surrogate/pkg/types"
)

// issueStyle is the glamour style used for issue help.
const issueStyle = "dark"

// run resolves the release, composes the environment, builds the command line
// and hands it to the selected runtime. Every validation and resolution step
// completes before the working tree or the process is touched.
func (a *App) run(ctx context.Context, opts runOptions, args []string) error {
	format, err := parseFormat(opts.format)
	if err != nil {
		return a.fail(types.ExitFailure, err, opts.verbose, 0)
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.configPath})
	if err != nil {
		return a.fail(types.ExitFailure, err, opts.verbose, issue.ConfigLoadFailedId)
	}

	verbose := opts.verbose || cfg.UI.Verbose
	installLogger(newLogger(a.stderr, verbose))

	if opts.printConfig {
		if _, err := io.WriteString(a.stdout, config.GenerateCUE(cfg)); err != nil {
			return a.fail(types.ExitFailure, err, verbose, 0)
		}
		return nil
	}

	// Overrides and the presence of a command can be checked without the
	// release, so malformed invocations never reach the network.
	if _, rest, composeErr := environ.Compose(nil, args); composeErr != nil {
		return a.fail(types.ExitFailure, composeErr, verbose, 0)
	} else if len(rest) == 0 {
		return a.fail(types.ExitFailure, command.ErrNoCommand, verbose, 0)
	}

	if cfg.API.Token == "" {
		return a.fail(types.ExitFailure, issue.NewErrorContext().
			WithOperation("authenticate").
			WithResource(cfg.API.URL).
			WithSuggestion("Set "+config.TokenEnvVar+" or "+config.EnvPrefix+"_API_TOKEN").
			WithSuggestion("Or set api.token in the config file").
			Wrap(errMissingToken).
			BuildError(), verbose, 0)
	}

	git := a.Git(cfg)

	app := opts.app
	if app == "" {
		app, err = checkout.DetectApp(ctx, git, cfg.Git.Remote)
		if err != nil {
			return a.fail(types.ExitFailure, issue.NewErrorContext().
				WithOperation("detect app").
				WithResource(cfg.Git.Remote).
				WithSuggestion("Pass the app name with --app").
				WithSuggestion("Or point the configured git remote (git.remote) at the app repository").
				Wrap(err).
				BuildError(), verbose, 0)
		}
		slog.Debug("detected app from git remote", "app", app, "remote", cfg.Git.Remote)
	}

	if err := types.AppName(app).Validate(); err != nil {
		return a.fail(types.ExitFailure, err, verbose, 0)
	}

	api := a.Platform(cfg)

	rel, err := release.NewResolver(api).Resolve(ctx, app, opts.release)
	if err != nil {
		return a.fail(types.ExitFailure, issue.NewErrorContext().
			WithOperation("resolve release").
			WithResource(releaseResource(app, opts.release)).
			WithSuggestions(resolveSuggestions(err)...).
			Wrap(err).
			BuildError(), verbose, 0)
	}

	env, rest, err := environ.Compose(environ.Env(rel.Env()), args)
	if err != nil {
		return a.fail(types.ExitFailure, err, verbose, 0)
	}

	cmdLine, err := command.Build(rest, rel.ProcessTypes())
	if err != nil {
		return a.fail(types.ExitFailure, err, verbose, 0)
	}

	mode := runtime.Mode(cfg.Exec.Runtime)
	if opts.virtual {
		mode = runtime.ModeVirtual
	}

	slog.Debug("prepared command", "app", app, "release", rel.Label(), "command", cmdLine.String(), "vars", len(env))

	if opts.dryRun {
		p := newPlan(app, rel, env, cmdLine, mode, opts.checkout)
		if err := p.render(a.stdout, format); err != nil {
			return a.fail(types.ExitFailure, err, verbose, 0)
		}
		return nil
	}

	if opts.checkout {
		if err := checkout.NewSynchronizer(git, api).Sync(ctx, app, rel.Commit); err != nil {
			return a.fail(types.ExitFailure, issue.NewErrorContext().
				WithOperation("check out release "+rel.Label()).
				WithResource(rel.Commit).
				WithSuggestion("Commit or stash local changes that block the checkout").
				WithSuggestion("Run without --checkout to use the current working tree").
				Wrap(err).
				BuildError(), verbose, 0)
		}
	}

	rt, err := a.Runtimes(mode, cfg.Exec.Shell)
	if err != nil {
		return a.fail(types.ExitFailure, err, verbose, issue.ConfigLoadFailedId)
	}

	code, err := rt.Run(ctx, runtime.Invocation{
		Command: cmdLine.String(),
		Env:     env,
		Stdin:   a.stdin,
		Stdout:  a.stdout,
		Stderr:  a.stderr,
	})
	if err != nil {
		return a.fail(code, issue.NewErrorContext().
			WithOperation("run command with "+rt.Name()+" runtime").
			WithResource(cmdLine.String()).
			WithSuggestion("Check exec.shell in the config file, or run with --virtual").
			Wrap(err).
			BuildError(), verbose, 0)
	}
	if !code.IsSuccess() {
		return &ExitError{Code: code}
	}
	return nil
}

// fail renders err with its issue help and returns an ExitError carrying code.
// fallback is used when err has no catalog entry of its own.
func (a *App) fail(code types.ExitCode, err error, verbose bool, fallback issue.Id) error {
	issueID, styled := classifyError(err, verbose)
	if issueID == 0 {
		issueID = fallback
	}
	renderServiceError(a.stderr, newServiceError(err, issueID, styled), issueStyle)

	if code.IsSuccess() {
		code = types.ExitFailure
	}
	return &ExitError{Code: code, Err: err}
}

func releaseResource(app, releaseID string) string {
	if releaseID == "" {
		return app + " (latest release)"
	}
	return app + " release " + releaseID
}

func resolveSuggestions(err error) []string {
	switch {
	case errors.Is(err, platformapi.ErrNotFound):
		return []string{
			"Check the app name passed with --app",
			"Check the release id or version passed with --release",
		}
	case errors.Is(err, platformapi.ErrTransport):
		return []string{
			"Check your network connection",
			"Check api.url in the config file",
		}
	case errors.Is(err, platformapi.ErrStatus):
		return []string{"Check that the API token is valid and has access to the app"}
	default:
		return nil
	}
}
