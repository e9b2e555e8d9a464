// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/surrogate/surrogate/internal/checkout"
	"github.com/surrogate/surrogate/internal/config"
	"github.com/surrogate/surrogate/internal/platformapi"
	"github.com/surrogate/surrogate/internal/release"
	"github.com/surrogate/surrogate/internal/runtime"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: the root command's RunE delegates to App.run, and every
	// external effect (config files, the platform API, git, process hand-off)
	// goes through one of its factories.
	App struct {
		Config   ConfigProvider
		Platform PlatformFactory
		Git      GitFactory
		Runtimes RuntimeFactory
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests supply fakes to isolate
	// the CLI from the network, git and the host shell.
	Dependencies struct {
		Config   ConfigProvider
		Platform PlatformFactory
		Git      GitFactory
		Runtimes RuntimeFactory
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// PlatformAPI is the part of the platform API the CLI uses.
	// *platformapi.Client satisfies it.
	PlatformAPI interface {
		release.API
		checkout.AppInfo
	}

	// PlatformFactory builds an API client from the loaded configuration.
	PlatformFactory func(cfg *config.Config) PlatformAPI

	// GitFactory builds the git runner for the working tree.
	GitFactory func(cfg *config.Config) checkout.Git

	// RuntimeFactory selects the runtime that runs the command line.
	RuntimeFactory func(mode runtime.Mode, shell string) (runtime.Runtime, error)
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Platform == nil {
		deps.Platform = newPlatformClient
	}
	if deps.Git == nil {
		deps.Git = newGitRepo
	}
	if deps.Runtimes == nil {
		deps.Runtimes = runtime.New
	}

	return &App{
		Config:   deps.Config,
		Platform: deps.Platform,
		Git:      deps.Git,
		Runtimes: deps.Runtimes,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}, nil
}

// newPlatformClient is the production PlatformFactory.
func newPlatformClient(cfg *config.Config) PlatformAPI {
	return platformapi.NewClient(
		platformapi.WithBaseURL(cfg.API.URL),
		platformapi.WithToken(cfg.API.Token),
		platformapi.WithAccept(cfg.API.Accept),
		platformapi.WithTimeout(cfg.API.Timeout),
		platformapi.WithUserAgent(config.AppName+"/"+Version),
	)
}

// newGitRepo is the production GitFactory. It operates on the current directory.
func newGitRepo(cfg *config.Config) checkout.Git {
	return checkout.NewRepo(cfg.Git.Binary, "")
}
