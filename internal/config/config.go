// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/surrogate/surrogate/internal/issue"
	"github.com/surrogate/surrogate/pkg/cueutil"
	"github.com/surrogate/surrogate/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "surrogate"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override (SURROGATE_API_URL, ...).
	EnvPrefix = "SURROGATE"
	// TokenEnvVar is the conventional platform token variable, honored for api.token.
	TokenEnvVar = "HEROKU_API_KEY"
)

//go:embed config_schema.cue
var configSchema string

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:     "https://api.heroku.com",
			Accept:  "application/vnd.heroku+json; version=3",
			Timeout: 30 * time.Second,
		},
		Git: GitConfig{
			Binary: "git",
			Remote: "heroku",
		},
		Exec: ExecConfig{
			Shell:   platform.DefaultShell(),
			Runtime: RuntimeNative,
		},
	}
}

// ConfigDir returns the surrogate configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading. It returns the
// resolved config file path, or "" when only defaults and environment
// overrides were applied.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	resolvedPath := ""

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", invalidFileError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}

		for _, candidate := range []string{
			filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
			filepath.Join(opts.BaseDir, ConfigFileName+"."+ConfigFileExt),
		} {
			if !fileExists(candidate) {
				continue
			}
			if err := loadCUEIntoViper(v, candidate); err != nil {
				return nil, "", invalidFileError(candidate, err)
			}
			resolvedPath = candidate
			break
		}
		// If no config file found, use defaults (no error)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Checks CUE cannot express for values that arrive from the environment.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check SURROGATE_* environment variables for typos").
			WithSuggestion("Timeouts use Go duration syntax, e.g. 30s or 1m").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a Viper instance with defaults and environment bindings.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("api.url", defaults.API.URL)
	v.SetDefault("api.token", defaults.API.Token)
	v.SetDefault("api.accept", defaults.API.Accept)
	v.SetDefault("api.timeout", defaults.API.Timeout)
	v.SetDefault("git.binary", defaults.Git.Binary)
	v.SetDefault("git.remote", defaults.Git.Remote)
	v.SetDefault("exec.shell", defaults.Exec.Shell)
	v.SetDefault("exec.runtime", defaults.Exec.Runtime)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Explicit names are checked in order: SURROGATE_API_TOKEN, then HEROKU_API_KEY.
	_ = v.BindEnv("api.token", EnvPrefix+"_API_TOKEN", TokenEnvVar)

	return v
}

func invalidFileError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper reads a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Fields are all optional, so validation does not require concreteness. The
// file decodes to map[string]any so it layers over Viper's defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Validate(configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// GenerateCUE generates a CUE representation of the configuration.
// The API token is never written.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Surrogate Configuration File\n")
	sb.WriteString("// Every key can be overridden with SURROGATE_<SECTION>_<KEY>.\n")

	sb.WriteString("\napi: {\n")
	sb.WriteString(fmt.Sprintf("\turl:     %q\n", cfg.API.URL))
	sb.WriteString(fmt.Sprintf("\taccept:  %q\n", cfg.API.Accept))
	sb.WriteString(fmt.Sprintf("\ttimeout: %q\n", cfg.API.Timeout.String()))
	sb.WriteString("}\n")

	sb.WriteString("\ngit: {\n")
	sb.WriteString(fmt.Sprintf("\tbinary: %q\n", cfg.Git.Binary))
	sb.WriteString(fmt.Sprintf("\tremote: %q\n", cfg.Git.Remote))
	sb.WriteString("}\n")

	sb.WriteString("\nexec: {\n")
	sb.WriteString(fmt.Sprintf("\tshell:   %q\n", cfg.Exec.Shell))
	sb.WriteString(fmt.Sprintf("\truntime: %q\n", cfg.Exec.Runtime))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}
