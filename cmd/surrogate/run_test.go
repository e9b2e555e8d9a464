// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/surrogate/surrogate/internal/checkout"
	"github.com/surrogate/surrogate/internal/command"
	"github.com/surrogate/surrogate/internal/config"
	"github.com/surrogate/surrogate/internal/environ"
	"github.com/surrogate/surrogate/internal/platformapi"
	"github.com/surrogate/surrogate/internal/runtime"
	"github.com/surrogate/surrogate/pkg/types"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"
)

// The tests in this file are not parallel: run installs the process-wide
// slog default.

const testCommit = "6f1d3c0b9a7e"

type stubConfig struct {
	cfg  *config.Config
	err  error
	opts config.LoadOptions
}

func (s *stubConfig) Load(_ context.Context, opts config.LoadOptions) (*config.Config, error) {
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

// stubPlatform serves one app with a single release. Config vars and slugs
// are fetched from two goroutines, so calls is guarded.
type stubPlatform struct {
	mu    sync.Mutex
	calls []string

	releases []platformapi.Release
	vars     map[string]any
	slug     *platformapi.Slug
	gitURL   string
	err      error
}

func (p *stubPlatform) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *stubPlatform) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *stubPlatform) ListReleases(_ context.Context, app string) ([]platformapi.Release, error) {
	p.record("releases:" + app)
	if p.err != nil {
		return nil, p.err
	}
	return p.releases, nil
}

func (p *stubPlatform) GetRelease(_ context.Context, app, id string) (*platformapi.Release, error) {
	p.record("release:" + app + "/" + id)
	if p.err != nil {
		return nil, p.err
	}
	for i := range p.releases {
		if p.releases[i].ID == id {
			return &p.releases[i], nil
		}
	}
	return nil, &platformapi.NotFoundError{Path: "/apps/" + app + "/releases/" + id}
}

func (p *stubPlatform) GetConfigVars(_ context.Context, app, id string) (map[string]any, error) {
	p.record("config-vars:" + app + "/" + id)
	return p.vars, nil
}

func (p *stubPlatform) GetSlug(_ context.Context, app, id string) (*platformapi.Slug, error) {
	p.record("slug:" + app + "/" + id)
	return p.slug, nil
}

func (p *stubPlatform) GetApp(_ context.Context, app string) (*platformapi.App, error) {
	p.record("app:" + app)
	return &platformapi.App{Name: app, GitURL: p.gitURL}, nil
}

type stubGit struct {
	remoteURL   string
	remoteErr   error
	hasCommit   bool
	checkoutErr error

	fetched    []string
	checkedOut []string
}

func (g *stubGit) HasCommit(context.Context, string) (bool, error) { return g.hasCommit, nil }

func (g *stubGit) Fetch(_ context.Context, url string) error {
	g.fetched = append(g.fetched, url)
	return nil
}

func (g *stubGit) Checkout(_ context.Context, ref string) error {
	g.checkedOut = append(g.checkedOut, ref)
	return g.checkoutErr
}

func (g *stubGit) RemoteURL(context.Context, string) (string, error) {
	if g.remoteErr != nil {
		return "", g.remoteErr
	}
	return g.remoteURL, nil
}

type stubRuntime struct {
	code types.ExitCode
	err  error

	mode  runtime.Mode
	shell string
	runs  []runtime.Invocation
}

func (r *stubRuntime) Name() string { return "stub" }

func (r *stubRuntime) Run(_ context.Context, inv runtime.Invocation) (types.ExitCode, error) {
	r.runs = append(r.runs, inv)
	return r.code, r.err
}

type harness struct {
	cfg    *config.Config
	config *stubConfig
	api    *stubPlatform
	git    *stubGit
	rt     *stubRuntime
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness() *harness {
	cfg := config.DefaultConfig()
	cfg.API.Token = "test-token"
	cfg.Exec.Shell = "/bin/sh"

	return &harness{
		cfg:    cfg,
		config: &stubConfig{cfg: cfg},
		api: &stubPlatform{
			releases: []platformapi.Release{
				{ID: "rel-1", Version: 1, Slug: &platformapi.SlugRef{ID: "slug-1"}},
				{ID: "rel-2", Version: 2, Commit: testCommit, Slug: &platformapi.SlugRef{ID: "slug-2"}},
			},
			vars: map[string]any{
				"DATABASE_URL": "postgres://db.internal/app",
				"PATH":         "/app/bin:/usr/bin",
				"GEM_PATH":     "/app/vendor/bundle",
			},
			slug: &platformapi.Slug{
				ID:           "slug-2",
				ProcessTypes: map[string]string{"web": "bin/web", "tests": "bundle exec rake test"},
			},
			gitURL: "https://git.heroku.com/myapp.git",
		},
		git: &stubGit{remoteURL: "https://git.heroku.com/myapp.git", hasCommit: true},
		rt:  &stubRuntime{},
	}
}

func (h *harness) execute(t *testing.T, args ...string) error {
	t.Helper()

	app, err := NewApp(Dependencies{
		Config:   h.config,
		Platform: func(*config.Config) PlatformAPI { return h.api },
		Git:      func(*config.Config) checkout.Git { return h.git },
		Runtimes: func(mode runtime.Mode, shell string) (runtime.Runtime, error) {
			h.rt.mode, h.rt.shell = mode, shell
			return h.rt, nil
		},
		Stdin:  strings.NewReader(""),
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	rootCmd := newRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	return rootCmd.ExecuteContext(context.Background())
}

func requireExitCode(t *testing.T, err error, want types.ExitCode) *ExitError {
	t.Helper()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.Code != want {
		t.Fatalf("exit code = %d, want %d", exitErr.Code, want)
	}
	return exitErr
}

func TestRun_ProcessTypeWithOverride(t *testing.T) {
	h := newHarness()

	if err := h.execute(t, "-a", "myapp", "PORT=3000", "web"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	if len(h.rt.runs) != 1 {
		t.Fatalf("runtime ran %d times, want 1", len(h.rt.runs))
	}
	inv := h.rt.runs[0]
	if inv.Command != "bin/web " {
		t.Errorf("Command = %q, want %q", inv.Command, "bin/web ")
	}
	wantEnv := environ.Env{"DATABASE_URL": "postgres://db.internal/app", "PORT": "3000"}
	if diff := cmp.Diff(wantEnv, inv.Env); diff != "" {
		t.Errorf("Env mismatch (-want +got):\n%s", diff)
	}
	if h.rt.mode != runtime.ModeNative {
		t.Errorf("mode = %q, want %q", h.rt.mode, runtime.ModeNative)
	}
	if h.rt.shell != "/bin/sh" {
		t.Errorf("shell = %q, want /bin/sh", h.rt.shell)
	}
	if len(h.git.checkedOut) != 0 {
		t.Errorf("checked out %v without --checkout", h.git.checkedOut)
	}
	if h.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", h.stderr.String())
	}
}

func TestRun_PassesCommandFlagsThrough(t *testing.T) {
	h := newHarness()

	if err := h.execute(t, "-a", "myapp", "ls", "-la", "--color"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if got := h.rt.runs[0].Command; got != "ls -la --color" {
		t.Errorf("Command = %q, want %q", got, "ls -la --color")
	}
}

func TestRun_SpecificRelease(t *testing.T) {
	h := newHarness()

	if err := h.execute(t, "-a", "myapp", "-r", "rel-1", "env"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if h.api.calls[0] != "release:myapp/rel-1" {
		t.Errorf("first call = %q, want release lookup", h.api.calls[0])
	}
}

func TestRun_RejectedBeforeNetwork(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*harness)
		args    []string
		wantErr func(error) bool
	}{
		{
			name: "no command",
			args: []string{"-a", "myapp", "FOO=bar"},
			wantErr: func(err error) bool {
				var usageErr *command.UsageError
				return errors.As(err, &usageErr)
			},
		},
		{
			name:    "empty override key",
			args:    []string{"-a", "myapp", "=bar", "ls"},
			wantErr: func(err error) bool { return errors.Is(err, environ.ErrInvalidOverride) },
		},
		{
			name:    "missing token",
			mutate:  func(h *harness) { h.cfg.API.Token = "" },
			args:    []string{"-a", "myapp", "ls"},
			wantErr: func(err error) bool { return errors.Is(err, errMissingToken) },
		},
		{
			name:    "invalid format",
			args:    []string{"-a", "myapp", "--dry-run", "--format", "yaml", "ls"},
			wantErr: func(err error) bool { return errors.Is(err, ErrInvalidFormat) },
		},
		{
			name:    "app name with path separator",
			args:    []string{"-a", "my/app", "ls"},
			wantErr: func(err error) bool { return errors.Is(err, types.ErrInvalidAppName) },
		},
		{
			name:    "unknown remote",
			mutate:  func(h *harness) { h.git.remoteURL = "git@github.com:someone/else.git" },
			args:    []string{"ls"},
			wantErr: func(err error) bool { return errors.Is(err, checkout.ErrUnknownRemote) },
		},
		{
			name:    "missing remote",
			mutate:  func(h *harness) { h.git.remoteErr = checkout.ErrNoRemote },
			args:    []string{"ls"},
			wantErr: func(err error) bool { return errors.Is(err, checkout.ErrNoRemote) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			if tt.mutate != nil {
				tt.mutate(h)
			}

			err := h.execute(t, tt.args...)
			requireExitCode(t, err, types.ExitFailure)
			if !tt.wantErr(err) {
				t.Errorf("unexpected error: %v", err)
			}
			if n := h.api.callCount(); n != 0 {
				t.Errorf("API called %d times, want 0", n)
			}
			if len(h.rt.runs) != 0 {
				t.Error("runtime ran")
			}
			if !strings.Contains(h.stderr.String(), "Error:") {
				t.Errorf("stderr = %q, want rendered error", h.stderr.String())
			}
		})
	}
}

func TestRun_RefusesTestSuite(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "literal", args: []string{"-a", "myapp", "--checkout", "rake", "test"}},
		{name: "process type alias", args: []string{"-a", "myapp", "--checkout", "tests"}},
		{name: "bare rake", args: []string{"-a", "myapp", "--checkout", "rake"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()

			err := h.execute(t, tt.args...)
			requireExitCode(t, err, types.ExitFailure)
			if !errors.Is(err, command.ErrTestSuite) {
				t.Errorf("error = %v, want ErrTestSuite", err)
			}
			if len(h.git.checkedOut) != 0 {
				t.Errorf("checked out %v before refusing", h.git.checkedOut)
			}
			if len(h.rt.runs) != 0 {
				t.Error("runtime ran")
			}
		})
	}
}

func TestRun_AllowsNonTestRakeTask(t *testing.T) {
	h := newHarness()

	if err := h.execute(t, "-a", "myapp", "rake", "db:migrate"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if got := h.rt.runs[0].Command; got != "rake db:migrate" {
		t.Errorf("Command = %q, want %q", got, "rake db:migrate")
	}
}

func TestRun_DetectsAppFromRemote(t *testing.T) {
	h := newHarness()
	h.git.remoteURL = "git@heroku.com:detected-app.git"

	if err := h.execute(t, "env"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if h.api.calls[0] != "releases:detected-app" {
		t.Errorf("first call = %q, want releases:detected-app", h.api.calls[0])
	}
}

func TestRun_ResolutionFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "not found", err: &platformapi.NotFoundError{Path: "/apps/myapp/releases"}, sentinel: platformapi.ErrNotFound},
		{name: "transport", err: &platformapi.TransportError{Err: context.DeadlineExceeded}, sentinel: platformapi.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.api.err = tt.err

			err := h.execute(t, "-a", "myapp", "--checkout", "env")
			requireExitCode(t, err, types.ExitFailure)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error = %v, want %v", err, tt.sentinel)
			}
			if len(h.git.checkedOut) != 0 || len(h.rt.runs) != 0 {
				t.Error("side effects after resolution failure")
			}
		})
	}
}

func TestRun_UnknownRelease(t *testing.T) {
	h := newHarness()

	err := h.execute(t, "-a", "myapp", "-r", "rel-404", "env")
	requireExitCode(t, err, types.ExitFailure)
	if !errors.Is(err, platformapi.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(h.stderr.String(), "rel-404") {
		t.Errorf("stderr = %q, want release id", h.stderr.String())
	}
}

func TestRun_Checkout(t *testing.T) {
	h := newHarness()
	h.git.hasCommit = false

	if err := h.execute(t, "-a", "myapp", "--checkout", "web"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if diff := cmp.Diff([]string{"https://git.heroku.com/myapp.git"}, h.git.fetched); diff != "" {
		t.Errorf("fetched mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{testCommit}, h.git.checkedOut); diff != "" {
		t.Errorf("checked out mismatch (-want +got):\n%s", diff)
	}
	if len(h.rt.runs) != 1 {
		t.Errorf("runtime ran %d times, want 1", len(h.rt.runs))
	}
}

func TestRun_CheckoutFailureExitsOne(t *testing.T) {
	h := newHarness()
	h.git.checkoutErr = errors.New("local changes would be overwritten")

	err := h.execute(t, "-a", "myapp", "--checkout", "web")
	requireExitCode(t, err, types.ExitFailure)
	if !errors.Is(err, checkout.ErrCheckoutFailed) {
		t.Errorf("error = %v, want ErrCheckoutFailed", err)
	}
	if len(h.rt.runs) != 0 {
		t.Error("runtime ran after checkout failure")
	}
}

func TestRun_RuntimeSelection(t *testing.T) {
	tests := []struct {
		name    string
		cfgMode config.RuntimeMode
		args    []string
		want    runtime.Mode
	}{
		{name: "config default", cfgMode: config.RuntimeNative, args: []string{"-a", "myapp", "env"}, want: runtime.ModeNative},
		{name: "config virtual", cfgMode: config.RuntimeVirtual, args: []string{"-a", "myapp", "env"}, want: runtime.ModeVirtual},
		{name: "flag wins", cfgMode: config.RuntimeNative, args: []string{"-a", "myapp", "--virtual", "env"}, want: runtime.ModeVirtual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.cfg.Exec.Runtime = tt.cfgMode

			if err := h.execute(t, tt.args...); err != nil {
				t.Fatalf("execute() error = %v", err)
			}
			if h.rt.mode != tt.want {
				t.Errorf("mode = %q, want %q", h.rt.mode, tt.want)
			}
		})
	}
}

func TestRun_CommandExitStatus(t *testing.T) {
	h := newHarness()
	h.rt.code = 3

	err := h.execute(t, "-a", "myapp", "--virtual", "exit 3")
	exitErr := requireExitCode(t, err, 3)
	if exitErr.Err != nil {
		t.Errorf("Err = %v, want nil", exitErr.Err)
	}
	if h.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", h.stderr.String())
	}
}

func TestRun_ExecFailure(t *testing.T) {
	h := newHarness()
	h.rt.code = types.ExitCommandNotFound
	h.rt.err = &runtime.ExecError{Shell: "/bin/nope", Err: errors.New("executable file not found")}

	err := h.execute(t, "-a", "myapp", "env")
	requireExitCode(t, err, types.ExitCommandNotFound)

	var execErr *runtime.ExecError
	if !errors.As(err, &execErr) {
		t.Errorf("error = %v, want *runtime.ExecError", err)
	}
}

func TestRun_ConfigLoadFailure(t *testing.T) {
	h := newHarness()
	h.config.err = errors.New("config file not found: /nope.cue")

	err := h.execute(t, "--config", "/nope.cue", "-a", "myapp", "env")
	requireExitCode(t, err, types.ExitFailure)
	if h.config.opts.ConfigFilePath != "/nope.cue" {
		t.Errorf("ConfigFilePath = %q, want /nope.cue", h.config.opts.ConfigFilePath)
	}
	if h.api.callCount() != 0 {
		t.Error("API called after config failure")
	}
}

func TestRun_DryRun(t *testing.T) {
	want := plan{
		App:       "myapp",
		Release:   "v2",
		ReleaseID: "rel-2",
		Commit:    testCommit,
		Runtime:   "native",
		Checkout:  true,
		Command:   "bin/web --verbose",
		Env:       map[string]string{"DATABASE_URL": "postgres://db.internal/app", "PORT": "5000"},
	}
	args := []string{"-a", "myapp", "--checkout", "--dry-run", "PORT=5000", "web", "--verbose"}

	t.Run("json", func(t *testing.T) {
		h := newHarness()
		if err := h.execute(t, append([]string{"--format", "json"}, args...)...); err != nil {
			t.Fatalf("execute() error = %v", err)
		}

		var got plan
		if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", h.stdout.String(), err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("plan mismatch (-want +got):\n%s", diff)
		}
		assertNoSideEffects(t, h)
	})

	t.Run("toml", func(t *testing.T) {
		h := newHarness()
		if err := h.execute(t, append([]string{"--format", "toml"}, args...)...); err != nil {
			t.Fatalf("execute() error = %v", err)
		}

		var got plan
		if err := toml.Unmarshal(h.stdout.Bytes(), &got); err != nil {
			t.Fatalf("invalid TOML %q: %v", h.stdout.String(), err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("plan mismatch (-want +got):\n%s", diff)
		}
		assertNoSideEffects(t, h)
	})

	t.Run("text", func(t *testing.T) {
		h := newHarness()
		if err := h.execute(t, args...); err != nil {
			t.Fatalf("execute() error = %v", err)
		}

		out := h.stdout.String()
		for _, s := range []string{"myapp", "v2", "bin/web --verbose", "DATABASE_URL", "=postgres://db.internal/app", "PORT", "=5000"} {
			if !strings.Contains(out, s) {
				t.Errorf("output missing %q:\n%s", s, out)
			}
		}
		if strings.Contains(out, "GEM_PATH") {
			t.Errorf("output contains a path-like key:\n%s", out)
		}
		assertNoSideEffects(t, h)
	})
}

func TestRun_PrintConfig(t *testing.T) {
	h := newHarness()
	h.cfg.Git.Remote = "production"

	if err := h.execute(t, "--print-config"); err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	out := h.stdout.String()
	if !strings.Contains(out, `remote: "production"`) {
		t.Errorf("output missing the configured remote:\n%s", out)
	}
	if strings.Contains(out, "test-token") {
		t.Errorf("output leaks the API token:\n%s", out)
	}
	if h.api.callCount() != 0 {
		t.Error("API called while printing the configuration")
	}
	assertNoSideEffects(t, h)
}

func assertNoSideEffects(t *testing.T, h *harness) {
	t.Helper()

	if len(h.git.checkedOut) != 0 {
		t.Errorf("dry run checked out %v", h.git.checkedOut)
	}
	if len(h.rt.runs) != 0 {
		t.Error("dry run ran the command")
	}
}
