// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

type testIO struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newTestContext(t *testing.T, stdin string, env map[string]string) (context.Context, *testIO) {
	t.Helper()

	tio := &testIO{}
	hc := &HandlerContext{
		Stdin:  strings.NewReader(stdin),
		Stdout: &tio.stdout,
		Stderr: &tio.stderr,
		Dir:    t.TempDir(),
		LookupEnv: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
		Environ: func() []string {
			list := make([]string, 0, len(env))
			for k, v := range env {
				list = append(list, k+"="+v)
			}
			slices.Sort(list)
			return list
		},
	}
	return WithHandlerContext(context.Background(), hc), tio
}

func TestEnv(t *testing.T) {
	t.Parallel()

	ctx, tio := newTestContext(t, "", map[string]string{"PORT": "3000", "DATABASE_URL": "postgres://db"})

	if err := newEnvCommand().Run(ctx, []string{"env"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "DATABASE_URL=postgres://db\nPORT=3000\n"
	if got := tio.stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	err := newEnvCommand().Run(ctx, []string{"env", "ls"})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Run(env ls) error = %v, want ErrUnsupported", err)
	}
}

func TestPrintenv(t *testing.T) {
	t.Parallel()

	env := map[string]string{"PORT": "3000", "RACK_ENV": "production"}

	tests := []struct {
		name       string
		args       []string
		wantOut    string
		wantFailed bool
	}{
		{name: "all", args: []string{"printenv"}, wantOut: "PORT=3000\nRACK_ENV=production\n"},
		{name: "selected", args: []string{"printenv", "RACK_ENV", "PORT"}, wantOut: "production\n3000\n"},
		{name: "missing", args: []string{"printenv", "PORT", "MISSING"}, wantOut: "3000\n", wantFailed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, tio := newTestContext(t, "", env)
			err := newPrintenvCommand().Run(ctx, tt.args)
			if (err != nil) != tt.wantFailed {
				t.Fatalf("Run() error = %v, wantFailed %v", err, tt.wantFailed)
			}
			if got := tio.stdout.String(); got != tt.wantOut {
				t.Errorf("stdout = %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func TestCat(t *testing.T) {
	t.Parallel()

	ctx, tio := newTestContext(t, "from stdin\n", nil)
	dir := GetHandlerContext(ctx).Dir
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := newCatCommand().Run(ctx, []string{"cat", "a.txt", "-"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := tio.stdout.String(), "first\nfrom stdin\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	err := newCatCommand().Run(ctx, []string{"cat", "missing.txt"})
	if err == nil || !strings.HasPrefix(err.Error(), "cat: ") {
		t.Errorf("Run(missing) error = %v, want cat-prefixed error", err)
	}
}

func TestHead(t *testing.T) {
	t.Parallel()

	ctx, tio := newTestContext(t, "1\n2\n3\n4\n", nil)

	if err := newHeadCommand().Run(ctx, []string{"head", "-n", "2"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := tio.stdout.String(), "1\n2\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestBasenameAndDirname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  Command
		args []string
		want string
	}{
		{name: "basename", cmd: newBasenameCommand(), args: []string{"basename", "/app/bin/web"}, want: "web\n"},
		{name: "basename suffix", cmd: newBasenameCommand(), args: []string{"basename", "config/app.rb", ".rb"}, want: "app\n"},
		{name: "basename suffix equals name", cmd: newBasenameCommand(), args: []string{"basename", "x/.rb", ".rb"}, want: ".rb\n"},
		{name: "dirname", cmd: newDirnameCommand(), args: []string{"dirname", "/app/bin/web", "Procfile"}, want: "/app/bin\n.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, tio := newTestContext(t, "", nil)
			if err := tt.cmd.Run(ctx, tt.args); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := tio.stdout.String(); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}

	ctx, _ := newTestContext(t, "", nil)
	for _, cmd := range []Command{newBasenameCommand(), newDirnameCommand()} {
		if err := cmd.Run(ctx, []string{cmd.Name()}); !errors.Is(err, errMissingOperand) {
			t.Errorf("%s without operands: error = %v, want errMissingOperand", cmd.Name(), err)
		}
	}
}
