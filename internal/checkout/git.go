// SPDX-License-Identifier: MPL-2.0

package checkout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNoRemote is returned by RemoteURL when the named remote does not exist.
var ErrNoRemote = errors.New("git remote not found")

type (
	// Git is the set of source-control operations surrogate needs.
	Git interface {
		// HasCommit reports whether ref resolves to a commit in the local object store.
		HasCommit(ctx context.Context, ref string) (bool, error)
		// Fetch fetches from a remote URL.
		Fetch(ctx context.Context, remoteURL string) error
		// Checkout checks ref out into the working tree.
		Checkout(ctx context.Context, ref string) error
		// RemoteURL returns the URL of the named remote.
		RemoteURL(ctx context.Context, name string) (string, error)
	}

	// Repo runs the git binary against a working directory.
	Repo struct {
		// Binary is the git executable (default "git").
		Binary string
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Progress receives fetch/checkout output (default os.Stderr).
		Progress io.Writer
	}

	// GitError describes a failed git invocation.
	GitError struct {
		Args     []string
		ExitCode int
		Stderr   string
		Err      error
	}
)

// Error implements the error interface.
func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s", strings.Join(e.Args, " "))
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(": exit status %d", e.ExitCode)
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the underlying exec error.
func (e *GitError) Unwrap() error { return e.Err }

// NewRepo creates a Repo for dir using the given git binary.
func NewRepo(binary, dir string) *Repo {
	if binary == "" {
		binary = "git"
	}
	return &Repo{Binary: binary, Dir: dir, Progress: os.Stderr}
}

// HasCommit runs `git rev-parse --quiet --verify <ref>^{commit}`. Exit
// status 1 means the object is absent; anything else is an error.
func (r *Repo) HasCommit(ctx context.Context, ref string) (bool, error) {
	_, err := r.output(ctx, "rev-parse", "--quiet", "--verify", ref+"^{commit}")
	if err == nil {
		return true, nil
	}
	var gitErr *GitError
	if errors.As(err, &gitErr) && gitErr.ExitCode == 1 {
		return false, nil
	}
	return false, err
}

// Fetch runs `git fetch <remoteURL>`, streaming progress.
func (r *Repo) Fetch(ctx context.Context, remoteURL string) error {
	return r.stream(ctx, "fetch", remoteURL)
}

// Checkout runs `git checkout <ref> --`, streaming progress.
func (r *Repo) Checkout(ctx context.Context, ref string) error {
	return r.stream(ctx, "checkout", ref, "--")
}

// RemoteURL runs `git remote get-url <name>`.
func (r *Repo) RemoteURL(ctx context.Context, name string) (string, error) {
	out, err := r.output(ctx, "remote", "get-url", name)
	if err != nil {
		var gitErr *GitError
		if errors.As(err, &gitErr) && gitErr.ExitCode > 0 {
			return "", fmt.Errorf("%w: %s", ErrNoRemote, name)
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (r *Repo) output(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", newGitError(args, err, stderr.String())
	}
	return stdout.String(), nil
}

func (r *Repo) stream(ctx context.Context, args ...string) error {
	progress := r.Progress
	if progress == nil {
		progress = io.Discard
	}
	var stderr bytes.Buffer
	cmd := r.command(ctx, args...)
	cmd.Stdout = progress
	cmd.Stderr = io.MultiWriter(progress, &stderr)
	if err := cmd.Run(); err != nil {
		return newGitError(args, err, stderr.String())
	}
	return nil
}

func (r *Repo) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = r.Dir
	return cmd
}

func newGitError(args []string, err error, stderr string) *GitError {
	ge := &GitError{Args: args, Stderr: strings.TrimSpace(stderr), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ge.ExitCode = exitErr.ExitCode()
	}
	return ge
}
