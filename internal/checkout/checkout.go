// SPDX-License-Identifier: MPL-2.0

package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/surrogate/surrogate/internal/platformapi"
)

var (
	// ErrNoCommit is returned when the release does not record a commit.
	ErrNoCommit = errors.New("release has no commit to check out")

	// ErrNoGitURL is returned when the app metadata carries no git remote.
	ErrNoGitURL = errors.New("app has no git url")

	// ErrCheckoutFailed is the sentinel error wrapped by CheckoutError.
	ErrCheckoutFailed = errors.New("checkout failed")
)

type (
	// AppInfo looks up application metadata. *platformapi.Client satisfies it.
	AppInfo interface {
		GetApp(ctx context.Context, app string) (*platformapi.App, error)
	}

	// Synchronizer checks out release commits in a local repository.
	Synchronizer struct {
		git  Git
		apps AppInfo
	}

	// CheckoutError is returned when the final checkout step fails. The
	// working tree is left as git left it.
	CheckoutError struct {
		Commit string
		Err    error
	}
)

// Error implements the error interface.
func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checking out %s: %v", e.Commit, e.Err)
}

// Unwrap returns the sentinel and the git failure.
func (e *CheckoutError) Unwrap() []error { return []error{ErrCheckoutFailed, e.Err} }

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(git Git, apps AppInfo) *Synchronizer {
	return &Synchronizer{git: git, apps: apps}
}

// Sync makes commit available locally and checks it out. When the commit is
// missing, the app's git URL is looked up and fetched first.
func (s *Synchronizer) Sync(ctx context.Context, app, commit string) error {
	if commit == "" {
		return ErrNoCommit
	}

	present, err := s.git.HasCommit(ctx, commit)
	if err != nil {
		return fmt.Errorf("looking up commit %s: %w", commit, err)
	}

	if !present {
		info, err := s.apps.GetApp(ctx, app)
		if err != nil {
			return fmt.Errorf("looking up git url of %s: %w", app, err)
		}
		if info.GitURL == "" {
			return fmt.Errorf("%w: %s", ErrNoGitURL, app)
		}

		slog.Info("fetching release commit", "commit", commit, "remote", info.GitURL)
		if err := s.git.Fetch(ctx, info.GitURL); err != nil {
			return fmt.Errorf("fetching %s: %w", info.GitURL, err)
		}
	}

	if err := s.git.Checkout(ctx, commit); err != nil {
		return &CheckoutError{Commit: commit, Err: err}
	}
	return nil
}
