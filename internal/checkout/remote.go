// SPDX-License-Identifier: MPL-2.0

package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrUnknownRemote is returned when a remote URL does not point at an app repository.
var ErrUnknownRemote = errors.New("remote does not point at an app repository")

// remotePattern matches the https and ssh forms of an app git remote:
//
//	https://git.heroku.com/<app>.git
//	git@heroku.com:<app>.git
//	ssh://git@heroku.com/<app>.git
var remotePattern = regexp.MustCompile(`^(?:https://git\.heroku\.com/|git@heroku\.com:|ssh://git@heroku\.com/)([a-z0-9][a-z0-9-]*)(?:\.git)?/?$`)

// AppFromRemote extracts the app name from a git remote URL.
func AppFromRemote(url string) (string, bool) {
	m := remotePattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// DetectApp reads the named remote from git and derives the app name from it.
func DetectApp(ctx context.Context, git Git, remote string) (string, error) {
	url, err := git.RemoteURL(ctx, remote)
	if err != nil {
		return "", err
	}
	app, ok := AppFromRemote(url)
	if !ok {
		return "", fmt.Errorf("%w: %s = %s", ErrUnknownRemote, remote, url)
	}
	return app, nil
}
