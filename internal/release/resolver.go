// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"

	"github.com/surrogate/surrogate/internal/platformapi"

	"golang.org/x/sync/errgroup"
)

// ErrNoApp is returned when Resolve is called without an application.
var ErrNoApp = errors.New("no app specified")

// API is the subset of the platform API the resolver depends on.
// *platformapi.Client satisfies it.
type API interface {
	ListReleases(ctx context.Context, app string) ([]platformapi.Release, error)
	GetRelease(ctx context.Context, app, releaseID string) (*platformapi.Release, error)
	GetConfigVars(ctx context.Context, app, releaseID string) (map[string]any, error)
	GetSlug(ctx context.Context, app, slugID string) (*platformapi.Slug, error)
}

// Resolver turns an app and optional release identifier into a Release.
type Resolver struct {
	api API
}

// NewResolver creates a Resolver backed by api.
func NewResolver(api API) *Resolver {
	return &Resolver{api: api}
}

// Resolve fetches the release named by releaseID, or the most recent release
// of app when releaseID is empty. Configuration variables and the process
// type table are fetched concurrently once the release is known; both
// fetches run to completion and the first failure is returned. No partial
// Release is ever returned.
func (r *Resolver) Resolve(ctx context.Context, app, releaseID string) (*Release, error) {
	if app == "" {
		return nil, ErrNoApp
	}

	meta, err := r.lookup(ctx, app, releaseID)
	if err != nil {
		return nil, err
	}

	rel := &Release{
		ID:      meta.ID,
		Version: meta.Version,
		Commit:  meta.Commit,
	}
	if meta.Slug != nil {
		rel.SlugID = meta.Slug.ID
	}

	slog.Debug("resolved release", "app", app, "release", rel.ID, "version", rel.Version, "slug", rel.SlugID)

	var (
		vars map[string]any
		slug *platformapi.Slug
		// Plain Group: one failed fetch does not cancel the other.
		g errgroup.Group
	)

	g.Go(func() error {
		v, fetchErr := r.api.GetConfigVars(ctx, app, rel.ID)
		if fetchErr != nil {
			return fmt.Errorf("fetching config vars of release %s: %w", rel.Label(), fetchErr)
		}
		vars = v
		return nil
	})

	if rel.SlugID != "" {
		g.Go(func() error {
			s, fetchErr := r.api.GetSlug(ctx, app, rel.SlugID)
			if fetchErr != nil {
				return fmt.Errorf("fetching process types of slug %s: %w", rel.SlugID, fetchErr)
			}
			slug = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rel.env = coerceEnv(vars)
	rel.processTypes = map[string]string{}
	if slug != nil {
		maps.Copy(rel.processTypes, slug.ProcessTypes)
		if rel.Commit == "" {
			rel.Commit = slug.Commit
		}
	}

	return rel, nil
}

// lookup fetches release metadata: the named release, or the last element
// of the release collection.
func (r *Resolver) lookup(ctx context.Context, app, releaseID string) (*platformapi.Release, error) {
	if releaseID != "" {
		meta, err := r.api.GetRelease(ctx, app, releaseID)
		if err != nil {
			return nil, fmt.Errorf("fetching release %s of %s: %w", releaseID, app, err)
		}
		return meta, nil
	}

	releases, err := r.api.ListReleases(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("listing releases of %s: %w", app, err)
	}
	if len(releases) == 0 {
		return nil, &platformapi.NotFoundError{
			Path:    "/apps/" + url.PathEscape(app) + "/releases",
			Message: "app has no releases",
		}
	}

	latest := releases[len(releases)-1]
	return &latest, nil
}
