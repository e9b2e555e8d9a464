// SPDX-License-Identifier: MPL-2.0

package platformapi

import (
	"context"
	"fmt"
	"net/url"
)

type (
	// Release is the JSON wire format for a release resource.
	Release struct {
		ID          string   `json:"id"`
		Version     int      `json:"version"`
		Description string   `json:"description"`
		Commit      string   `json:"commit"`
		Slug        *SlugRef `json:"slug"`
	}

	// SlugRef is the slug reference embedded in a release. It is nil for
	// releases that do not carry a build (config-only releases on new apps).
	SlugRef struct {
		ID string `json:"id"`
	}

	// Slug is the JSON wire format for a slug resource.
	Slug struct {
		ID           string            `json:"id"`
		Commit       string            `json:"commit"`
		ProcessTypes map[string]string `json:"process_types"`
	}

	// App is the JSON wire format for an app resource.
	App struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		GitURL string `json:"git_url"`
	}
)

// ListReleases fetches the release collection of app, most recent last.
func (c *Client) ListReleases(ctx context.Context, app string) ([]Release, error) {
	var releases []Release
	if err := c.Get(ctx, fmt.Sprintf("/apps/%s/releases", url.PathEscape(app)), &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

// GetRelease fetches a single release by id or version number.
func (c *Client) GetRelease(ctx context.Context, app, releaseID string) (*Release, error) {
	var r Release
	path := fmt.Sprintf("/apps/%s/releases/%s", url.PathEscape(app), url.PathEscape(releaseID))
	if err := c.Get(ctx, path, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetConfigVars fetches the configuration variables recorded for a release.
// Values keep their JSON types (strings, json.Number, bools, nil); callers
// decide how to render them.
func (c *Client) GetConfigVars(ctx context.Context, app, releaseID string) (map[string]any, error) {
	vars := map[string]any{}
	path := fmt.Sprintf("/apps/%s/releases/%s/config-vars", url.PathEscape(app), url.PathEscape(releaseID))
	if err := c.Get(ctx, path, &vars); err != nil {
		return nil, err
	}
	return vars, nil
}

// GetSlug fetches a slug. A missing process_types field decodes to an empty table.
func (c *Client) GetSlug(ctx context.Context, app, slugID string) (*Slug, error) {
	var s Slug
	path := fmt.Sprintf("/apps/%s/slugs/%s", url.PathEscape(app), url.PathEscape(slugID))
	if err := c.Get(ctx, path, &s); err != nil {
		return nil, err
	}
	if s.ProcessTypes == nil {
		s.ProcessTypes = map[string]string{}
	}
	return &s, nil
}

// GetApp fetches app metadata, including its git remote URL.
func (c *Client) GetApp(ctx context.Context, app string) (*App, error) {
	var a App
	if err := c.Get(ctx, "/apps/"+url.PathEscape(app), &a); err != nil {
		return nil, err
	}
	return &a, nil
}
