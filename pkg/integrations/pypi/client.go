package pypi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/reqresolve/pkg/buildinfo"
	"github.com/matzehuels/reqresolve/pkg/cache"
	"github.com/matzehuels/reqresolve/pkg/integrations"
)

// DefaultBaseURL is the PyPI JSON API root.
const DefaultBaseURL = "https://pypi.org/pypi"

// Client provides access to the PyPI JSON API. It handles HTTP requests
// with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	refresh bool
}

// NewClient creates a PyPI client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (nil or [cache.NullCache] disables caching)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client: integrations.NewClient(backend, "pypi:", cacheTTL, map[string]string{
			"Accept":     "application/json",
			"User-Agent": buildinfo.UserAgent(),
		}),
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL points the client at a PyPI-compatible mirror. An empty value
// restores [DefaultBaseURL].
func (c *Client) SetBaseURL(u string) {
	if u == "" {
		u = DefaultBaseURL
	}
	c.baseURL = strings.TrimRight(u, "/")
}

// BaseURL returns the registry root in use.
func (c *Client) BaseURL() string { return c.baseURL }

// SetRefresh makes every lookup bypass the cache and overwrite it with the
// fresh response.
func (c *Client) SetRefresh(refresh bool) { c.refresh = refresh }

// Versions returns every release string PyPI lists for the project, in
// ascending byte order. Release strings are returned verbatim; filtering
// non-numeric ones is left to the selector.
//
// Returns [integrations.ErrNotFound] if the project does not exist and
// [integrations.ErrNetwork] for transport failures.
func (c *Client) Versions(ctx context.Context, name string) ([]string, error) {
	name = integrations.NormalizePkgName(name)

	var versions []string
	err := c.Cached(ctx, c.cacheKey(name), c.refresh, &versions, func() error {
		return c.fetchVersions(ctx, name, &versions)
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// Dependencies returns the raw requires_dist lines of one release. A
// release without requires_dist yields an empty, non-nil slice.
func (c *Client) Dependencies(ctx context.Context, name, version string) ([]string, error) {
	name = integrations.NormalizePkgName(name)

	var lines []string
	err := c.Cached(ctx, c.cacheKey(name+"@"+version), c.refresh, &lines, func() error {
		return c.fetchDependencies(ctx, name, version, &lines)
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// cacheKey scopes key to the registry so mirrors do not share entries with
// pypi.org.
func (c *Client) cacheKey(key string) string {
	if c.baseURL == DefaultBaseURL {
		return key
	}
	return c.baseURL + "|" + key
}

func (c *Client) fetchVersions(ctx context.Context, name string, out *[]string) error {
	var data projectResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(name)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, name)
		}
		return err
	}

	versions := make([]string, 0, len(data.Releases))
	for v := range data.Releases {
		versions = append(versions, v)
	}
	slices.Sort(versions)
	*out = versions
	return nil
}

func (c *Client) fetchDependencies(ctx context.Context, name, version string, out *[]string) error {
	var data releaseResponse
	u := fmt.Sprintf("%s/%s/%s/json", c.baseURL, url.PathEscape(name), url.PathEscape(version))
	if err := c.Get(ctx, u, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi release %s %s", err, name, version)
		}
		return err
	}

	lines := data.Info.RequiresDist
	if lines == nil {
		lines = []string{}
	}
	*out = lines
	return nil
}

type projectResponse struct {
	Info     apiInfo                  `json:"info"`
	Releases map[string][]releaseFile `json:"releases"`
}

type releaseFile struct {
	Filename string `json:"filename"`
	Yanked   bool   `json:"yanked"`
}

type releaseResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	RequiresDist []string `json:"requires_dist"`
}
