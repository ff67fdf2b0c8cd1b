package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/reqresolve/pkg/buildinfo"
	"github.com/matzehuels/reqresolve/pkg/cache"
	"github.com/matzehuels/reqresolve/pkg/integrations"
)

func fakePyPI(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		switch r.URL.Path {
		case "/flask/json":
			json.NewEncoder(w).Encode(projectResponse{
				Info: apiInfo{Name: "Flask", Version: "2.3.3"},
				Releases: map[string][]releaseFile{
					"2.3.3":  {{Filename: "flask-2.3.3.tar.gz"}},
					"0.12":   {},
					"2.0.0":  {{Filename: "flask-2.0.0.tar.gz"}},
					"3.0rc1": {},
				},
			})
		case "/flask/2.3.3/json":
			json.NewEncoder(w).Encode(releaseResponse{Info: apiInfo{
				Name:         "Flask",
				Version:      "2.3.3",
				RequiresDist: []string{"Werkzeug>=2.3.7", "click>=8.1.3", `asgiref>=3.2; extra == "async"`},
			}})
		case "/flask/0.12/json":
			w.Write([]byte(`{"info":{"name":"Flask","version":"0.12","requires_dist":null}}`))
		case "/broken/json":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c, time.Hour)
	client.SetBaseURL(serverURL)
	client.SetRetry(2, time.Millisecond)
	return client
}

func TestClientVersions(t *testing.T) {
	server := fakePyPI(t, nil)
	defer server.Close()

	c := testClient(t, server.URL)

	got, err := c.Versions(context.Background(), "Flask")
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	want := []string{"0.12", "2.0.0", "2.3.3", "3.0rc1"}
	if !slices.Equal(got, want) {
		t.Errorf("Versions() = %v, want %v", got, want)
	}
}

func TestClientDependencies(t *testing.T) {
	server := fakePyPI(t, nil)
	defer server.Close()

	c := testClient(t, server.URL)

	got, err := c.Dependencies(context.Background(), "flask", "2.3.3")
	if err != nil {
		t.Fatalf("Dependencies failed: %v", err)
	}
	if len(got) != 3 || got[2] != `asgiref>=3.2; extra == "async"` {
		t.Errorf("Dependencies() = %q", got)
	}

	none, err := c.Dependencies(context.Background(), "flask", "0.12")
	if err != nil {
		t.Fatalf("Dependencies failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("null requires_dist should yield empty slice, got %#v", none)
	}
}

func TestClientNotFound(t *testing.T) {
	server := fakePyPI(t, nil)
	defer server.Close()

	c := testClient(t, server.URL)
	ctx := context.Background()

	if _, err := c.Versions(ctx, "missing-pkg"); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Versions() error = %v, want ErrNotFound", err)
	}
	if _, err := c.Dependencies(ctx, "flask", "9.9"); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Dependencies() error = %v, want ErrNotFound", err)
	}
}

func TestClientServerError(t *testing.T) {
	var hits atomic.Int32
	server := fakePyPI(t, &hits)
	defer server.Close()

	c := testClient(t, server.URL)

	_, err := c.Versions(context.Background(), "broken")
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("Versions() error = %v, want ErrNetwork", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2 attempts", hits.Load())
	}
}

func TestClientCaching(t *testing.T) {
	var hits atomic.Int32
	server := fakePyPI(t, &hits)
	defer server.Close()

	c := testClient(t, server.URL)
	ctx := context.Background()

	for range 3 {
		if _, err := c.Versions(ctx, "flask"); err != nil {
			t.Fatal(err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("cached lookups hit server %d times, want 1", hits.Load())
	}

	c.SetRefresh(true)
	if _, err := c.Versions(ctx, "flask"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("refresh should bypass cache, hits = %d", hits.Load())
	}
}

func TestSetBaseURL(t *testing.T) {
	c := NewClient(nil, time.Hour)
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("default base URL = %q", c.BaseURL())
	}
	c.SetBaseURL("https://mirror.example/pypi/")
	if c.BaseURL() != "https://mirror.example/pypi" {
		t.Errorf("trailing slash should be trimmed, got %q", c.BaseURL())
	}
	c.SetBaseURL("")
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("empty base URL should restore default, got %q", c.BaseURL())
	}
}

func TestClientSendsUserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"releases":{}}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	versions, err := c.Versions(context.Background(), "empty")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 0 {
		t.Errorf("Versions() = %v, want none", versions)
	}
	if agent != buildinfo.UserAgent() {
		t.Errorf("User-Agent = %q, want %q", agent, buildinfo.UserAgent())
	}
}

func TestCacheKeyIsScopedToRegistry(t *testing.T) {
	c := NewClient(nil, time.Hour)
	if got := c.cacheKey("flask"); got != "flask" {
		t.Errorf("default registry key = %q", got)
	}
	c.SetBaseURL("https://mirror.example/pypi")
	if got := c.cacheKey("flask"); got != "https://mirror.example/pypi|flask" {
		t.Errorf("mirror key = %q", got)
	}
}
