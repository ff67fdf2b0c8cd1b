package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/reqresolve/pkg/cache"
	"github.com/matzehuels/reqresolve/pkg/observability"
)

func newTestClient(t *testing.T, server *httptest.Server, headers map[string]string) *Client {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c, "test:", time.Hour, headers)
	client.SetRetry(3, time.Millisecond)
	if server != nil {
		client.http = server.Client()
	}
	return client
}

func TestNewClient(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()

	headers := map[string]string{"Authorization": "Bearer token"}
	client := NewClient(c, "test:", time.Hour, headers)

	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
	if client.http.Timeout != httpTimeout {
		t.Errorf("default timeout = %v, want %v", client.http.Timeout, httpTimeout)
	}

	client.SetTimeout(3 * time.Second)
	if client.http.Timeout != 3*time.Second {
		t.Errorf("SetTimeout() timeout = %v", client.http.Timeout)
	}
	client.SetTimeout(0)
	if client.http.Timeout != 3*time.Second {
		t.Error("SetTimeout(0) should be ignored")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	if client.cache == nil {
		t.Fatal("NewClient(nil) should fall back to a null cache")
	}
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var gotOverride, gotDefault string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOverride = r.Header.Get("X-Override")
		gotDefault = r.Header.Get("X-Default")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := newTestClient(t, server, map[string]string{"X-Override": "default", "X-Default": "kept"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if gotOverride != "overridden" {
		t.Errorf("override header = %q, want %q", gotOverride, "overridden")
	}
	if gotDefault != "kept" {
		t.Errorf("default header = %q, want %q", gotDefault, "kept")
	}
}

func TestClientGetInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)

	var resp map[string]string
	if err := client.Get(context.Background(), server.URL, &resp); err == nil {
		t.Error("Get() should fail on invalid JSON")
	}
}

func TestClientGetStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		wantIs    error
		retryable bool
	}{
		{"404", http.StatusNotFound, ErrNotFound, false},
		{"429", http.StatusTooManyRequests, ErrNetwork, true},
		{"500", http.StatusInternalServerError, ErrNetwork, true},
		{"403", http.StatusForbidden, ErrNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer server.Close()

			client := newTestClient(t, server, nil)

			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("Get() error = %v, want %v", err, tt.wantIs)
			}
			if cache.IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, !tt.retryable, tt.retryable)
			}
		})
	}
}

func TestClientCachedHit(t *testing.T) {
	client := newTestClient(t, nil, nil)
	ctx := context.Background()

	type payload struct {
		Value string `json:"value"`
	}

	fetchCount := 0
	fetch := func(v *payload) func() error {
		return func() error {
			fetchCount++
			v.Value = "fetched"
			return nil
		}
	}

	var first payload
	if err := client.Cached(ctx, "flask", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}

	var second payload
	if err := client.Cached(ctx, "flask", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1", fetchCount)
	}
	if second.Value != "fetched" {
		t.Errorf("cached value = %q, want %q", second.Value, "fetched")
	}

	var third payload
	if err := client.Cached(ctx, "flask", true, &third, fetch(&third)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 2 {
		t.Errorf("refresh should bypass cache, fetch count = %d", fetchCount)
	}
}

func TestClientCachedRetries(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := newTestClient(t, server, nil)
	ctx := context.Background()

	var resp map[string]string
	err := client.Cached(ctx, "flaky", false, &resp, func() error {
		return client.Get(ctx, server.URL, &resp)
	})
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if hits.Load() != 3 {
		t.Errorf("server hits = %d, want 3", hits.Load())
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client := newTestClient(t, nil, nil)

	fetchCount := 0
	var value string
	err := client.Cached(context.Background(), "missing", false, &value, func() error {
		fetchCount++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v, want ErrNotFound", err)
	}
	if fetchCount != 1 {
		t.Errorf("non-retryable error should not retry, fetch count = %d", fetchCount)
	}
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
	namespace          string
}

func (h *recordingCacheHooks) OnCacheHit(_ context.Context, ns string)  { h.hits++; h.namespace = ns }
func (h *recordingCacheHooks) OnCacheMiss(_ context.Context, ns string) { h.misses++ }
func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int)  { h.sets++ }

func TestClientCachedHooks(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	client := newTestClient(t, nil, nil)
	ctx := context.Background()

	for range 2 {
		var v string
		_ = client.Cached(ctx, "k", false, &v, func() error { v = "x"; return nil })
	}

	if hooks.misses != 1 || hooks.sets != 1 || hooks.hits != 1 {
		t.Errorf("hooks = miss %d set %d hit %d, want 1 each", hooks.misses, hooks.sets, hooks.hits)
	}
	if hooks.namespace != "test" {
		t.Errorf("hook namespace = %q, want %q", hooks.namespace, "test")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		wantErr    bool
		wantType   error
		isRetryErr bool
	}{
		{name: "200 OK", code: 200},
		{name: "404 Not Found", code: 404, wantErr: true, wantType: ErrNotFound},
		{name: "429 Too Many Requests", code: 429, wantErr: true, isRetryErr: true},
		{name: "500 Internal Server Error", code: 500, wantErr: true, isRetryErr: true},
		{name: "502 Bad Gateway", code: 502, wantErr: true, isRetryErr: true},
		{name: "503 Service Unavailable", code: 503, wantErr: true, isRetryErr: true},
		{name: "400 Bad Request", code: 400, wantErr: true},
		{name: "403 Forbidden", code: 403, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.code)

			if !tt.wantErr {
				if err != nil {
					t.Errorf("checkStatus() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("checkStatus() should return error")
			}
			if tt.wantType != nil && !errors.Is(err, tt.wantType) {
				t.Errorf("checkStatus() error = %v, want %v", err, tt.wantType)
			}
			var retryErr *cache.RetryableError
			if errors.As(err, &retryErr) != tt.isRetryErr {
				t.Errorf("checkStatus(%d) retryable = %v, want %v", tt.code, !tt.isRetryErr, tt.isRetryErr)
			}
		})
	}
}

func TestNormalizePkgName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Package", "package"},
		{"underscore to dash", "my_package", "my-package"},
		{"dots and runs", "zope..interface", "zope-interface"},
		{"trim spaces", "  package  ", "package"},
		{"combined", "  My_Package  ", "my-package"},
		{"empty", "", ""},
		{"already normalized", "my-package", "my-package"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePkgName(tt.input); got != tt.want {
				t.Errorf("NormalizePkgName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
