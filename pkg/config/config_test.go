package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/reqresolve/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvRedisAddr, "")
	t.Setenv(EnvMongoURI, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvRedisAddr, "")
	path := writeConfig(t, `
[registry]
url = "https://mirror.example/pypi"
timeout = "3s"

[cache]
backend = "redis"
redis_addr = "cache:6379"

[resolve]
max_nodes = 100
request_dedup = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Registry.URL != "https://mirror.example/pypi" || cfg.Registry.Timeout != 3*time.Second {
		t.Errorf("Registry = %+v", cfg.Registry)
	}
	if cfg.Registry.CacheTTL != 24*time.Hour {
		t.Errorf("unset keys should keep defaults, CacheTTL = %v", cfg.Registry.CacheTTL)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Resolve.MaxNodes != 100 || cfg.Resolve.RequestDedup || cfg.Resolve.MaxDepth != 50 {
		t.Errorf("Resolve = %+v", cfg.Resolve)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvRedisAddr, "redis.internal:6380")
	t.Setenv(EnvMongoURI, "mongodb://db:27017")
	path := writeConfig(t, "[cache]\nredis_addr = \"file:6379\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.RedisAddr != "redis.internal:6380" || cfg.Cache.MongoURI != "mongodb://db:27017" {
		t.Errorf("env should override file, got %+v", cfg.Cache)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[registry\nurl ="},
		{"unknown key", "[resolve]\nmax_width = 3\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad url", "[registry]\nurl = \"ftp://pypi\"\n"},
		{"zero timeout", "[registry]\ntimeout = \"0s\"\n"},
		{"negative limit", "[resolve]\nmax_depth = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", appName, "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	path, _ = DefaultPath()
	if want := filepath.Join(home, ".config", appName, "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	dir, _ = CacheDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	var decoded Config
	if _, err := toml.Decode(buf.String(), &decoded); err != nil {
		t.Fatalf("encoded config does not decode: %v\n%s", err, buf.String())
	}
	if decoded != Default() {
		t.Errorf("round trip = %+v, want %+v", decoded, Default())
	}
}
