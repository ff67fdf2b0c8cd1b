// Package config loads reqresolve settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/reqresolve/config.toml, falling
// back to ~/.config/reqresolve/config.toml. A missing default file is not an
// error; every setting has a default. Environment variables override the cache
// connection strings so secrets can stay out of the file.
//
// Example file:
//
//	[registry]
//	url = "https://pypi.org/pypi"
//	timeout = "10s"
//	cache_ttl = "24h"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[resolve]
//	max_depth = 50
//	max_nodes = 5000
//	request_dedup = true
//
//	[server]
//	addr = ":8080"
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/integrations/pypi"
	"github.com/matzehuels/reqresolve/pkg/resolve"
)

const appName = "reqresolve"

// Environment variables that override file settings.
const (
	EnvRedisAddr = "REQRESOLVE_REDIS_ADDR"
	EnvMongoURI  = "REQRESOLVE_MONGO_URI"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

var backends = []string{BackendFile, BackendRedis, BackendMongo, BackendNone}

// Config is the full settings tree.
type Config struct {
	Registry Registry `toml:"registry"`
	Cache    Cache    `toml:"cache"`
	Resolve  Resolve  `toml:"resolve"`
	Server   Server   `toml:"server"`
}

// Registry configures the PyPI client.
type Registry struct {
	URL      string        `toml:"url"`
	Timeout  time.Duration `toml:"timeout"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// Cache selects and configures the HTTP response cache.
type Cache struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"` // file backend; empty means the XDG cache dir
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Resolve holds resolver limits.
type Resolve struct {
	MaxDepth     int  `toml:"max_depth"`
	MaxNodes     int  `toml:"max_nodes"`
	RequestDedup bool `toml:"request_dedup"`
}

// Server configures `reqresolve serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Registry: Registry{
			URL:      pypi.DefaultBaseURL,
			Timeout:  10 * time.Second,
			CacheTTL: 24 * time.Hour,
		},
		Cache: Cache{
			Backend:         BackendFile,
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "http_cache",
		},
		Resolve: Resolve{
			MaxDepth:     resolve.DefaultMaxDepth,
			MaxNodes:     resolve.DefaultMaxNodes,
			RequestDedup: true,
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the default file cache directory (~/.cache/reqresolve/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file at path over the defaults, then applies
// environment overrides and validates the result. An empty path means
// [DefaultPath], which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, cfg.Validate()
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(path, data); err != nil {
			return Config{}, err
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(path string, data []byte) error {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Cache.MongoURI = v
	}
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.Registry.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "registry.url")
	}
	if c.Registry.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "registry.timeout must be positive")
	}
	if c.Registry.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "registry.cache_ttl must not be negative")
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of %s",
			c.Cache.Backend, strings.Join(backends, ", "))
	}
	if c.Resolve.MaxDepth < 0 || c.Resolve.MaxNodes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "resolve limits must not be negative")
	}
	return nil
}

// Encode writes the config as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
