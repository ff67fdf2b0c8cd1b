// Package cli implements the reqresolve command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reqresolve/pkg/buildinfo"
	"github.com/matzehuels/reqresolve/pkg/cache"
	"github.com/matzehuels/reqresolve/pkg/config"
	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/integrations/pypi"
	"github.com/matzehuels/reqresolve/pkg/resolve"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "reqresolve"

	// cachePrefix namespaces shared cache backends.
	cachePrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var _ resolve.Registry = (*pypi.Client)(nil)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level resolver, cache
// and HTTP events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
// Given a requirement and no subcommand, the root resolves it.
func (c *CLI) RootCommand() *cobra.Command {
	var flags resolveFlags

	root := &cobra.Command{
		Use:   appName + " <requirement>",
		Short: "reqresolve resolves a Python requirement against PyPI",
		Long: `reqresolve expands a PEP 508 style requirement such as "requests[socks]>=2.31"
into the full map of package versions it pulls in, querying the PyPI JSON API.`,
		Example:      `  reqresolve "flask>=2.0"` + "\n" + `  reqresolve resolve "requests[socks]" --format json`,
		Version:      buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          requirementArg,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd, args[0], flags)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/reqresolve/config.toml)")
	flags.register(root)

	// Register all subcommands
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// requirementArg accepts exactly one requirement. Usage is silenced for
// runtime failures, so argument errors carry it themselves.
func requirementArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "%v\n\n%s", err, strings.TrimRight(cmd.UsageString(), "\n"))
	}
	return nil
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runtime Factories
// =============================================================================

// newCache builds the configured response cache. The file backend falls
// back to no caching when no cache directory can be determined.
func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cachePrefix,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open redis cache")
		}
		return c, nil
	case config.BackendMongo:
		c, err := cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open mongo cache")
		}
		return c, nil
	default:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// fileCacheDir returns the file backend directory (~/.cache/reqresolve/ by default).
func fileCacheDir(cfg config.Cache) (string, error) {
	if cfg.Dir != "" {
		return filepath.Clean(cfg.Dir), nil
	}
	return config.CacheDir()
}

// registryOptions are per-invocation registry settings that override the config.
type registryOptions struct {
	url     string
	noCache bool
	refresh bool
}

// newRegistry builds a PyPI client on top of the configured cache. The
// caller owns the returned cache and must close it.
func (c *CLI) newRegistry(ctx context.Context, opts registryOptions) (*pypi.Client, cache.Cache, error) {
	backend, err := newCache(ctx, c.cfg.Cache, opts.noCache)
	if err != nil {
		return nil, nil, err
	}

	client := pypi.NewClient(backend, c.cfg.Registry.CacheTTL)
	client.SetTimeout(c.cfg.Registry.Timeout)
	client.SetRefresh(opts.refresh)

	u := c.cfg.Registry.URL
	if opts.url != "" {
		if err := errors.ValidateURL(opts.url); err != nil {
			_ = backend.Close()
			return nil, nil, err
		}
		u = opts.url
	}
	client.SetBaseURL(u)

	c.Logger.Debug("registry ready", "url", client.BaseURL(), "cache", c.cfg.Cache.Backend, "no_cache", opts.noCache)
	return client, backend, nil
}

// resolveOptions maps the [resolve] config section onto resolver options.
func (c *CLI) resolveOptions() resolve.Options {
	return resolve.Options{
		MaxDepth:            c.cfg.Resolve.MaxDepth,
		MaxNodes:            c.cfg.Resolve.MaxNodes,
		DisableRequestDedup: !c.cfg.Resolve.RequestDedup,
		Logger:              c.Logger,
	}
}
