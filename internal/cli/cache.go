package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reqresolve/pkg/cache"
	"github.com/matzehuels/reqresolve/pkg/config"
	"github.com/matzehuels/reqresolve/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached registry responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if c.cfg.Cache.Backend != config.BackendFile {
				return errors.New(errors.ErrCodeInvalidInput,
					"cache clear only supports the file backend; %s entries expire after registry.cache_ttl", c.cfg.Cache.Backend)
			}

			dir, err := fileCacheDir(c.cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo(w, "Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess(w, "Cleared %d cached entries", count)
			printDetail(w, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch c.cfg.Cache.Backend {
			case config.BackendRedis:
				fmt.Fprintf(w, "redis://%s/%d\n", c.cfg.Cache.RedisAddr, c.cfg.Cache.RedisDB)
			case config.BackendMongo:
				fmt.Fprintf(w, "%s (%s.%s)\n", c.cfg.Cache.MongoURI, c.cfg.Cache.MongoDatabase, c.cfg.Cache.MongoCollection)
			case config.BackendNone:
				fmt.Fprintln(w, "caching disabled")
			default:
				dir, err := fileCacheDir(c.cfg.Cache)
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(w, dir)
			}
			return nil
		},
	}
}
