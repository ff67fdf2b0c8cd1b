package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/reqresolve/internal/server"
	"github.com/matzehuels/reqresolve/pkg/resolve"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		registry string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver over HTTP",
		Long: `Serve the resolver over HTTP.

  GET /healthz                          build information
  GET /v1/resolve?requirement=<spec>    resolved map as JSON (format=toml|dot|svg also accepted)`,
		Example: `  reqresolve serve --addr :9000
  curl 'localhost:9000/v1/resolve?requirement=flask>=2.0'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			reg, backend, err := c.newRegistry(ctx, registryOptions{url: registry, noCache: noCache})
			if err != nil {
				return err
			}
			defer backend.Close()

			opts := c.resolveOptions()
			opts.Logger = logger.WithPrefix("resolve")
			srv := server.New(resolve.New(reg, opts), logger.WithPrefix("http"))

			w := cmd.OutOrStdout()
			printSuccess(w, "Listening on %s", addr)
			printKeyValue(w, "Registry", reg.BaseURL())
			if noCache {
				printKeyValue(w, "Cache", "disabled")
			} else {
				printKeyValue(w, "Cache", c.cfg.Cache.Backend)
			}
			printNewline(w)

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config: :8080)")
	cmd.Flags().StringVar(&registry, "registry", "", "PyPI JSON API base URL (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the registry response cache")
	return cmd
}
