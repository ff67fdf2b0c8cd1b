package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/export"
	"github.com/matzehuels/reqresolve/pkg/observability"
	"github.com/matzehuels/reqresolve/pkg/requirement"
	"github.com/matzehuels/reqresolve/pkg/resolve"
)

// resolveFlags holds the flags shared by the root and resolve commands.
type resolveFlags struct {
	format      string
	output      string
	maxDepth    int
	maxNodes    int
	refresh     bool
	noCache     bool
	noDedup     bool
	interactive bool
	registry    string
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.format, "format", "f", string(export.FormatText), "output format: text, json, toml, dot, svg")
	fs.StringVarP(&f.output, "output", "o", "", "write output to file instead of stdout")
	fs.IntVar(&f.maxDepth, "max-depth", resolve.DefaultMaxDepth, "maximum dependency depth to expand")
	fs.IntVar(&f.maxNodes, "max-nodes", resolve.DefaultMaxNodes, "maximum number of resolved packages")
	fs.BoolVar(&f.refresh, "refresh", false, "bypass cached registry responses and refetch")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the registry response cache")
	fs.BoolVar(&f.noDedup, "no-request-dedup", false, "query the registry for every request, even repeated ones")
	fs.BoolVarP(&f.interactive, "interactive", "i", false, "browse the result in an interactive view")
	fs.StringVar(&f.registry, "registry", "", "PyPI JSON API base URL (default from config)")
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve <requirement>",
		Short: "Resolve a requirement into a map of package versions",
		Long: `Resolve a requirement and every dependency it pulls in.

For each package the highest release satisfying the constraint is chosen and
its declared dependencies are expanded breadth first. Dependencies gated on an
extra are only followed when that extra was requested.`,
		Example: `  reqresolve resolve "requests[socks]>=2.31"
  reqresolve resolve flask --format json -o flask.json
  reqresolve resolve "apache-airflow==2.9.0" --max-depth 3 --format svg -o airflow.svg
  reqresolve resolve fastapi --interactive`,
		Args: requirementArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd, args[0], flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// runResolve resolves raw and writes the result. Flags that were set
// explicitly win over the config file.
func (c *CLI) runResolve(cmd *cobra.Command, raw string, flags resolveFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, err := export.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	spec, err := parseRoot(raw)
	if err != nil {
		return err
	}

	opts := c.resolveOptions()
	opts.Logger = logger
	if cmd.Flags().Changed("max-depth") {
		opts.MaxDepth = flags.maxDepth
	}
	if cmd.Flags().Changed("max-nodes") {
		opts.MaxNodes = flags.maxNodes
	}
	if flags.noDedup {
		opts.DisableRequestDedup = true
	}

	reg, backend, err := c.newRegistry(ctx, registryOptions{
		url:     flags.registry,
		noCache: flags.noCache,
		refresh: flags.refresh,
	})
	if err != nil {
		return err
	}
	defer backend.Close()

	logger.Info("Resolving", "requirement", spec.String(), "registry", reg.BaseURL())
	prog := newProgress(logger)

	stop := startSpinner(ctx, logger, spec.String(), !flags.interactive)
	res, err := resolve.New(reg, opts).Resolve(ctx, spec)
	stop(err)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %s", plural(res.Map.Len(), "package")))

	if flags.interactive {
		return runBrowser(ctx, res)
	}
	return writeResult(ctx, cmd.OutOrStdout(), res, format, flags.output)
}

// parseRoot validates and parses a requirement typed by the user.
func parseRoot(raw string) (requirement.Spec, error) {
	if err := errors.ValidateRequirement(raw); err != nil {
		return requirement.Spec{}, err
	}
	return requirement.Parse(raw)
}

// startSpinner shows progress on stderr while the resolver runs. It stays
// off when debug logs are flowing or stderr is not a terminal. The returned
// stop reports a failed run on the spinner line.
func startSpinner(ctx context.Context, logger *log.Logger, root string, enabled bool) (stop func(error)) {
	if !enabled || logger.GetLevel() <= log.DebugLevel || !isTerminal(os.Stderr) {
		return func(error) {}
	}

	sp := newSpinner(ctx, os.Stderr, "Resolving "+root)
	observability.SetResolveHooks(&spinnerHooks{spinner: sp, root: root})
	sp.Start()
	return func(err error) {
		defer observability.SetResolveHooks(observability.NoopResolveHooks{})
		stopSpinner(sp, err)
	}
}

func stopSpinner(sp *Spinner, err error) {
	switch {
	case err == nil:
		sp.Stop()
	case sp.Cancelled():
		sp.StopWithError("Cancelled")
	default:
		sp.StopWithError(errors.UserMessage(err))
	}
}

// writeResult encodes res to w, or to path when one is given.
func writeResult(ctx context.Context, w io.Writer, res *resolve.Result, format export.Format, path string) error {
	out := w
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	var err error
	if format == export.FormatText {
		err = renderText(out, res)
	} else {
		err = export.Write(ctx, out, res, format)
	}
	if err != nil {
		return err
	}

	if path != "" {
		printSuccess(w, "Wrote %s", format)
		printFile(w, path)
	}
	return nil
}
