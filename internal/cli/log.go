package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reqresolve/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created,
// e.g. "Resolved 42 packages (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// logHooks writes resolver, cache and HTTP events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetResolveHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnResolveStart(_ context.Context, root string) {
	h.logger.Debug("resolve start", "root", root)
}

func (h logHooks) OnResolveComplete(_ context.Context, root string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolve aborted", "root", root, "nodes", nodes, "elapsed", d, "err", err)
		return
	}
	h.logger.Debug("resolve done", "root", root, "nodes", nodes, "elapsed", d)
}

func (h logHooks) OnNodeResolved(_ context.Context, name, extras, version string, deps int) {
	h.logger.Debug("node", "package", name, "extras", extras, "version", version, "deps", deps)
}

func (h logHooks) OnRequestDropped(_ context.Context, name, extras, constraint string) {
	h.logger.Debug("dropped", "package", name, "extras", extras, "constraint", constraint)
}

func (h logHooks) OnCacheHit(_ context.Context, namespace string) {
	h.logger.Debug("cache hit", "ns", namespace)
}

func (h logHooks) OnCacheMiss(_ context.Context, namespace string) {
	h.logger.Debug("cache miss", "ns", namespace)
}

func (h logHooks) OnCacheSet(_ context.Context, namespace string, size int) {
	h.logger.Debug("cache set", "ns", namespace, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http done", "method", method, "host", host, "path", path, "status", status, "elapsed", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
