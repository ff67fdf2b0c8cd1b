package resolve

import (
	"io"

	"github.com/charmbracelet/log"
)

const (
	DefaultMaxDepth = 50   // Default maximum dependency depth
	DefaultMaxNodes = 5000 // Default maximum resolved keys
)

// Options configures resolution behavior.
type Options struct {
	MaxDepth int // Maximum depth to expand (default: 50)
	MaxNodes int // Maximum keys to write (default: 5000)

	// DisableRequestDedup makes every dequeued request query the registry,
	// even when an identical requirement was already processed. Results are
	// the same; only the number of registry calls changes.
	DisableRequestDedup bool

	Logger *log.Logger // Debug output (default: discarded)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}
