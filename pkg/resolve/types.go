package resolve

import (
	"context"
	"time"

	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/requirement"
)

// Registry is the package index the resolver reads from.
//
// Versions returns every release string of a project; Dependencies returns
// the raw requirement lines of one release. Implementations must be safe for
// concurrent use when a Resolver is shared between goroutines.
type Registry interface {
	Versions(ctx context.Context, name string) ([]string, error)
	Dependencies(ctx context.Context, name, version string) ([]string, error)
}

// Key identifies a resolved node: a project at a version, built with a set
// of extras. Name is PEP 503 normalized and Extras is a canonical set.
type Key struct {
	Name    string `json:"name" toml:"name"`
	Extras  string `json:"extras,omitempty" toml:"extras,omitempty"`
	Version string `json:"version" toml:"version"`
}

// String renders the key as name[extras]==version.
func (k Key) String() string {
	s := k.Name
	if k.Extras != "" {
		s += "[" + k.Extras + "]"
	}
	return s + "==" + k.Version
}

// Entry holds the dependencies that apply to a resolved node, already
// filtered by the node's extras.
type Entry []requirement.Dependency

// Request is one worklist item: a requirement still to be resolved,
// discovered at Depth hops from the root.
type Request struct {
	Name       string `json:"name"`
	Extras     string `json:"extras,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Depth      int    `json:"depth"`
}

func newRequest(s requirement.Spec, depth int) Request {
	return Request{
		Name:       requirement.NormalizeName(s.Name),
		Extras:     s.Extras,
		Constraint: s.Constraint,
		Depth:      depth,
	}
}

// Spec returns the request as a requirement.
func (r Request) Spec() requirement.Spec {
	return requirement.Spec{Name: r.Name, Extras: r.Extras, Constraint: r.Constraint}
}

// String renders the request in requirement syntax.
func (r Request) String() string { return r.Spec().String() }

// identity ignores Depth: the same requirement reached by two paths is one request.
type identity struct {
	name, extras, constraint string
}

func (r Request) identity() identity {
	return identity{r.Name, r.Extras, r.Constraint}
}

// Warning is a non-fatal problem met during a run. The affected request
// degrades (empty result, skipped line, dropped request) and the run goes on.
type Warning struct {
	Code    errors.Code `json:"code"`
	Package string      `json:"package"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

func (w Warning) String() string {
	return string(w.Code) + " " + w.Package + ": " + w.Message
}

func newWarning(code errors.Code, pkg string, err error) Warning {
	return Warning{Code: code, Package: pkg, Message: errors.UserMessage(err), Err: err}
}

// Stats summarizes the work a run performed.
type Stats struct {
	Steps         int           `json:"steps"`          // requests dequeued
	Skipped       int           `json:"skipped"`        // requests skipped as already seen
	RegistryCalls int           `json:"registry_calls"` // Versions plus Dependencies calls
	Duration      time.Duration `json:"duration"`
}

// Result is the outcome of one run.
type Result struct {
	Root     requirement.Spec
	Map      *Map
	Warnings []Warning
	Dropped  []Request
	Stats    Stats
}
