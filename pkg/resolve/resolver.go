package resolve

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/observability"
	"github.com/matzehuels/reqresolve/pkg/requirement"
	"github.com/matzehuels/reqresolve/pkg/version"
)

// Resolver computes resolution maps against a registry. It holds no
// per-run state, so one Resolver may serve concurrent Resolve calls as long
// as its Registry is safe for concurrent use.
type Resolver struct {
	reg  Registry
	opts Options
}

// New creates a Resolver reading from reg.
func New(reg Registry, opts Options) *Resolver {
	return &Resolver{reg: reg, opts: opts.WithDefaults()}
}

// Options returns the effective options, defaults applied.
func (r *Resolver) Options() Options { return r.opts }

// ResolveString validates and parses raw as a requirement, then resolves it.
func (r *Resolver) ResolveString(ctx context.Context, raw string) (*Result, error) {
	if err := errors.ValidateRequirement(raw); err != nil {
		return nil, err
	}
	spec, err := requirement.Parse(raw)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, spec)
}

// Resolve runs the worklist from root until no work remains.
//
// Only an invalid root is fatal and returns a nil Result. Registry failures,
// unparseable dependency lines, unsatisfiable requests and the node limit
// are collected as warnings. If ctx is cancelled the partial Result is
// returned together with ctx.Err().
func (r *Resolver) Resolve(ctx context.Context, root requirement.Spec) (*Result, error) {
	// Re-parsing canonicalizes hand-built specs and rejects invalid ones.
	root, err := requirement.Parse(root.String())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, root.String())

	rn := &run{
		reg:   r.reg,
		opts:  r.opts,
		log:   r.opts.Logger,
		hooks: hooks,
		seen:  make(map[identity]bool),
		res:   &Result{Root: root, Map: NewMap()},
	}
	err = rn.loop(ctx, newRequest(root, 0))

	rn.res.Stats.Duration = time.Since(start)
	hooks.OnResolveComplete(ctx, root.String(), rn.res.Map.Len(), rn.res.Stats.Duration, err)
	rn.log.Debug("resolve finished",
		"root", root.String(),
		"nodes", rn.res.Map.Len(),
		"steps", rn.res.Stats.Steps,
		"registry_calls", rn.res.Stats.RegistryCalls,
		"warnings", len(rn.res.Warnings))
	return rn.res, err
}

// run is the state of one Resolve call.
type run struct {
	reg   Registry
	opts  Options
	log   *log.Logger
	hooks observability.ResolveHooks

	q       queue
	seen    map[identity]bool
	res     *Result
	limited bool // a new key was refused at MaxNodes
}

func (rn *run) loop(ctx context.Context, root Request) error {
	rn.q.push(root)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		req, ok := rn.q.pop()
		if !ok {
			return nil
		}
		rn.res.Stats.Steps++

		if !rn.opts.DisableRequestDedup {
			id := req.identity()
			if rn.seen[id] {
				rn.res.Stats.Skipped++
				continue
			}
			rn.seen[id] = true
		}

		if err := rn.step(ctx, req); err != nil {
			return err
		}
		if rn.limited {
			return nil
		}
	}
}

// step resolves a single request. It only returns an error when ctx is done.
func (rn *run) step(ctx context.Context, req Request) error {
	c, err := version.ParseConstraint(req.Constraint)
	if err != nil {
		rn.warn(errors.ErrCodeInvalidConstraint, req.Name, err)
		rn.drop(ctx, req)
		return nil
	}

	versions, err := rn.reg.Versions(ctx, req.Name)
	rn.res.Stats.RegistryCalls++
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rn.warn(errors.ErrCodeRegistryUnavailable, req.Name,
			errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "fetch versions of %s", req.Name))
		versions = nil
	}

	v, ok := version.Select(versions, c)
	if !ok {
		rn.warn(errors.ErrCodeNoMatchingVersion, req.Name,
			errors.New(errors.ErrCodeNoMatchingVersion, "no version of %s satisfies %q", req.Name, req.Constraint))
		rn.drop(ctx, req)
		return nil
	}

	key := Key{Name: req.Name, Extras: req.Extras, Version: v}
	if rn.res.Map.Has(key) {
		rn.res.Map.Link(req.Spec(), key)
		rn.log.Debug("already resolved", "key", key.String())
		return nil
	}
	if rn.res.Map.Len() >= rn.opts.MaxNodes {
		rn.warn(errors.ErrCodeLimitReached, req.Name, errors.New(errors.ErrCodeLimitReached,
			"node limit %d reached, %d pending requests not resolved", rn.opts.MaxNodes, rn.q.len()+1))
		rn.limited = true
		return nil
	}

	lines, err := rn.reg.Dependencies(ctx, req.Name, v)
	rn.res.Stats.RegistryCalls++
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rn.warn(errors.ErrCodeRegistryUnavailable, req.Name,
			errors.Wrap(errors.ErrCodeRegistryUnavailable, err, "fetch dependencies of %s", key))
		lines = nil
	}

	deps := make([]requirement.Dependency, 0, len(lines))
	for _, line := range lines {
		d, err := requirement.ParseDependency(line)
		if err != nil {
			rn.warn(errors.ErrCodeInvalidDependency, key.String(), err)
			continue
		}
		deps = append(deps, d)
	}
	entry := Entry(requirement.Filter(deps, req.Extras))

	if err := rn.res.Map.Insert(key, entry); err != nil {
		rn.warn(errors.ErrCodeInternal, key.String(), err)
		return nil
	}
	rn.res.Map.Link(req.Spec(), key)
	rn.hooks.OnNodeResolved(ctx, key.Name, key.Extras, key.Version, len(entry))
	rn.log.Debug("resolved", "package", key.Name, "extras", key.Extras, "version", v, "deps", len(entry))

	if req.Depth >= rn.opts.MaxDepth {
		rn.log.Debug("depth limit reached", "package", key.Name, "depth", req.Depth)
		return nil
	}
	for _, d := range entry {
		rn.q.push(newRequest(d.Spec(), req.Depth+1))
	}
	return nil
}

func (rn *run) warn(code errors.Code, pkg string, err error) {
	w := newWarning(code, pkg, err)
	rn.res.Warnings = append(rn.res.Warnings, w)
	rn.log.Debug("warning", "code", code, "package", pkg, "err", err)
}

func (rn *run) drop(ctx context.Context, req Request) {
	rn.res.Dropped = append(rn.res.Dropped, req)
	rn.hooks.OnRequestDropped(ctx, req.Name, req.Extras, req.Constraint)
}
