// Package pkg provides the core libraries for reqresolve, a resolver that
// expands one Python requirement into the map of package versions it pulls
// in from PyPI.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Domain logic: [version], [requirement], [resolve]
//  2. Infrastructure: [cache], [config], [errors], [observability], [buildinfo]
//  3. External surfaces: [integrations] (PyPI client) and [export] (JSON, TOML, DOT, SVG)
//
// # Architecture
//
// The data flow of one run:
//
//	"requests[socks]>=2.31"
//	         ↓
//	    [requirement] package (parse name, extras, constraint)
//	         ↓
//	    [resolve] package (FIFO worklist over a Registry)
//	         ↓  ↑
//	    [integrations/pypi] package (JSON API, cached via [cache])
//	         ↓
//	    [resolve.Map] (write-once name/extras/version keys)
//	         ↓
//	    [export] package (documents and graphs)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/reqresolve/pkg/cache"
//	    "github.com/matzehuels/reqresolve/pkg/export"
//	    "github.com/matzehuels/reqresolve/pkg/integrations/pypi"
//	    "github.com/matzehuels/reqresolve/pkg/resolve"
//	)
//
//	reg := pypi.NewClient(cache.NewNullCache(), time.Hour)
//	res, err := resolve.New(reg, resolve.Options{MaxDepth: 10}).
//	    ResolveString(context.Background(), "flask[async]>=2.0")
//	if err != nil {
//	    return err // only an invalid root requirement or a cancelled context
//	}
//	for _, w := range res.Warnings {
//	    log.Println(w) // registry failures, dropped requests, skipped lines
//	}
//	export.WriteJSON(os.Stdout, res)
//
// # Error Handling
//
// Errors carry a machine-readable [errors.Code]. Only an invalid root
// requirement fails a run; every other problem becomes a warning on the
// result and the affected request degrades.
package pkg
