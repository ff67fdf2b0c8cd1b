// Package resolve computes the transitive dependency set of a requirement.
//
// # Algorithm
//
// A run keeps a FIFO worklist of [Request] values seeded with the root.
// Each dequeued request is resolved in four steps:
//
//  1. list the project's versions from the [Registry]
//  2. pick the highest version satisfying the request's constraint
//  3. fetch and parse that release's dependency lines, keeping those enabled
//     by the request's extras
//  4. write the result under its [Key] and enqueue one request per dependency
//
// The [Map] is write-once: a key reached again, through a cycle or a second
// path, is not fetched or expanded twice. Identical requests are skipped
// before any registry call unless [Options.DisableRequestDedup] is set.
//
// # Failures
//
// Only an invalid root requirement is fatal. Everything else is recorded as a
// [Warning] on the [Result] and the affected request degrades: registry
// errors count as empty responses, unparseable dependency lines are skipped
// and requests with no matching version are listed in [Result.Dropped].
//
// # Usage
//
//	r := resolve.New(pypi.NewClient(cache.NewNullCache(), time.Hour), resolve.Options{})
//	res, err := r.ResolveString(ctx, "flask[async]>=2.0")
//	for k, deps := range res.Map.All() {
//	    fmt.Println(k, len(deps))
//	}
package resolve
