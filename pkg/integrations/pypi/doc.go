// Package pypi provides an HTTP client for the Python Package Index JSON API.
//
// # Usage
//
//	client := pypi.NewClient(cache.NewNullCache(), 24*time.Hour)
//
//	versions, err := client.Versions(ctx, "flask")
//	lines, err := client.Dependencies(ctx, "flask", "2.3.3")
//
// [Client.Versions] reads the keys of "releases" from /{name}/json.
// [Client.Dependencies] reads "info.requires_dist" from /{name}/{version}/json
// and returns the lines unparsed, environment markers included.
//
// # Caching
//
// Responses are cached per project and per release. Call
// [Client.SetRefresh] to bypass cached entries.
//
// Package names are normalized following PEP 503 before any request.
package pypi
