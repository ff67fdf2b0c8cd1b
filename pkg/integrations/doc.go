// Package integrations provides HTTP clients for package registry APIs.
//
// # Overview
//
// This package contains the shared transport used by registry clients. Each
// registry has its own subpackage:
//
//   - [pypi]: Python Package Index JSON API
//
// # Shared Infrastructure
//
// The [Client] type provides:
//   - HTTP requests with retry on network errors, 429 and 5xx responses
//   - Response caching through any [cache.Cache] backend (file, Redis, MongoDB)
//   - Request and cache events reported through [observability] hooks
//
// Status codes are classified into [ErrNotFound] and [ErrNetwork]; transient
// failures are wrapped in [cache.RetryableError].
//
// [pypi]: github.com/matzehuels/reqresolve/pkg/integrations/pypi
// [cache.Cache]: github.com/matzehuels/reqresolve/pkg/cache.Cache
// [cache.RetryableError]: github.com/matzehuels/reqresolve/pkg/cache.RetryableError
// [observability]: github.com/matzehuels/reqresolve/pkg/observability
package integrations
