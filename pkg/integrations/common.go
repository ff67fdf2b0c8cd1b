package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/reqresolve/pkg/requirement"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizePkgName converts a package name to its canonical PEP 503 form,
// trimming surrounding whitespace first.
func NormalizePkgName(name string) string {
	return requirement.NormalizeName(strings.TrimSpace(name))
}
