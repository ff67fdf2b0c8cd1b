// Package requirement parses requirement strings and the dependency lines
// a registry declares for a release, and filters those dependencies by the
// extras a requester asked for.
//
// A requirement is written as
//
//	name [ "[" extra { "," extra } "]" ] [ constraint ]
//
// for example "requests", "uvicorn[standard]>=0.20" or "django (>=4.2,<5)".
// Dependency lines additionally carry an optional environment marker after a
// semicolon, of which only the `extra == "<name>"` clause is interpreted.
package requirement

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/version"
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*`)

// Spec is a parsed requirement. Empty fields mean the component was absent.
type Spec struct {
	Name       string // package name as written
	Extras     string // canonical extras set, see [CanonicalExtras]
	Constraint string // canonical constraint, see [version.Constraint.String]
}

// Parse turns a raw requirement string into a [Spec].
//
// Whitespace around every component is trimmed and parentheses around the
// constraint are stripped. It fails with [errors.ErrCodeInvalidSpec] when no
// name can be isolated, when the extras brackets are unbalanced, or when the
// constraint suffix is not a valid [version.Constraint].
func Parse(raw string) (Spec, error) {
	s := strings.TrimSpace(raw)

	name := nameRE.FindString(s)
	if name == "" {
		return Spec{}, errors.New(errors.ErrCodeInvalidSpec, "no package name in %q", raw)
	}
	rest := strings.TrimSpace(s[len(name):])

	var extras string
	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Spec{}, errors.New(errors.ErrCodeInvalidSpec, "unterminated extras in %q", raw)
		}
		var err error
		if extras, err = CanonicalExtras(rest[1:end]); err != nil {
			return Spec{}, errors.Wrap(errors.ErrCodeInvalidSpec, err, "invalid extras in %q", raw)
		}
		rest = strings.TrimSpace(rest[end+1:])
	}
	if strings.ContainsAny(rest, "[]") {
		return Spec{}, errors.New(errors.ErrCodeInvalidSpec, "unexpected bracket in %q", raw)
	}

	c, err := version.ParseConstraint(rest)
	if err != nil {
		return Spec{}, errors.Wrap(errors.ErrCodeInvalidSpec, err, "invalid constraint in %q", raw)
	}

	return Spec{Name: name, Extras: extras, Constraint: c.String()}, nil
}

// MustParse is like [Parse] but panics on error. Intended for tests.
func MustParse(raw string) Spec {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// String renders the spec back in requirement syntax.
func (s Spec) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	if s.Extras != "" {
		b.WriteString("[" + s.Extras + "]")
	}
	b.WriteString(s.Constraint)
	return b.String()
}

var extraRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// CanonicalExtras normalizes a comma-separated extras list: names are
// trimmed and lowercased, duplicates removed and the result sorted, so
// "Socks, security" and "security,socks" are the same set.
func CanonicalExtras(list string) (string, error) {
	names := ExtraSet(list)
	for _, n := range names {
		if !extraRE.MatchString(n) {
			return "", errors.New(errors.ErrCodeInvalidSpec, "invalid extra name %q", n)
		}
	}
	return strings.Join(names, ","), nil
}

// ExtraSet splits a comma-separated extras list into a sorted set of
// lowercased names. Empty entries are dropped.
func ExtraSet(list string) []string {
	var names []string
	for _, f := range strings.Split(list, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			names = append(names, f)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

var separatorRunRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName returns the canonical form of a package name (PEP 503):
// lowercased, with every run of "-", "_" and "." replaced by a single "-".
// Registries treat names that normalize equally as the same project.
func NormalizeName(name string) string {
	return separatorRunRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
