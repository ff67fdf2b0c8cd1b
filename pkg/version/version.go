// Package version implements the version model used during resolution:
// a shape check for release strings, dotted-numeric ordering and
// comparator-clause constraints.
//
// Only plain final releases are candidates. A candidate must match
// `^\d+(\.\d+)*$`; pre-releases ("2.0rc1"), post and dev releases and local
// versions are rejected by [Parse] and silently skipped by [Select]. This
// drops some valid but unusually formatted releases in exchange for a simple
// total order.
//
// Ordering is numeric per dot-separated component, with missing trailing
// components treated as zero, so "1.0" and "1.0.0" compare equal.
package version

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/reqresolve/pkg/errors"
)

var shapeRE = regexp.MustCompile(`^\d+(\.\d+)*$`)

// Version is a parsed final release.
type Version struct {
	raw   string
	parts []uint64
	// stage orders bound versions that carry a pre/dev (-1) or
	// post (+1) suffix relative to the final release with the same numbers.
	// Parsed candidates always have stage 0.
	stage int
}

// Parse parses a candidate version string.
// It returns an [errors.ErrCodeMalformedVersion] error for anything that is
// not a dotted sequence of decimal integers.
func Parse(s string) (Version, error) {
	if !shapeRE.MatchString(s) {
		return Version{}, errors.New(errors.ErrCodeMalformedVersion, "malformed version %q", s)
	}
	parts, err := parseParts(s)
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrCodeMalformedVersion, err, "malformed version %q", s)
	}
	return Version{raw: s, parts: parts}, nil
}

// MustParse is like [Parse] but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseParts(s string) ([]uint64, error) {
	fields := strings.Split(s, ".")
	parts := make([]uint64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, err
		}
		parts[i] = n
	}
	return parts, nil
}

// String returns the version as originally written.
func (v Version) String() string { return v.raw }

// Len returns the number of dot-separated components.
func (v Version) Len() int { return len(v.parts) }

// Compare returns -1, 0 or 1 when v sorts before, equal to or after o.
func (v Version) Compare(o Version) int {
	n := max(len(v.parts), len(o.parts))
	for i := range n {
		a, b := v.part(i), o.part(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	switch {
	case v.stage < o.stage:
		return -1
	case v.stage > o.stage:
		return 1
	}
	return 0
}

// HasPrefix reports whether the leading components of v equal prefix,
// padding v with zeros when it is shorter.
func (v Version) HasPrefix(prefix []uint64) bool {
	for i, p := range prefix {
		if v.part(i) != p {
			return false
		}
	}
	return true
}

func (v Version) part(i int) uint64 {
	if i < len(v.parts) {
		return v.parts[i]
	}
	return 0
}

var (
	boundRE    = regexp.MustCompile(`^v?(\d+(?:\.\d+)*)([A-Za-z0-9._+-]*)$`)
	preStageRE = regexp.MustCompile(`^[-_.]?(a|b|c|rc|alpha|beta|pre|preview|dev)`)
)

// parseBound parses the version operand of a constraint clause. Operands may
// carry PEP 440 style suffixes ("2.0.0a0", "1.4.post1") which candidates never
// have; the suffix only decides whether the bound sits just below or just
// above the final release with the same numbers. Local labels are ignored.
func parseBound(s string) (Version, error) {
	m := boundRE.FindStringSubmatch(s)
	if m == nil {
		return Version{}, errors.New(errors.ErrCodeMalformedVersion, "malformed version %q", s)
	}
	parts, err := parseParts(m[1])
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrCodeMalformedVersion, err, "malformed version %q", s)
	}
	v := Version{raw: s, parts: parts}

	suffix := strings.ToLower(m[2])
	if i := strings.IndexByte(suffix, '+'); i >= 0 {
		suffix = suffix[:i]
	}
	switch {
	case suffix == "":
	case preStageRE.MatchString(suffix):
		v.stage = -1
	default:
		v.stage = 1
	}
	return v, nil
}
