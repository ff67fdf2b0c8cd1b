package requirement

import (
	"regexp"
	"strings"

	"github.com/matzehuels/reqresolve/pkg/errors"
)

var extraMarkerRE = regexp.MustCompile(`\bextra\s*==\s*["']([^"']*)["']`)

// Dependency is one entry of a release's declared requirements.
type Dependency struct {
	Name       string `json:"name" toml:"name"`
	Extras     string `json:"extras,omitempty" toml:"extras,omitempty"`
	ExtraGate  string `json:"extra_gate,omitempty" toml:"extra_gate,omitempty"`
	Constraint string `json:"constraint,omitempty" toml:"constraint,omitempty"`
}

// ParseDependency parses a raw dependency line such as
//
//	urllib3<3,>=1.21.1
//	PySocks!=1.5.7,>=1.5.6; extra == "socks"
//	colorama; sys_platform == "win32"
//
// The part before the semicolon is parsed with [Parse]. In the marker only
// `extra == "<name>"` is interpreted and becomes [Dependency.ExtraGate];
// other markers are ignored and leave the dependency unconditional.
func ParseDependency(line string) (Dependency, error) {
	spec, marker, _ := strings.Cut(line, ";")

	s, err := Parse(spec)
	if err != nil {
		return Dependency{}, errors.Wrap(errors.ErrCodeInvalidDependency, err, "invalid dependency %q", line)
	}

	d := Dependency{Name: s.Name, Extras: s.Extras, Constraint: s.Constraint}
	if m := extraMarkerRE.FindStringSubmatch(marker); m != nil {
		d.ExtraGate = strings.ToLower(strings.TrimSpace(m[1]))
	}
	return d, nil
}

// Spec returns the dependency as a requirement, dropping the extra gate.
func (d Dependency) Spec() Spec {
	return Spec{Name: d.Name, Extras: d.Extras, Constraint: d.Constraint}
}

// Unconditional reports whether the dependency applies regardless of extras.
func (d Dependency) Unconditional() bool { return d.ExtraGate == "" }

// String renders the dependency in requirement syntax, with its gate as a marker.
func (d Dependency) String() string {
	s := d.Spec().String()
	if d.ExtraGate != "" {
		s += `; extra == "` + d.ExtraGate + `"`
	}
	return s
}
