package requirement

import "slices"

// Filter returns the dependencies that apply when the extras in requested
// (a comma-separated set) are enabled: those with no extra gate, and those
// whose gate is one of the requested extras. Input order is kept and
// duplicates are passed through.
func Filter(deps []Dependency, requested string) []Dependency {
	enabled := ExtraSet(requested)
	out := make([]Dependency, 0, len(deps))
	for _, d := range deps {
		if d.Unconditional() || slices.Contains(enabled, d.ExtraGate) {
			out = append(out, d)
		}
	}
	return out
}
