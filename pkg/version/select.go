package version

// Select returns the highest candidate in available that satisfies c.
//
// Candidates failing the shape check are dropped before the constraint is
// evaluated. When two candidates compare equal ("1.0" and "1.0.0") the
// lexicographically greater string wins, so the result does not depend on
// input order. The boolean is false when no candidate remains.
func Select(available []string, c Constraint) (string, bool) {
	var (
		best  Version
		found bool
	)
	for _, s := range available {
		v, err := Parse(s)
		if err != nil {
			continue
		}
		if !c.Check(v) {
			continue
		}
		if !found {
			best, found = v, true
			continue
		}
		switch cmp := v.Compare(best); {
		case cmp > 0, cmp == 0 && v.raw > best.raw:
			best = v
		}
	}
	if !found {
		return "", false
	}
	return best.raw, true
}
