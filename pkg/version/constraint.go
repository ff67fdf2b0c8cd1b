package version

import (
	"strings"

	"github.com/matzehuels/reqresolve/pkg/errors"
)

// Op is a comparison operator in a constraint clause.
type Op string

// Supported operators.
const (
	OpEqual        Op = "=="
	OpNotEqual     Op = "!="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
	OpCompatible   Op = "~="
	OpArbitrary    Op = "==="
)

// operators is ordered so that longer tokens are tried first.
var operators = []Op{OpArbitrary, OpCompatible, OpEqual, OpNotEqual, OpLessEqual, OpGreaterEqual, OpLess, OpGreater}

// Clause is a single comparator such as ">=1.2" or "==3.*".
type Clause struct {
	Op       Op
	Version  string // operand as written, without any ".*" suffix
	Wildcard bool   // "==X.*" or "!=X.*"

	bound Version
}

// Constraint is a conjunction of clauses. The zero value matches every version.
type Constraint struct {
	clauses []Clause
}

// Any is the constraint that every version satisfies.
var Any = Constraint{}

// ParseConstraint parses a comma-separated list of clauses, optionally
// wrapped in parentheses: ">=1.0,<2.0", "(~=3.1)", "==1.*, !=1.3".
// An empty string yields [Any].
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return Any, nil
	}

	fields := strings.Split(s, ",")
	clauses := make([]Clause, 0, len(fields))
	for _, f := range fields {
		c, err := parseClause(strings.TrimSpace(f))
		if err != nil {
			return Constraint{}, errors.Wrap(errors.ErrCodeInvalidConstraint, err, "invalid constraint %q", s)
		}
		clauses = append(clauses, c)
	}
	return Constraint{clauses: clauses}, nil
}

// MustParseConstraint is like [ParseConstraint] but panics on error.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseClause(s string) (Clause, error) {
	if s == "" {
		return Clause{}, errors.New(errors.ErrCodeInvalidConstraint, "empty clause")
	}

	var op Op
	for _, candidate := range operators {
		if strings.HasPrefix(s, string(candidate)) {
			op = candidate
			break
		}
	}
	if op == "" {
		return Clause{}, errors.New(errors.ErrCodeInvalidConstraint, "clause %q has no operator", s)
	}

	operand := strings.TrimSpace(s[len(op):])
	if operand == "" {
		return Clause{}, errors.New(errors.ErrCodeInvalidConstraint, "clause %q has no version", s)
	}

	c := Clause{Op: op, Version: operand}
	switch op {
	case OpArbitrary:
		if strings.ContainsAny(operand, " \t") {
			return Clause{}, errors.New(errors.ErrCodeInvalidConstraint, "clause %q has whitespace in version", s)
		}
		return c, nil
	case OpEqual, OpNotEqual:
		if strings.HasSuffix(operand, ".*") {
			c.Wildcard = true
			c.Version = strings.TrimSuffix(operand, ".*")
		}
	}

	bound, err := parseBound(c.Version)
	if err != nil {
		return Clause{}, err
	}
	if c.Wildcard && bound.stage != 0 {
		return Clause{}, errors.New(errors.ErrCodeInvalidConstraint, "wildcard clause %q must be numeric", s)
	}
	if op == OpCompatible && bound.Len() < 2 {
		return Clause{}, errors.New(errors.ErrCodeInvalidConstraint, "compatible release %q needs at least two components", s)
	}
	c.bound = bound
	return c, nil
}

// Check reports whether v satisfies the clause.
func (c Clause) Check(v Version) bool {
	switch c.Op {
	case OpArbitrary:
		return v.raw == c.Version
	case OpEqual:
		if c.Wildcard {
			return v.HasPrefix(c.bound.parts)
		}
		return v.Compare(c.bound) == 0
	case OpNotEqual:
		if c.Wildcard {
			return !v.HasPrefix(c.bound.parts)
		}
		return v.Compare(c.bound) != 0
	case OpLess:
		return v.Compare(c.bound) < 0
	case OpLessEqual:
		return v.Compare(c.bound) <= 0
	case OpGreater:
		return v.Compare(c.bound) > 0
	case OpGreaterEqual:
		return v.Compare(c.bound) >= 0
	case OpCompatible:
		prefix := c.bound.parts[:len(c.bound.parts)-1]
		return v.Compare(c.bound) >= 0 && v.HasPrefix(prefix)
	}
	return false
}

// String renders the clause in canonical form.
func (c Clause) String() string {
	if c.Wildcard {
		return string(c.Op) + c.Version + ".*"
	}
	return string(c.Op) + c.Version
}

// Check reports whether v satisfies every clause.
func (c Constraint) Check(v Version) bool {
	for _, cl := range c.clauses {
		if !cl.Check(v) {
			return false
		}
	}
	return true
}

// String renders the clauses joined by commas; "" for [Any].
func (c Constraint) String() string {
	parts := make([]string, len(c.clauses))
	for i, cl := range c.clauses {
		parts[i] = cl.String()
	}
	return strings.Join(parts, ",")
}
