package version

import (
	"testing"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		available  []string
		constraint string
		want       string
		wantOK     bool
	}{
		{"highest in range", []string{"1.0", "1.2", "2.0"}, ">=1.0,<2.0", "1.2", true},
		{"empty set", nil, ">=1.0", "", false},
		{"empty set any", []string{}, "", "", false},
		{"malformed excluded", []string{"1.0", "abc"}, "", "1.0", true},
		{"prereleases excluded", []string{"1.0", "2.0rc1", "2.0.dev1"}, "", "1.0", true},
		{"numeric not lexicographic", []string{"1.9", "1.10", "1.2"}, "", "1.10", true},
		{"nothing satisfies", []string{"1.0", "1.1"}, ">=2.0", "", false},
		{"only malformed", []string{"latest", "x.y"}, "", "", false},
		{"compatible release", []string{"2.1", "2.2", "2.9", "3.0"}, "~=2.2", "2.9", true},
		{"wildcard", []string{"1.4.1", "1.4.7", "1.5.0"}, "==1.4.*", "1.4.7", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.available, MustParseConstraint(tt.constraint))
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Select(%v, %q) = (%q, %v), want (%q, %v)", tt.available, tt.constraint, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSelectOrderIndependent(t *testing.T) {
	a := []string{"1.0", "1.0.0", "0.9"}
	b := []string{"0.9", "1.0.0", "1.0"}

	ga, _ := Select(a, Any)
	gb, _ := Select(b, Any)
	if ga != gb {
		t.Errorf("Select should not depend on order: %q vs %q", ga, gb)
	}
	if ga != "1.0.0" {
		t.Errorf("Select tie-break = %q, want %q", ga, "1.0.0")
	}
}
