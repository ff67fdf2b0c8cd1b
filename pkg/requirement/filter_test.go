package requirement

import (
	"slices"
	"testing"
)

func names(deps []Dependency) []string {
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = d.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	deps := []Dependency{
		{Name: "x"},
		{Name: "y", ExtraGate: "extra1"},
		{Name: "z", ExtraGate: "extra2"},
		{Name: "x"},
	}

	tests := []struct {
		name      string
		requested string
		want      []string
	}{
		{"no extras", "", []string{"x", "x"}},
		{"single extra", "extra1", []string{"x", "y", "x"}},
		{"other extra", "extra2", []string{"x", "z", "x"}},
		{"both extras", "extra2,extra1", []string{"x", "y", "z", "x"}},
		{"unknown extra", "nope", []string{"x", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := names(Filter(deps, tt.requested)); !slices.Equal(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.requested, got, tt.want)
			}
		})
	}
}

func TestFilterSpecExample(t *testing.T) {
	got := Filter([]Dependency{{Name: "x"}, {Name: "y", ExtraGate: "extra1"}}, "")
	if len(got) != 1 || got[0].Name != "x" {
		t.Errorf("Filter() = %v, want only x", got)
	}
}

func TestFilterEmpty(t *testing.T) {
	if got := Filter(nil, "x"); len(got) != 0 {
		t.Errorf("Filter(nil) = %v, want empty", got)
	}
}
