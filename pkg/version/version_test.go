package version

import (
	"testing"

	"github.com/matzehuels/reqresolve/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"1", false},
		{"1.0", false},
		{"2.31.0", false},
		{"2024.10.14", false},
		{"0.0.1", false},

		{"", true},
		{"abc", true},
		{"1.0rc1", true},
		{"2.0.0a0", true},
		{"1.0.post1", true},
		{"1.0.dev3", true},
		{"1.0+local", true},
		{"v1.0", true},
		{"1..0", true},
		{".1", true},
		{"1.", true},
		{"99999999999999999999999", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeMalformedVersion) {
				t.Errorf("Parse(%q) code = %v, want %v", tt.input, errors.GetCode(err), errors.ErrCodeMalformedVersion)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.0.0", 0},
		{"1.2", "1.10", -1},
		{"1.10", "1.9", 1},
		{"2.0", "10.0", -1},
		{"1.0.1", "1.0", 1},
		{"0.9.9", "1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := MustParse(tt.a).Compare(MustParse(tt.b)); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseBoundStages(t *testing.T) {
	final := MustParse("2.0.0")
	tests := []struct {
		bound string
		want  int // final.Compare(bound)
	}{
		{"2.0.0", 0},
		{"2.0.0a0", 1},
		{"2.0.0rc1", 1},
		{"2.0.0.dev0", 1},
		{"2.0.0.post1", -1},
		{"2.0.0-1", -1},
		{"2.0.0+local", 0},
		{"v2.0.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.bound, func(t *testing.T) {
			b, err := parseBound(tt.bound)
			if err != nil {
				t.Fatalf("parseBound(%q) error: %v", tt.bound, err)
			}
			if got := final.Compare(b); got != tt.want {
				t.Errorf("2.0.0 vs %q = %d, want %d", tt.bound, got, tt.want)
			}
		})
	}
}
