package requirement

import (
	"testing"

	"github.com/matzehuels/reqresolve/pkg/errors"
)

func TestParseDependency(t *testing.T) {
	tests := []struct {
		line string
		want Dependency
	}{
		{"B>=1.0", Dependency{Name: "B", Constraint: ">=1.0"}},
		{`C; extra == "x"`, Dependency{Name: "C", ExtraGate: "x"}},
		{"urllib3<3,>=1.21.1", Dependency{Name: "urllib3", Constraint: "<3,>=1.21.1"}},
		{`PySocks!=1.5.7,>=1.5.6; extra == "socks"`, Dependency{Name: "PySocks", Constraint: "!=1.5.7,>=1.5.6", ExtraGate: "socks"}},
		{`colorama; sys_platform == "win32"`, Dependency{Name: "colorama"}},
		{`pytest>=7 ; python_version >= "3.8" and extra == 'Test'`, Dependency{Name: "pytest", Constraint: ">=7", ExtraGate: "test"}},
		{"requests (>=2.0)", Dependency{Name: "requests", Constraint: ">=2.0"}},
		{`uvicorn[standard]>=0.12; extra == "all"`, Dependency{Name: "uvicorn", Extras: "standard", Constraint: ">=0.12", ExtraGate: "all"}},
		{`typing-extensions>=4.6; python_version < "3.13"`, Dependency{Name: "typing-extensions", Constraint: ">=4.6"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseDependency(tt.line)
			if err != nil {
				t.Fatalf("ParseDependency(%q) error: %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseDependency(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseDependencyErrors(t *testing.T) {
	tests := []string{
		"",
		`; extra == "x"`,
		"pkg @ https://example.com/pkg.whl",
		"foo >=abc",
	}

	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			_, err := ParseDependency(line)
			if err == nil {
				t.Fatalf("ParseDependency(%q) should fail", line)
			}
			if !errors.Is(err, errors.ErrCodeInvalidDependency) {
				t.Errorf("ParseDependency(%q) code = %v, want %v", line, errors.GetCode(err), errors.ErrCodeInvalidDependency)
			}
		})
	}
}

func TestDependencyString(t *testing.T) {
	d := Dependency{Name: "pysocks", Constraint: ">=1.5.6", ExtraGate: "socks"}
	want := `pysocks>=1.5.6; extra == "socks"`
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if d.Unconditional() {
		t.Error("gated dependency should not be unconditional")
	}
	back, err := ParseDependency(d.String())
	if err != nil {
		t.Fatalf("ParseDependency(String()) error: %v", err)
	}
	if back != d {
		t.Errorf("ParseDependency(String()) = %+v, want %+v", back, d)
	}
}
