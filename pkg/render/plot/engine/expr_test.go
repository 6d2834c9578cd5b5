package engine

import (
	"math"
	"testing"

	"github.com/matzehuels/plotdown/pkg/errors"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		expr string
		x    float64
		want float64
	}{
		{"x^2", 3, 9},
		{"x**3", 2, 8},
		{"2*x + 1", 4, 9},
		{"sin(x)", 0, 0},
		{"cos(x)", 0, 1},
		{"sqrt(x)", 16, 4},
		{"abs(x)", -2.5, 2.5},
		{"pi", 0, math.Pi},
		{"exp(x)", 0, 1},
		{"7", 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			fn, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.expr, err)
			}
			got, err := fn(tt.x)
			if err != nil {
				t.Fatalf("fn(%v) error = %v", tt.x, err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("fn(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestCompileRejects(t *testing.T) {
	for _, src := range []string{"", "x^", "foo(x)", "y + 1", `"text"`, "x > 1"} {
		t.Run(src, func(t *testing.T) {
			_, err := Compile(src)
			if err == nil {
				t.Fatalf("Compile(%q) error = nil, want error", src)
			}
			if !errors.Is(err, errors.ErrCodeExternalEngine) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeExternalEngine)
			}
		})
	}
}

func TestCompileReusesEnvAcrossCalls(t *testing.T) {
	fn, err := Compile("x*x")
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{1, 2, 3} {
		got, _ := fn(x)
		if got != x*x {
			t.Errorf("fn(%v) = %v, want %v", x, got, x*x)
		}
	}
}
