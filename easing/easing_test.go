package easing

import (
	"math"
	"testing"
)

func TestEndpointsPinned(t *testing.T) {
	for _, name := range Names() {
		fn, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q): %v", name, err)
		}
		if got := fn(0); got != 0 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := fn(1); got != 1 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
		if got := fn(-0.5); got != 0 {
			t.Errorf("%s(-0.5) = %v, want 0", name, got)
		}
		if got := fn(2); got != 1 {
			t.Errorf("%s(2) = %v, want 1", name, got)
		}
	}
}

func TestCatalogMonotonic(t *testing.T) {
	for _, name := range Names() {
		fn, _ := Parse(name)
		prev := fn(0)
		for i := 1; i <= 100; i++ {
			v := fn(float64(i) / 100)
			if v < prev-1e-6 {
				t.Errorf("%s not monotonic at %d: %v < %v", name, i, v, prev)
				break
			}
			if v < 0 || v > 1 {
				t.Errorf("%s out of range at %d: %v", name, i, v)
			}
			prev = v
		}
	}
}

func TestKnownCurves(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		p    float64
		want float64
	}{
		{"linear", Linear, 0.3, 0.3},
		{"smoothstep mid", Smoothstep, 0.5, 0.5},
		{"smoothstep quarter", Smoothstep, 0.25, 0.15625},
		{"out_quad", OutQuad, 0.5, 0.75},
		{"power 1.5", Power(1.5), 0.25, 0.125},
		{"power 2", Power(2), 0.5, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.p); math.Abs(got-tt.want) > 1e-5 {
				t.Errorf("f(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	fn, err := Parse("power:1.5")
	if err != nil {
		t.Fatalf("Parse(power:1.5): %v", err)
	}
	if got := fn(0.25); math.Abs(got-0.125) > 1e-9 {
		t.Errorf("power:1.5(0.25) = %v, want 0.125", got)
	}

	if fn, err := Parse(""); err != nil || fn(0.4) != 0.4 {
		t.Errorf("empty name should be linear, err=%v", err)
	}
	if _, err := Parse("Smoothstep"); err != nil {
		t.Errorf("names should be case-insensitive: %v", err)
	}

	for _, bad := range []string{"bogus", "power:", "power:-1", "power:abc", "out_back"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}
