package camera

import (
	"math"
	"testing"
)

func TestPerspective(t *testing.T) {
	cam := New(200, 100, 0.012)

	tests := []struct {
		z, want float64
	}{
		{0, 1},
		{100, 1 / 2.2},
		{-100, 1 / 2.2},
		{1000, 1 / 13.0},
	}
	for _, tt := range tests {
		if got := cam.Perspective(tt.z); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Perspective(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestWorldToScreen(t *testing.T) {
	cam := New(200, 100, 0.01)

	// z = 0 is the identity
	sx, sy, p := cam.WorldToScreen(13, 87, 0)
	if sx != 13 || sy != 87 || p != 1 {
		t.Errorf("z=0: got (%v, %v, %v)", sx, sy, p)
	}

	// The canvas center is a fixed point at every depth
	for _, z := range []float64{-300, -5, 40, 1e4} {
		sx, sy, _ := cam.WorldToScreen(100, 50, z)
		if math.Abs(sx-100) > 1e-9 || math.Abs(sy-50) > 1e-9 {
			t.Errorf("center at z=%v moved to (%v, %v)", z, sx, sy)
		}
	}

	// Depth pulls points toward the center: at z=100, p=0.5
	sx, sy, p = cam.WorldToScreen(0, 0, 100)
	if math.Abs(p-0.5) > 1e-12 || math.Abs(sx-50) > 1e-9 || math.Abs(sy-25) > 1e-9 {
		t.Errorf("z=100: got (%v, %v, %v), want (50, 25, 0.5)", sx, sy, p)
	}
}

func TestApparentSize(t *testing.T) {
	tests := []struct {
		s, p  float64
		minPx int
		want  int
	}{
		{6, 1, 3, 6},
		{6, 0.5, 1, 3},
		{6, 0.4, 3, 3},
		{0.5, 1, 1, 1},
	}
	for _, tt := range tests {
		if got := ApparentSize(tt.s, tt.p, tt.minPx); got != tt.want {
			t.Errorf("ApparentSize(%v, %v, %d) = %d, want %d", tt.s, tt.p, tt.minPx, got, tt.want)
		}
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(100, 100, 0)

	testCases := []struct {
		name    string
		x, y    float64
		size    int
		visible bool
	}{
		{"center", 50, 50, 2, true},
		{"just left within margin", -3, 50, 4, true},
		{"far left", -10, 50, 4, false},
		{"far below", 50, 120, 4, false},
		{"right edge margin", 103, 10, 4, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cam.IsVisible(tc.x, tc.y, tc.size); got != tc.visible {
				t.Errorf("IsVisible(%v, %v, %d) = %v, want %v", tc.x, tc.y, tc.size, got, tc.visible)
			}
		})
	}
}
