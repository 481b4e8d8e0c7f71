// Package camera provides the pseudo-3D perspective used to project
// particles onto the canvas.
package camera

import "math"

// Camera looks at the canvas center from a fixed distance. Points further
// from the z = 0 plane (in either direction) shrink toward the center.
type Camera struct {
	// Viewport dimensions (canvas size)
	ViewportW, ViewportH float64

	// K controls how quickly perspective falls off with |z|
	K float64
}

// New creates a camera for a w×h canvas with falloff k.
func New(w, h int, k float64) *Camera {
	return &Camera{
		ViewportW: float64(w),
		ViewportH: float64(h),
		K:         k,
	}
}

// Perspective returns the scale factor 1 / (1 + |z|·K), in (0, 1].
func (c *Camera) Perspective(z float64) float64 {
	return 1 / (1 + math.Abs(z)*c.K)
}

// WorldToScreen projects a world point and returns the screen position and
// the perspective factor used.
func (c *Camera) WorldToScreen(x, y, z float64) (sx, sy, p float64) {
	p = c.Perspective(z)
	sx = x*p + (1-p)*c.ViewportW/2
	sy = y*p + (1-p)*c.ViewportH/2
	return sx, sy, p
}

// ApparentSize returns the on-screen size of an object of size s at
// perspective p, floored to minPx pixels.
func ApparentSize(s, p float64, minPx int) int {
	return max(minPx, int(s*p))
}

// IsVisible returns true if a square of the given size centered at
// (sx, sy) could touch the canvas. The test is padded by size on every
// side.
func (c *Camera) IsVisible(sx, sy float64, size int) bool {
	r := float64(size)
	return sx+r >= 0 && sx-r < c.ViewportW &&
		sy+r >= 0 && sy-r < c.ViewportH
}
