package systems

import (
	"image"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/dissolve/components"
)

// Weights of the depth proxy.
const (
	depthBrightnessWeight = 0.6
	depthEdgeWeight       = 0.4
)

// DepthFromImage estimates depth from luminance and edge strength:
// 0.6·brightness + 0.4·edges, min-max normalized to [0, 1]. A flat image
// yields an all-zero map.
func DepthFromImage(src image.Image) *components.DepthMap {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	d := components.NewDepthMap(w, h)
	if w == 0 || h == 0 {
		return d
	}

	lum := make([]float64, w*h)
	for y := range h {
		for x := range w {
			c := pixelAt(src, b.Min.X+x, b.Min.Y+y)
			lum[y*w+x] = (299*float64(c.R) + 587*float64(c.G) + 114*float64(c.B)) / 1000
		}
	}

	at := func(x, y int) float64 {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
		return lum[y*w+x]
	}
	for y := range h {
		for x := range w {
			// 3x3 Laplacian edge kernel, clamped to the 8-bit range.
			edge := 8 * at(x, y)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx != 0 || dy != 0 {
						edge -= at(x+dx, y+dy)
					}
				}
			}
			edge = min(max(edge, 0), 255)
			d.Values[y*w+x] = depthBrightnessWeight*lum[y*w+x]/255 + depthEdgeWeight*edge/255
		}
	}

	lo, hi := floats.Min(d.Values), floats.Max(d.Values)
	if hi-lo <= 0 {
		clear(d.Values)
		return d
	}
	floats.AddConst(-lo, d.Values)
	floats.Scale(1/(hi-lo), d.Values)
	return d
}
