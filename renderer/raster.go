package renderer

import (
	"image"
	"math"

	"github.com/pthm-cable/dissolve/components"
)

// fillDisc alpha-composites a disc of the given pixel diameter onto dst.
// The center snaps to the middle of the pixel containing (cx, cy); a pixel
// is covered when its center lies within diameter/2 of it.
func fillDisc(dst *image.RGBA, cx, cy float64, diameter int, c components.RGB, alpha int) {
	if diameter <= 0 || alpha <= 0 {
		return
	}
	alpha = min(alpha, 255)

	ox := math.Floor(cx) + 0.5
	oy := math.Floor(cy) + 0.5
	r := float64(diameter) / 2
	r2 := r * r

	b := dst.Bounds()
	x0 := max(b.Min.X, int(math.Floor(ox-r)))
	x1 := min(b.Max.X-1, int(math.Ceil(ox+r)))
	y0 := max(b.Min.Y, int(math.Floor(oy-r)))
	y1 := min(b.Max.Y-1, int(math.Ceil(oy+r)))

	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - oy
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - ox
			if dx*dx+dy*dy > r2 {
				continue
			}
			i := dst.PixOffset(x, y)
			px := dst.Pix[i : i+4 : i+4]
			px[0] = blend(px[0], c.R, alpha)
			px[1] = blend(px[1], c.G, alpha)
			px[2] = blend(px[2], c.B, alpha)
			px[3] = 255
		}
	}
}

// blend is integer source-over of an opaque destination channel.
func blend(dst, src uint8, alpha int) uint8 {
	return uint8((int(src)*alpha + int(dst)*(255-alpha) + 127) / 255)
}

// cloneRGBA returns a deep copy of src with the same bounds.
func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := &image.RGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(out.Pix, src.Pix)
	return out
}
