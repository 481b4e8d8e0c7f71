package renderer

import (
	"image"

	"github.com/pthm-cable/dissolve/easing"
)

// TerminalWeight returns how strongly frame f of a total-frame run is pulled
// toward the source when the last n frames are blended. The weight eases
// from above 0 on the first blended frame to exactly 1 on the last frame.
// ok is false outside the blended window.
func TerminalWeight(f, total, n int, ease easing.Func) (w float64, ok bool) {
	start := total - n
	if n <= 0 || f < start || f >= total {
		return 0, false
	}
	if ease == nil {
		ease = easing.Linear
	}
	return ease(float64(f-start+1) / float64(n)), true
}

// BlendToSource moves every pixel of canvas toward the same pixel of src by
// w in [0, 1]. canvas is modified in place; it must be an image the caller
// owns, such as the result of Render. Both images must share bounds.
func BlendToSource(canvas, src *image.RGBA, w float64) {
	if w <= 0 {
		return
	}
	if w >= 1 {
		copy(canvas.Pix, src.Pix)
		return
	}
	a := int(w*255 + 0.5)
	for i := 0; i+3 < len(canvas.Pix) && i+3 < len(src.Pix); i += 4 {
		canvas.Pix[i] = blend(canvas.Pix[i], src.Pix[i], a)
		canvas.Pix[i+1] = blend(canvas.Pix[i+1], src.Pix[i+1], a)
		canvas.Pix[i+2] = blend(canvas.Pix[i+2], src.Pix[i+2], a)
		canvas.Pix[i+3] = 255
	}
}
