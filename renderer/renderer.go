// Package renderer composites particles onto per-frame backgrounds.
//
// Everything here is a pure function of its inputs: Render never mutates
// the particle slice or the background it is handed, and keeps no state
// between calls.
package renderer

import (
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/dissolve/camera"
	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
)

// Renderer projects particles through a camera and draws them with the
// painter's algorithm.
type Renderer struct {
	cfg config.RenderConfig
	cam *camera.Camera
}

// New creates a renderer for a w×h canvas.
func New(cfg *config.Config, w, h int) *Renderer {
	return &Renderer{
		cfg: cfg.Render,
		cam: camera.New(w, h, cfg.Render.PerspectiveK),
	}
}

// DrawOrder returns particle indices farthest first. Equal depths keep
// their order in ps.
func DrawOrder(ps []components.Particle) []int {
	order := make([]int, len(ps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ps[order[a]].Pos.Z > ps[order[b]].Pos.Z
	})
	return order
}

// Render draws ps over a copy of bg and returns the new canvas together with
// the number of particles that survived culling.
func (r *Renderer) Render(ps []components.Particle, bg *image.RGBA) (*image.RGBA, int) {
	canvas := cloneRGBA(bg)
	drawn := 0
	for _, i := range DrawOrder(ps) {
		if r.drawParticle(canvas, &ps[i]) {
			drawn++
		}
	}
	return canvas, drawn
}

// drawParticle draws glow, body and highlight discs in that order. Returns
// false when the particle was culled.
func (r *Renderer) drawParticle(dst *image.RGBA, p *components.Particle) bool {
	cfg := r.cfg
	if p.Opacity <= cfg.CullOpacity {
		return false
	}

	sx, sy, persp := r.cam.WorldToScreen(p.Pos.X, p.Pos.Y, p.Pos.Z)
	size := camera.ApparentSize(p.Size, persp, cfg.MinPixelSize)
	if !r.cam.IsVisible(sx, sy, size) {
		return false
	}

	col := p.Color
	if cfg.DepthDimming {
		col = components.RGB{
			R: components.ClampChannel(float64(col.R) * persp),
			G: components.ClampChannel(float64(col.G) * persp),
			B: components.ClampChannel(float64(col.B) * persp),
		}
	}
	alpha := p.Opacity
	if cfg.AlphaByDepth {
		alpha = components.ClampOpacity(float64(alpha) * persp)
	}

	if math.Abs(p.Pos.Z) > cfg.GlowZ {
		glow := cfg.GlowAlpha
		if glow == 0 {
			glow = int(float64(alpha) * cfg.GlowAlphaScale)
		}
		fillDisc(dst, sx, sy, size+cfg.GlowGrow, col, glow)
	}

	fillDisc(dst, sx, sy, size, col, alpha)

	if cfg.HighlightMinSize > 0 && size > cfg.HighlightMinSize {
		hx, hy := r.highlightCenter(sx, sy, size)
		fillDisc(dst, hx, hy, max(2, size/4), lift(col, cfg.HighlightLift), cfg.HighlightAlpha*alpha/255)
	}
	return true
}

// highlightCenter shifts (sx, sy) toward the canvas center by
// highlight_offset particle sizes.
func (r *Renderer) highlightCenter(sx, sy float64, size int) (float64, float64) {
	dx := r.cam.ViewportW/2 - sx
	dy := r.cam.ViewportH/2 - sy
	d := math.Hypot(dx, dy)
	if d == 0 || r.cfg.HighlightOffset == 0 {
		return sx, sy
	}
	off := math.Min(r.cfg.HighlightOffset*float64(size), d)
	return sx + dx/d*off, sy + dy/d*off
}

// lift blends c toward white by t.
func lift(c components.RGB, t float64) components.RGB {
	white := colorful.Color{R: 1, G: 1, B: 1}
	rr, gg, bb := toColorful(c).BlendRgb(white, t).Clamped().RGB255()
	return components.RGB{R: rr, G: gg, B: bb}
}

func toColorful(c components.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
