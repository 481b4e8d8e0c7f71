package systems

import (
	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/dissolve/config"
)

// Turbulence is a 3D displacement field built from simplex noise, sampled
// at a position and frame. A zero amplitude disables it.
type Turbulence struct {
	noise opensimplex.Noise
	cfg   config.NoiseConfig
}

// NewTurbulence creates a turbulence field seeded from seed.
func NewTurbulence(seed int64, cfg config.NoiseConfig) *Turbulence {
	return &Turbulence{noise: opensimplex.New(seed), cfg: cfg}
}

// Enabled reports whether the field displaces anything.
func (t *Turbulence) Enabled() bool {
	return t != nil && t.cfg.Amplitude > 0
}

// Offset returns the displacement at pos for frame f. Each axis reads the
// field at a different time slice so the components are decorrelated.
func (t *Turbulence) Offset(pos r3.Vec, f int) r3.Vec {
	if !t.Enabled() {
		return r3.Vec{}
	}
	x := pos.X * t.cfg.Scale
	y := pos.Y * t.cfg.Scale
	w := float64(f) * t.cfg.Speed
	return r3.Scale(t.cfg.Amplitude, r3.Vec{
		X: t.noise.Eval3(x, y, w),
		Y: t.noise.Eval3(x, y, w+31.7),
		Z: t.noise.Eval3(x, y, w+67.3),
	})
}
