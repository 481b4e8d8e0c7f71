package systems

import (
	"image"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
)

// Factory samples a source raster into particles. It also hands out the
// creation sequence numbers used as depth-sort tie-breaks, so every particle
// of a run should come from the same Factory.
type Factory struct {
	cfg  config.ParticlesConfig
	rng  *rand.Rand
	next uint64
}

// NewFactory creates a factory drawing all randomness from rng.
func NewFactory(cfg *config.Config, rng *rand.Rand) *Factory {
	return &Factory{cfg: cfg.Particles, rng: rng}
}

// Build emits one particle per step-aligned pixel whose channel sum exceeds
// the threshold, in row-major order. depth may be nil; when present its
// value times depth_scale becomes the initial z. The source is only read.
func (f *Factory) Build(src image.Image, depth *components.DepthMap) []components.Particle {
	b := src.Bounds()
	step := max(f.cfg.Step, 1)

	var out []components.Particle
	for y := 0; y < b.Dy(); y += step {
		for x := 0; x < b.Dx(); x += step {
			c := pixelAt(src, b.Min.X+x, b.Min.Y+y)
			if c.Sum() <= f.cfg.Threshold {
				continue
			}
			z := depth.At(x, y) * f.cfg.DepthScale
			out = append(out, f.newParticle(float64(x), float64(y), z, c))
		}
	}
	return out
}

// newParticle creates an exploding particle at rest on its origin with a
// velocity drawn from the configured spherical distribution.
func (f *Factory) newParticle(x, y, z float64, c components.RGB) components.Particle {
	az := f.rng.Float64() * 2 * math.Pi
	el := (f.rng.Float64()*2 - 1) * f.cfg.Elevation
	speed := f.cfg.Speed.Sample(f.rng)

	size := f.cfg.Size.Sample(f.rng)
	p := components.Particle{
		Seq:     f.nextSeq(),
		OriginX: x,
		OriginY: y,
		OriginZ: z,
		Pos:     r3.Vec{X: x, Y: y, Z: z},
		Vel: r3.Vec{
			X: math.Cos(az) * math.Cos(el) * speed,
			Y: math.Sin(az) * math.Cos(el) * speed,
			Z: math.Sin(el) * speed,
		},
		Color:         f.jitter(c),
		BaseSize:      size,
		Opacity:       components.OpacityMax,
		Rotation:      f.cfg.Rotation.Sample(f.rng),
		RotationSpeed: f.cfg.RotationSpeed.Sample(f.rng),
		Phase:         components.PhaseExploding,
	}
	p.SetSize(size, f.cfg.MinSize)
	return p
}

func (f *Factory) nextSeq() uint64 {
	s := f.next
	f.next++
	return s
}

// jitter shifts each channel by a uniform integer in ±color_jitter.
func (f *Factory) jitter(c components.RGB) components.RGB {
	j := f.cfg.ColorJitter
	if j <= 0 {
		return c
	}
	shift := func(v uint8) uint8 {
		return components.ClampChannel(float64(int(v) + f.rng.IntN(2*j+1) - j))
	}
	return components.RGB{R: shift(c.R), G: shift(c.G), B: shift(c.B)}
}

// pixelAt reads an 8-bit color, with a fast path for the RGBA rasters the
// pipeline normally produces.
func pixelAt(src image.Image, x, y int) components.RGB {
	if rgba, ok := src.(*image.RGBA); ok {
		i := rgba.PixOffset(x, y)
		s := rgba.Pix[i : i+3 : i+3]
		return components.RGB{R: s[0], G: s[1], B: s[2]}
	}
	r, g, b, _ := src.At(x, y).RGBA()
	return components.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}
