package systems

import (
	"errors"
	"image"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
)

// Pool owns the particles of the transient policy: a bounded set that is
// refilled every frame from high-depth regions of the source and drained as
// particles outlive their budget.
type Pool struct {
	Particles []components.Particle

	cfg      config.TransientConfig
	capacity int
	factory  *Factory
	rng      *rand.Rand

	src     image.Image
	depth   *components.DepthMap
	weights []float64
	sampler sampleuv.Weighted
}

// NewPool creates an empty pool over src. Spawn positions are drawn with
// probability proportional to depth; when depth is nil the brightness/edge
// proxy of src is used.
func NewPool(cfg *config.Config, factory *Factory, src image.Image, depth *components.DepthMap, rng *rand.Rand) (*Pool, error) {
	if cfg.Transient.MaxParticles <= 0 {
		return nil, errors.New("pool: max_particles must be positive")
	}
	b := src.Bounds()
	if depth == nil {
		depth = DepthFromImage(src)
	}
	if !depth.Matches(b.Dx(), b.Dy()) {
		return nil, errors.New("pool: depth map does not match source dimensions")
	}

	weights := make([]float64, len(depth.Values))
	for i, v := range depth.Values {
		weights[i] = math.Max(v, 0)
	}

	return &Pool{
		Particles: make([]components.Particle, 0, cfg.Transient.MaxParticles),
		cfg:       cfg.Transient,
		capacity:  cfg.Transient.MaxParticles,
		factory:   factory,
		rng:       rng,
		src:       src,
		depth:     depth,
		weights:   weights,
		sampler:   sampleuv.NewWeighted(weights, rng),
	}, nil
}

// Capacity returns the maximum pool size.
func (p *Pool) Capacity() int { return p.capacity }

// Len returns the number of live particles.
func (p *Pool) Len() int { return len(p.Particles) }

// SpawnRate returns the number of spawn candidates drawn on frame f of a
// total-frame run.
func (p *Pool) SpawnRate(f, total int) int {
	t := 0.0
	if total > 0 {
		t = float64(f) / float64(total)
	}
	rate := int(p.cfg.SpawnBase * (1 + math.Sin(2*math.Pi*p.cfg.SpawnCycles*t)))
	return max(1, rate)
}

// Spawn draws SpawnRate candidates for tick t and inserts the accepted ones.
// Insertion stops once the pool is full. Returns the number inserted.
func (p *Pool) Spawn(t Tick) int {
	w := p.depth.Width
	spawned := 0
	for range p.SpawnRate(t.Frame, t.Total) {
		if len(p.Particles) >= p.capacity {
			break
		}
		idx, ok := p.sampler.Take()
		if !ok {
			break
		}
		// Sample with replacement.
		p.sampler.Reweight(idx, p.weights[idx])

		x, y := idx%w, idx/w
		d := p.depth.Values[idx]
		if p.rng.Float64() >= d*p.cfg.AcceptGain {
			continue
		}
		b := p.src.Bounds()
		c := pixelAt(p.src, b.Min.X+x, b.Min.Y+y)
		p.Particles = append(p.Particles, p.newParticle(float64(x), float64(y), d, c, t))
		spawned++
	}
	return spawned
}

func (p *Pool) newParticle(x, y, d float64, c components.RGB, t Tick) components.Particle {
	cfg := p.cfg
	f := p.factory
	z := d * cfg.DepthZ
	size := cfg.Size.Sample(p.rng) * (1 + d)

	q := components.Particle{
		Seq:     f.nextSeq(),
		OriginX: x,
		OriginY: y,
		OriginZ: z,
		Pos:     r3.Vec{X: x, Y: y, Z: z},
		Vel: r3.Vec{
			X: cfg.VelX.Sample(p.rng) * (1 + d),
			Y: cfg.VelY.Sample(p.rng) * (1 + 2*d),
			Z: cfg.VelZ.Sample(p.rng) * d,
		},
		Color:         f.jitter(c),
		BaseSize:      size,
		Opacity:       components.OpacityMax,
		Rotation:      f.cfg.Rotation.Sample(p.rng),
		RotationSpeed: cfg.RotationSpeed.Sample(p.rng),
		Phase:         t.Phase,
		BirthFrame:    t.Frame,
		Life:          max(1, int(math.Round(cfg.Life.Sample(p.rng)))),
	}
	q.SetSize(size*(1+z/cfg.SizeDepthDiv), f.cfg.MinSize)
	return q
}

// Expire removes particles whose age has reached their life and fades the
// rest linearly with age. Survivors keep their relative order. Returns the
// number removed.
func (p *Pool) Expire(frame int) int {
	alive := 0
	for i := range p.Particles {
		q := &p.Particles[i]
		if q.Expired(frame) {
			continue
		}
		q.SetOpacity(components.OpacityMax * (1 - float64(q.Age(frame))/float64(q.Life)))
		p.Particles[alive] = *q
		alive++
	}
	expired := len(p.Particles) - alive
	clear(p.Particles[alive:])
	p.Particles = p.Particles[:alive]
	return expired
}
