package systems

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
)

// Integrator advances particle state by one frame. State accumulates: the
// result of frame f+1 depends on what frame f left behind, so Step must be
// called once per frame in order.
type Integrator struct {
	particles  config.ParticlesConfig
	explosion  config.ExplosionConfig
	floating   config.FloatingConfig
	ret        config.ReturnConfig
	transient  config.TransientConfig
	turbulence *Turbulence
	rng        *rand.Rand
}

// NewIntegrator creates an integrator. rng supplies the floating offsets;
// turbulence may be nil.
func NewIntegrator(cfg *config.Config, rng *rand.Rand, turbulence *Turbulence) *Integrator {
	return &Integrator{
		particles:  cfg.Particles,
		explosion:  cfg.Explosion,
		floating:   cfg.Floating,
		ret:        cfg.Return,
		transient:  cfg.Transient,
		turbulence: turbulence,
		rng:        rng,
	}
}

// Step updates every particle in place for tick t.
func (in *Integrator) Step(ps []components.Particle, t Tick) {
	for i := range ps {
		p := &ps[i]
		if p.Transient() {
			in.drift(p, t)
			continue
		}
		switch t.Phase {
		case components.PhaseExploding:
			in.explode(p, t)
		case components.PhaseFloating:
			in.float(p, t)
		case components.PhaseReturning:
			in.converge(p, t)
		}
	}
}

// explode displaces the particle from its origin along its velocity.
func (in *Integrator) explode(p *components.Particle, t Tick) {
	e := t.Eased
	cfg := in.explosion

	p.Pos.X = p.OriginX + p.Vel.X*e*cfg.Distance
	p.Pos.Y = p.OriginY + p.Vel.Y*e*cfg.Distance
	p.Pos.Z = p.OriginZ + p.Vel.Z*e*cfg.Depth

	p.Vel.Y += cfg.Gravity * e
	p.Vel.X *= cfg.DragXY
	p.Vel.Y *= cfg.DragXY
	p.Vel.Z *= cfg.DragZ

	p.Rotation += p.RotationSpeed * e

	if cfg.OpacityMode == config.OpacityFade {
		p.SetOpacity(components.OpacityMax * (1 - e*cfg.FadeAmount))
	} else {
		p.Opacity = components.OpacityMax
	}
	p.SetSize(p.BaseSize*(1+e*cfg.Growth), in.particles.MinSize)
}

// float moves the particle along waves and an orbit. It never converges.
func (in *Integrator) float(p *components.Particle, t Tick) {
	cfg := in.floating
	if p.Phase < components.PhaseFloating {
		p.Advance(components.PhaseFloating)
		p.FloatOffset = r3.Vec{
			X: cfg.OffsetXY.Sample(in.rng),
			Y: cfg.OffsetXY.Sample(in.rng),
			Z: cfg.OffsetZ.Sample(in.rng),
		}
	}
	f := float64(t.Frame)

	p.Pos = r3.Add(p.Pos, r3.Scale(cfg.Timestep, p.Vel))
	if t.Length > 0 {
		// Spread the offset over the phase so it is fully applied by the end.
		p.Pos = r3.Add(p.Pos, r3.Scale(1/float64(t.Length), p.FloatOffset))
	}

	for _, w := range cfg.Waves {
		var key float64
		switch w.Key {
		case "origin_x":
			key = p.OriginX
		case "origin_y":
			key = p.OriginY
		case "z":
			key = p.Pos.Z
		}
		arg := f*w.Frequency + key*w.KeyScale
		v := math.Sin(arg)
		if w.Func == "cos" {
			v = math.Cos(arg)
		}
		v *= w.Amplitude
		switch w.Axis {
		case "x":
			p.Pos.X += v
		case "y":
			p.Pos.Y += v
		case "z":
			p.Pos.Z += v
		}
	}

	if cfg.OrbitStrength != 0 {
		angle := f*cfg.OrbitSpeed + p.OriginX*cfg.OrbitPhase
		radius := cfg.OrbitRadius + math.Abs(p.Pos.Z)*cfg.OrbitDepthGain
		p.Pos.X += math.Cos(angle) * radius * cfg.OrbitStrength
		p.Pos.Y += math.Sin(angle) * radius * cfg.OrbitStrength
	}

	if in.turbulence.Enabled() {
		p.Pos = r3.Add(p.Pos, in.turbulence.Offset(p.Pos, t.Frame))
	}

	p.Rotation += p.RotationSpeed * cfg.Spin
	p.SetOpacity(float64(cfg.Opacity))
	p.SetSize(p.Size, in.particles.MinSize)
}

// converge closes a fraction of the gap to the home position each frame.
// The fraction grows with the eased end-of-frame progress and becomes 1 on
// the last frame of the phase, so the particle lands exactly on its origin.
func (in *Integrator) converge(p *components.Particle, t Tick) {
	cfg := in.ret
	if p.Phase < components.PhaseReturning {
		p.Advance(components.PhaseReturning)
	}
	e := t.EndEased

	targetZ := 0.0
	if cfg.ZToOrigin {
		targetZ = p.OriginZ
	}
	if e >= 1 {
		// Assign rather than step so rounding cannot leave a residue.
		p.Pos = r3.Vec{X: p.OriginX, Y: p.OriginY, Z: targetZ}
	} else {
		kxy, kz := e*cfg.Step, e*cfg.StepZ
		p.Pos.X += (p.OriginX - p.Pos.X) * kxy
		p.Pos.Y += (p.OriginY - p.Pos.Y) * kxy
		p.Pos.Z += (targetZ - p.Pos.Z) * kz
	}

	p.Rotation += p.RotationSpeed * cfg.Spin
	p.RotationSpeed *= 1 - e

	p.SetOpacity(float64(p.Opacity) + float64(components.OpacityMax-p.Opacity)*e)
	p.SetSize(p.Size+(p.BaseSize-p.Size)*e, in.particles.MinSize)
}

// drift is the ballistic motion of transient particles. Their opacity is
// owned by the pool, which derives it from age.
func (in *Integrator) drift(p *components.Particle, t Tick) {
	cfg := in.transient
	p.Advance(t.Phase)

	p.Pos = r3.Add(p.Pos, p.Vel)
	p.Vel.Y += cfg.Gravity
	p.Vel.X *= cfg.DragXY
	p.Vel.Y *= cfg.DragXY
	p.Vel.Z *= cfg.DragZ

	p.Rotation += p.RotationSpeed
	p.SetSize(p.BaseSize*(1+p.Pos.Z/cfg.SizeDepthDiv), in.particles.MinSize)
}
