// Package components defines the particle record shared by every stage of the
// dissolution pipeline.
package components

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Phase is the animation stage a particle is in. Phases only move forward.
type Phase uint8

const (
	PhaseExploding Phase = iota // Flying away from the origin
	PhaseFloating               // Wandering in pseudo-3D space
	PhaseReturning              // Converging back onto the origin
)

// String returns the lowercase phase name used in logs and CSV output.
func (p Phase) String() string {
	switch p {
	case PhaseExploding:
		return "exploding"
	case PhaseFloating:
		return "floating"
	case PhaseReturning:
		return "returning"
	default:
		return "unknown"
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(name string) (Phase, error) {
	for p := PhaseExploding; p <= PhaseReturning; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// Opacity bounds.
const (
	OpacityMin = 0
	OpacityMax = 255
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Sum returns the channel sum used for brightness thresholds.
func (c RGB) Sum() int {
	return int(c.R) + int(c.G) + int(c.B)
}

// Particle is a single colored dot sampled from the source image.
type Particle struct {
	Seq uint64 // Creation order; stable tie-break for depth sorting

	// Home position. Never reassigned after creation.
	OriginX, OriginY float64
	OriginZ          float64 // Initial depth (0 without a depth map)

	Pos r3.Vec // Current position
	Vel r3.Vec // Current velocity

	Color    RGB
	BaseSize float64
	Size     float64
	Opacity  int // Always within [OpacityMin, OpacityMax]

	// Cosmetic spin; does not affect physics or projection.
	Rotation      float64
	RotationSpeed float64

	Phase       Phase
	FloatOffset r3.Vec // Drift target chosen on entering PhaseFloating

	// Transient policy only. Life == 0 marks a persistent particle.
	BirthFrame int
	Life       int
}

// Transient reports whether the particle has a finite life.
func (p *Particle) Transient() bool {
	return p.Life > 0
}

// Age returns the number of frames since the particle was spawned.
func (p *Particle) Age(frame int) int {
	return frame - p.BirthFrame
}

// Expired reports whether a transient particle has outlived its budget.
func (p *Particle) Expired(frame int) bool {
	return p.Transient() && p.Age(frame) >= p.Life
}

// Advance moves the particle to phase next. Returns false (and leaves the
// phase unchanged) when next would regress.
func (p *Particle) Advance(next Phase) bool {
	if next < p.Phase {
		return false
	}
	p.Phase = next
	return true
}

// SetOpacity rounds and clamps v into the valid opacity range.
func (p *Particle) SetOpacity(v float64) {
	p.Opacity = ClampOpacity(v)
}

// SetSize assigns v, never letting the size drop below minSize.
func (p *Particle) SetSize(v, minSize float64) {
	if math.IsNaN(v) || v < minSize {
		v = minSize
	}
	p.Size = v
}

// DistanceToOrigin returns the 3D distance to (OriginX, OriginY, 0).
func (p *Particle) DistanceToOrigin() float64 {
	return r3.Norm(r3.Sub(p.Pos, r3.Vec{X: p.OriginX, Y: p.OriginY}))
}

// ClampOpacity rounds v to the nearest integer within [0, 255].
func ClampOpacity(v float64) int {
	if math.IsNaN(v) || v <= OpacityMin {
		return OpacityMin
	}
	if v >= OpacityMax {
		return OpacityMax
	}
	return int(math.Round(v))
}

// ClampChannel clamps v to a valid 8-bit channel value.
func ClampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
