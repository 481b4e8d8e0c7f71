package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is wrapped by every configuration rejection.
var ErrInvalid = errors.New("invalid configuration")

// fractionTolerance is how far phase fractions may drift from summing to 1.
const fractionTolerance = 1e-6

// Validate rejects nonsensical configurations. It never rewrites a field:
// a config that fails here must be fixed by the caller.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Animation.TotalFrames <= 0 {
		bad("animation.total_frames must be positive, got %d", c.Animation.TotalFrames)
	}
	switch c.Animation.Policy {
	case PolicyPersistent, PolicyTransient:
	default:
		bad("animation.policy must be %q or %q, got %q", PolicyPersistent, PolicyTransient, c.Animation.Policy)
	}

	var sum float64
	for i, f := range c.Phases.Fractions {
		if f < 0 || math.IsNaN(f) {
			bad("phases.fractions[%d] must be non-negative, got %v", i, f)
		}
		sum += f
	}
	if math.Abs(sum-1) > fractionTolerance {
		bad("phases.fractions must sum to 1, got %v", sum)
	}

	p := c.Particles
	if p.Step < 1 {
		bad("particles.step must be >= 1, got %d", p.Step)
	}
	if p.Threshold < 0 {
		bad("particles.threshold must be non-negative, got %d", p.Threshold)
	}
	if p.ColorJitter < 0 {
		bad("particles.color_jitter must be non-negative, got %d", p.ColorJitter)
	}
	if p.MinSize <= 0 {
		bad("particles.min_size must be positive, got %v", p.MinSize)
	}
	if p.Elevation < 0 {
		bad("particles.elevation must be non-negative, got %v", p.Elevation)
	}
	checkRange(bad, "particles.size", p.Size, true)
	checkRange(bad, "particles.speed", p.Speed, true)
	checkRange(bad, "particles.rotation", p.Rotation, false)
	checkRange(bad, "particles.rotation_speed", p.RotationSpeed, false)

	e := c.Explosion
	checkDrag(bad, "explosion.drag_xy", e.DragXY)
	checkDrag(bad, "explosion.drag_z", e.DragZ)
	switch e.OpacityMode {
	case OpacityHold, OpacityFade:
	default:
		bad("explosion.opacity_mode must be %q or %q, got %q", OpacityHold, OpacityFade, e.OpacityMode)
	}
	if e.FadeAmount < 0 || e.FadeAmount > 1 {
		bad("explosion.fade_amount must be in [0, 1], got %v", e.FadeAmount)
	}

	f := c.Floating
	if f.Opacity < 0 || f.Opacity > 255 {
		bad("floating.opacity must be in [0, 255], got %d", f.Opacity)
	}
	checkRange(bad, "floating.offset_xy", f.OffsetXY, false)
	checkRange(bad, "floating.offset_z", f.OffsetZ, false)
	for i, w := range f.Waves {
		switch w.Axis {
		case "x", "y", "z":
		default:
			bad("floating.waves[%d].axis must be x, y or z, got %q", i, w.Axis)
		}
		switch w.Func {
		case "sin", "cos":
		default:
			bad("floating.waves[%d].func must be sin or cos, got %q", i, w.Func)
		}
		switch w.Key {
		case "origin_x", "origin_y", "z":
		default:
			bad("floating.waves[%d].key must be origin_x, origin_y or z, got %q", i, w.Key)
		}
	}
	if f.Turbulence.Amplitude < 0 {
		bad("floating.turbulence.amplitude must be non-negative, got %v", f.Turbulence.Amplitude)
	}

	r := c.Return
	if r.Step <= 0 || r.Step > 1 {
		bad("return.step must be in (0, 1], got %v", r.Step)
	}
	if r.StepZ <= 0 || r.StepZ > 1 {
		bad("return.step_z must be in (0, 1], got %v", r.StepZ)
	}

	if c.Animation.Policy == PolicyTransient {
		t := c.Transient
		if t.MaxParticles <= 0 {
			bad("transient.max_particles must be positive, got %d", t.MaxParticles)
		}
		checkRange(bad, "transient.life", t.Life, true)
		if t.Life.Min < 1 {
			bad("transient.life.min must be >= 1 frame, got %v", t.Life.Min)
		}
		if t.SpawnBase < 0 {
			bad("transient.spawn_base must be non-negative, got %v", t.SpawnBase)
		}
		if t.AcceptGain < 0 {
			bad("transient.accept_gain must be non-negative, got %v", t.AcceptGain)
		}
		checkRange(bad, "transient.size", t.Size, true)
		checkRange(bad, "transient.vel_x", t.VelX, false)
		checkRange(bad, "transient.vel_y", t.VelY, false)
		checkRange(bad, "transient.vel_z", t.VelZ, false)
		checkDrag(bad, "transient.drag_xy", t.DragXY)
		checkDrag(bad, "transient.drag_z", t.DragZ)
		if t.SizeDepthDiv <= 0 {
			bad("transient.size_depth_div must be positive, got %v", t.SizeDepthDiv)
		}
	}

	rc := c.Render
	if rc.PerspectiveK < 0 {
		bad("render.perspective_k must be non-negative, got %v", rc.PerspectiveK)
	}
	if rc.MinPixelSize < 1 {
		bad("render.min_pixel_size must be >= 1, got %d", rc.MinPixelSize)
	}
	if rc.CullOpacity < 0 || rc.CullOpacity > 255 {
		bad("render.cull_opacity must be in [0, 255], got %d", rc.CullOpacity)
	}
	if rc.GlowAlpha < 0 || rc.GlowAlpha > 255 || rc.HighlightAlpha < 0 || rc.HighlightAlpha > 255 {
		bad("render glow/highlight alpha must be in [0, 255]")
	}
	if rc.HighlightLift < 0 || rc.HighlightLift > 1 {
		bad("render.highlight_lift must be in [0, 1], got %v", rc.HighlightLift)
	}

	switch c.Background.Mode {
	case BackgroundSolid, BackgroundExtraction:
	default:
		bad("background.mode must be %q or %q, got %q", BackgroundSolid, BackgroundExtraction, c.Background.Mode)
	}

	if c.Terminal.Frames < 0 {
		bad("terminal.frames must be non-negative, got %d", c.Terminal.Frames)
	}
	if c.Telemetry.LogEvery < 0 {
		bad("telemetry.log_every must be non-negative, got %d", c.Telemetry.LogEvery)
	}

	return errors.Join(errs...)
}

func checkRange(bad func(string, ...any), name string, r Range, nonNegative bool) {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		bad("%s has NaN bounds", name)
		return
	}
	if r.Min > r.Max {
		bad("%s is inverted: min %v > max %v", name, r.Min, r.Max)
	}
	if nonNegative && r.Min < 0 {
		bad("%s must be non-negative, got min %v", name, r.Min)
	}
}

func checkDrag(bad func(string, ...any), name string, v float64) {
	if v <= 0 || v > 1 {
		bad("%s must be in (0, 1], got %v", name, v)
	}
}
