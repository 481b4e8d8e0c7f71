package config

import (
	"fmt"
	"os"
	"sort"
)

// DefaultProfile is the profile produced by the embedded defaults.
const DefaultProfile = "always_visible"

// profiles maps a preset name to the overrides it applies on top of the
// embedded defaults.
var profiles = map[string]func(c *Config){
	// Full opacity throughout, large particles, no depth dimming.
	DefaultProfile: func(c *Config) {},

	// Smaller particles that fade during the explosion, dim with depth and
	// drift gently.
	"real_particles": func(c *Config) {
		c.Phases.Fractions = [3]float64{0.3, 0.4, 0.3}
		c.Phases.Easing = [3]string{"in_quad", "linear", "smoothstep"}
		c.Particles.Step = 2
		c.Particles.Threshold = 20
		c.Particles.Size = Range{Min: 1, Max: 3}
		c.Particles.Speed = Range{Min: 4, Max: 15}
		c.Particles.RotationSpeed = Range{Min: -15, Max: 15}
		c.Explosion = ExplosionConfig{
			Distance: 20, Depth: 15, Gravity: 0.3,
			DragXY: 0.98, DragZ: 0.95,
			OpacityMode: OpacityFade, FadeAmount: 0.3, Growth: 0.5,
		}
		c.Floating.Timestep = 0.1
		c.Floating.Waves = []WaveConfig{
			{Axis: "x", Func: "sin", Amplitude: 0.8, Frequency: 0.05, Key: "origin_x", KeyScale: 0.01},
			{Axis: "y", Func: "cos", Amplitude: 0.6, Frequency: 0.04, Key: "origin_y", KeyScale: 0.01},
			{Axis: "z", Func: "sin", Amplitude: 0.5, Frequency: 0.03, Key: "z", KeyScale: 0.02},
		}
		c.Floating.OrbitStrength = 0
		c.Floating.Spin = 0.2
		c.Floating.Opacity = 178
		c.Floating.OffsetXY = Range{}
		c.Floating.OffsetZ = Range{}
		c.Return = ReturnConfig{Step: 0.15, StepZ: 0.2, Spin: 0.1}
		c.Render.PerspectiveK = 0.02
		c.Render.DepthDimming = true
		c.Render.AlphaByDepth = true
		c.Render.MinPixelSize = 1
		c.Render.GlowZ = 10
		c.Render.GlowGrow = 3
		c.Render.GlowAlpha = 0
		c.Render.GlowAlphaScale = 0.25
		c.Render.HighlightMinSize = 0
		c.Background.Color = [3]uint8{5, 5, 15}
	},

	// Depth-proxy driven: particles start at brightness/edge depth and
	// return to it, with a strong fade and growth during the explosion.
	"enhanced": func(c *Config) {
		c.Phases.Fractions = [3]float64{0.4, 0.2, 0.4}
		c.Phases.Easing = [3]string{"out_quad", "linear", "smoothstep"}
		c.Particles.Step = 2
		c.Particles.Threshold = 20
		c.Particles.DepthScale = 50
		c.Particles.Size = Range{Min: 1, Max: 3}
		c.Particles.Speed = Range{Min: 4, Max: 15}
		c.Explosion = ExplosionConfig{
			Distance: 25, Depth: 25, Gravity: 0.4,
			DragXY: 0.97, DragZ: 0.95,
			OpacityMode: OpacityFade, FadeAmount: 0.8, Growth: 1.5,
		}
		c.Floating.Timestep = 0
		c.Floating.Waves = []WaveConfig{
			{Axis: "x", Func: "sin", Amplitude: 0.5, Frequency: 0.1, Key: "origin_x", KeyScale: 0.01},
			{Axis: "y", Func: "cos", Amplitude: 0.3, Frequency: 0.08, Key: "origin_y", KeyScale: 0.01},
			{Axis: "z", Func: "sin", Amplitude: 0.8, Frequency: 0.05, Key: "z", KeyScale: 0.02},
		}
		c.Floating.OrbitStrength = 0
		c.Floating.Spin = 0.3
		c.Floating.Opacity = 102
		c.Floating.OffsetXY = Range{}
		c.Floating.OffsetZ = Range{}
		c.Return = ReturnConfig{Step: 0.15, StepZ: 0.2, Spin: 1, ZToOrigin: true}
		c.Render.PerspectiveK = 0.02
		c.Render.DepthDimming = true
		c.Render.AlphaByDepth = true
		c.Render.MinPixelSize = 1
		c.Render.GlowZ = 10
		c.Render.GlowGrow = 3
		c.Render.GlowAlpha = 0
		c.Render.GlowAlphaScale = 0.25
		c.Render.HighlightMinSize = 0
		c.Background.Color = [3]uint8{5, 5, 15}
	},

	// Two phases only: a flat explosion that fades to 30% and a cubic
	// ease-out return. The explosion factor reaches 2 at the end of the
	// phase, so distance and gravity are twice the per-unit constants.
	"classic": func(c *Config) {
		c.Animation.TotalFrames = 60
		c.Animation.MaxSize = 400
		c.Animation.FrameDelay = 15
		c.Phases.Fractions = [3]float64{0.5, 0, 0.5}
		c.Phases.Easing = [3]string{"linear", "linear", "out_cubic"}
		c.Particles.Step = 3
		c.Particles.Threshold = 50
		c.Particles.Size = Range{Min: 1, Max: 3}
		c.Particles.Speed = Range{Min: 2, Max: 8}
		c.Particles.Elevation = 0
		c.Particles.RotationSpeed = Range{}
		c.Explosion = ExplosionConfig{
			Distance: 40, Depth: 0, Gravity: 0.6,
			DragXY: 0.98, DragZ: 0.98,
			OpacityMode: OpacityFade, FadeAmount: 0.7, Growth: 0.5,
		}
		c.Return = ReturnConfig{Step: 0.1, StepZ: 0.1}
		c.Render.MinPixelSize = 1
		c.Render.CullOpacity = 5
		c.Render.HighlightMinSize = 0
		c.Background.Color = [3]uint8{20, 20, 30}
	},

	// Every pixel sampled, long dramatic float with orbits, minimal fade
	// and depth-dimmed glow.
	"ultra_quality": func(c *Config) {
		c.Animation.TotalFrames = 120
		c.Animation.MaxSize = 400
		c.Animation.FrameDelay = 8
		c.Phases.Fractions = [3]float64{0.25, 0.5, 0.25}
		c.Particles.Size = Range{Min: 2, Max: 5}
		c.Particles.Speed = Range{Min: 6, Max: 20}
		c.Particles.RotationSpeed = Range{Min: -20, Max: 20}
		c.Explosion = ExplosionConfig{
			Distance: 25, Depth: 20, Gravity: 0.4,
			DragXY: 0.99, DragZ: 0.97,
			OpacityMode: OpacityFade, FadeAmount: 0.2, Growth: 0.3,
		}
		c.Floating.Timestep = 0.15
		c.Floating.Waves = []WaveConfig{
			{Axis: "x", Func: "sin", Amplitude: 1.5, Frequency: 0.08, Key: "origin_x", KeyScale: 0.02},
			{Axis: "y", Func: "cos", Amplitude: 1.2, Frequency: 0.08, Key: "origin_y", KeyScale: 0.015},
			{Axis: "z", Func: "sin", Amplitude: 1.0, Frequency: 0.056, Key: "z", KeyScale: 0.03},
		}
		c.Floating.OrbitSpeed = 0.04
		c.Floating.OrbitPhase = 0.01
		c.Floating.OrbitRadius = 20
		c.Floating.OrbitDepthGain = 0.5
		c.Floating.OrbitStrength = 0.1
		c.Floating.Spin = 0.3
		c.Floating.Opacity = 242
		c.Floating.OffsetXY = Range{Min: -50, Max: 50}
		c.Floating.OffsetZ = Range{Min: -30, Max: 30}
		c.Return = ReturnConfig{Step: 0.2, StepZ: 0.25, Spin: 0.05}
		c.Render.PerspectiveK = 0.015
		c.Render.DepthDimming = true
		c.Render.AlphaByDepth = true
		c.Render.MinPixelSize = 2
		c.Render.GlowZ = 8
		c.Render.GlowGrow = 4
		c.Render.GlowAlpha = 0
		c.Render.GlowAlphaScale = 0.33
		c.Render.HighlightMinSize = 3
		c.Render.HighlightLift = 0.12
		c.Render.HighlightOffset = 0
		c.Background.Color = [3]uint8{2, 2, 8}
	},

	// Tiny high-density particles with a long floating phase and a forced
	// blend onto the source over the last frames.
	"perfect_final": func(c *Config) {
		ultraHD(c)
		c.Animation.TotalFrames = 140
		c.Phases.Fractions = [3]float64{0.15, 0.55, 0.3}
		c.Terminal.Frames = 10
		c.Background.Color = [3]uint8{0, 0, 2}
	},

	// Tiny high-density particles, fast explosion, wide orbits.
	"ultra_hd": ultraHD,

	// Transient pool: particles continuously peel off high-depth regions of
	// a fading, rippling copy of the source.
	"powder": func(c *Config) {
		c.Animation.TotalFrames = 180
		c.Animation.Policy = PolicyTransient
		c.Animation.MaxSize = 600
		c.Animation.FrameDelay = 3
		c.Particles.ColorJitter = 20
		c.Render.PerspectiveK = 0.005
		c.Render.MinPixelSize = 1
		c.Render.GlowZ = 50
		c.Render.GlowGrow = 2
		c.Render.GlowAlpha = 0
		c.Render.GlowAlphaScale = 0.3
		c.Render.HighlightMinSize = 0
		c.Background.Mode = BackgroundExtraction
		c.Background.Shimmer.Amplitude = 0.04
	},
}

func ultraHD(c *Config) {
	c.Animation.TotalFrames = 120
	c.Animation.MaxSize = 500
	c.Animation.FrameDelay = 7
	c.Particles.Size = Range{Min: 0.8, Max: 2.5}
	c.Particles.Speed = Range{Min: 10, Max: 30}
	c.Particles.RotationSpeed = Range{Min: -30, Max: 30}
	c.Explosion.Growth = 0.15
	c.Floating.Timestep = 0.25
	c.Floating.Waves = []WaveConfig{
		{Axis: "x", Func: "sin", Amplitude: 2.5, Frequency: 0.12, Key: "origin_x", KeyScale: 0.03},
		{Axis: "y", Func: "cos", Amplitude: 2.2, Frequency: 0.12, Key: "origin_y", KeyScale: 0.025},
		{Axis: "z", Func: "sin", Amplitude: 2.0, Frequency: 0.108, Key: "z", KeyScale: 0.05},
	}
	c.Floating.OrbitSpeed = 0.084
	c.Floating.OrbitPhase = 0.02
	c.Floating.OrbitRadius = 30
	c.Floating.OrbitDepthGain = 0.8
	c.Floating.OrbitStrength = 0.2
	c.Floating.Spin = 0.5
	c.Floating.OffsetXY = Range{Min: -80, Max: 80}
	c.Floating.OffsetZ = Range{Min: -50, Max: 50}
	c.Floating.Turbulence.Amplitude = 0.6
	c.Return = ReturnConfig{Step: 0.3, StepZ: 0.35, Spin: 0.05}
	c.Render.PerspectiveK = 0.01
	c.Render.MinPixelSize = 1
	c.Render.HighlightMinSize = 3
}

// ProfileNames returns the preset names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profile returns the named preset: embedded defaults with the preset's
// overrides applied, derived values computed and validated.
func Profile(name string) (*Config, error) {
	apply, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", name)
	}
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}
	apply(cfg)
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	return cfg, nil
}

// LoadProfile starts from the named preset and merges the YAML file at path
// over it. An empty path returns the preset unchanged.
func LoadProfile(name, path string) (*Config, error) {
	cfg, err := Profile(name)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := cfg.Merge(data); err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
