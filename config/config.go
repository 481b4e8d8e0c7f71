// Package config provides configuration loading and access for the animation.
package config

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/dissolve/easing"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Particle policies.
const (
	PolicyPersistent = "persistent" // One particle per sampled pixel, alive for the whole run
	PolicyTransient  = "transient"  // Continuously spawned particles with finite life
)

// Explosion opacity modes.
const (
	OpacityHold = "hold" // Opacity pinned at 255
	OpacityFade = "fade" // Opacity fades linearly toward a floor
)

// Background modes.
const (
	BackgroundSolid      = "solid"
	BackgroundExtraction = "extraction"
)

// Config holds all animation configuration parameters. Named presets live in
// profiles.go.
type Config struct {
	Animation  AnimationConfig  `yaml:"animation"`
	Phases     PhasesConfig     `yaml:"phases"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Explosion  ExplosionConfig  `yaml:"explosion"`
	Floating   FloatingConfig   `yaml:"floating"`
	Return     ReturnConfig     `yaml:"return"`
	Transient  TransientConfig  `yaml:"transient"`
	Render     RenderConfig     `yaml:"render"`
	Background BackgroundConfig `yaml:"background"`
	Terminal   TerminalConfig   `yaml:"terminal"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample returns a uniform value in [Min, Max].
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// AnimationConfig holds run-level settings.
type AnimationConfig struct {
	TotalFrames int    `yaml:"total_frames"`
	Policy      string `yaml:"policy"`      // persistent | transient
	MaxSize     int    `yaml:"max_size"`    // Longest source edge after resizing (CLI only)
	FrameDelay  int    `yaml:"frame_delay"` // Hundredths of a second per frame (CLI only)
}

// PhasesConfig partitions total_frames into explosion / floating / return.
type PhasesConfig struct {
	Fractions [3]float64 `yaml:"fractions"` // Must sum to 1
	Easing    [3]string  `yaml:"easing"`    // Easing name per phase, see easing.Parse
}

// ParticlesConfig controls how the source raster is sampled into particles.
type ParticlesConfig struct {
	Step          int     `yaml:"step"`           // Sampling stride in pixels
	Threshold     int     `yaml:"threshold"`      // Minimum exclusive r+g+b sum
	ColorJitter   int     `yaml:"color_jitter"`   // ±jitter per channel
	DepthScale    float64 `yaml:"depth_scale"`    // Initial z = depth * this
	Size          Range   `yaml:"size"`           // Base size
	MinSize       float64 `yaml:"min_size"`       // Size floor after every update
	Speed         Range   `yaml:"speed"`          // Initial velocity magnitude
	Elevation     float64 `yaml:"elevation"`      // Max |elevation| in radians
	Rotation      Range   `yaml:"rotation"`       // Initial rotation in degrees
	RotationSpeed Range   `yaml:"rotation_speed"` // Degrees per frame
}

// ExplosionConfig holds explosion phase physics.
type ExplosionConfig struct {
	Distance    float64 `yaml:"distance"`     // XY displacement = vel * ease * distance
	Depth       float64 `yaml:"depth"`        // Z displacement = vz * ease * depth
	Gravity     float64 `yaml:"gravity"`      // vy += gravity * ease each frame
	DragXY      float64 `yaml:"drag_xy"`      // Per-frame velocity multiplier (x, y)
	DragZ       float64 `yaml:"drag_z"`       // Per-frame velocity multiplier (z)
	OpacityMode string  `yaml:"opacity_mode"` // hold | fade
	FadeAmount  float64 `yaml:"fade_amount"`  // Fraction of 255 lost at ease == 1
	Growth      float64 `yaml:"growth"`       // size = base * (1 + ease * growth)
}

// WaveConfig is one sinusoidal drift term of the floating phase:
// axis += amplitude * fn(frame * frequency + key * key_scale).
type WaveConfig struct {
	Axis      string  `yaml:"axis"` // x | y | z
	Func      string  `yaml:"func"` // sin | cos
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Key       string  `yaml:"key"` // origin_x | origin_y | z
	KeyScale  float64 `yaml:"key_scale"`
}

// FloatingConfig holds floating phase drift parameters.
type FloatingConfig struct {
	Timestep       float64      `yaml:"timestep"` // pos += vel * timestep
	Waves          []WaveConfig `yaml:"waves"`
	OrbitSpeed     float64      `yaml:"orbit_speed"`      // Angle advance per frame
	OrbitPhase     float64      `yaml:"orbit_phase"`      // Angle offset per origin_x pixel
	OrbitRadius    float64      `yaml:"orbit_radius"`     // Base radius
	OrbitDepthGain float64      `yaml:"orbit_depth_gain"` // Extra radius per |z|
	OrbitStrength  float64      `yaml:"orbit_strength"`   // Fraction of the orbit applied per frame
	Spin           float64      `yaml:"spin"`             // rotation += rotation_speed * spin
	Opacity        int          `yaml:"opacity"`
	OffsetXY       Range        `yaml:"offset_xy"` // Per-particle drift target (x and y)
	OffsetZ        Range        `yaml:"offset_z"`
	Turbulence     NoiseConfig  `yaml:"turbulence"`
}

// NoiseConfig parameterizes an opensimplex noise term.
type NoiseConfig struct {
	Amplitude float64 `yaml:"amplitude"` // 0 disables the term
	Scale     float64 `yaml:"scale"`     // Spatial frequency
	Speed     float64 `yaml:"speed"`     // Temporal frequency per frame
}

// ReturnConfig holds return phase convergence parameters.
type ReturnConfig struct {
	Step      float64 `yaml:"step"`        // XY fraction of the remaining gap closed at ease == 1
	StepZ     float64 `yaml:"step_z"`      // Z fraction of the remaining gap closed at ease == 1
	Spin      float64 `yaml:"spin"`        // rotation += rotation_speed * (1-ease) * spin
	ZToOrigin bool    `yaml:"z_to_origin"` // Return z to origin_z instead of 0
}

// TransientConfig holds the bounded pool settings of the transient policy.
type TransientConfig struct {
	MaxParticles  int     `yaml:"max_particles"`
	Life          Range   `yaml:"life"`       // Frames
	SpawnBase     float64 `yaml:"spawn_base"` // rate = max(1, base * (1 + sin(2π * cycles * t)))
	SpawnCycles   float64 `yaml:"spawn_cycles"`
	AcceptGain    float64 `yaml:"accept_gain"` // Accept a candidate with probability depth * gain
	VelX          Range   `yaml:"vel_x"`       // Scaled by (1 + depth)
	VelY          Range   `yaml:"vel_y"`       // Scaled by (1 + 2*depth)
	VelZ          Range   `yaml:"vel_z"`       // Scaled by depth
	DepthZ        float64 `yaml:"depth_z"`     // Initial z = depth * this
	Size          Range   `yaml:"size"`        // Scaled by (1 + depth)
	RotationSpeed Range   `yaml:"rotation_speed"`
	Gravity       float64 `yaml:"gravity"`
	DragXY        float64 `yaml:"drag_xy"`
	DragZ         float64 `yaml:"drag_z"`
	SizeDepthDiv  float64 `yaml:"size_depth_div"` // size = base * (1 + z / this)
}

// RenderConfig holds projection and compositing parameters.
type RenderConfig struct {
	PerspectiveK     float64 `yaml:"perspective_k"`      // p = 1 / (1 + |z| * k)
	DepthDimming     bool    `yaml:"depth_dimming"`      // rgb *= p
	AlphaByDepth     bool    `yaml:"alpha_by_depth"`     // alpha *= p
	MinPixelSize     int     `yaml:"min_pixel_size"`     // Apparent size floor in pixels
	CullOpacity      int     `yaml:"cull_opacity"`       // Skip particles with opacity <= this
	GlowZ            float64 `yaml:"glow_z"`             // Draw glow when |z| > this
	GlowGrow         int     `yaml:"glow_grow"`          // Glow diameter = size + grow
	GlowAlpha        int     `yaml:"glow_alpha"`         // Fixed glow alpha; 0 uses glow_alpha_scale
	GlowAlphaScale   float64 `yaml:"glow_alpha_scale"`   // Glow alpha = alpha * scale
	HighlightMinSize int     `yaml:"highlight_min_size"` // Highlight when size > this; 0 disables
	HighlightAlpha   int     `yaml:"highlight_alpha"`
	HighlightLift    float64 `yaml:"highlight_lift"`   // Blend toward white, 0..1
	HighlightOffset  float64 `yaml:"highlight_offset"` // Shift toward canvas center, in sizes
}

// BackgroundConfig selects and parameterizes the per-frame backdrop.
type BackgroundConfig struct {
	Mode             string      `yaml:"mode"`              // solid | extraction
	Color            [3]uint8    `yaml:"color"`             // Solid fill
	ExtractThreshold float64     `yaml:"extract_threshold"` // Depth above which pixels fade
	ExtractBase      float64     `yaml:"extract_base"`      // Intensity = base + swing * sin(2πt)
	ExtractSwing     float64     `yaml:"extract_swing"`
	FadeGain         float64     `yaml:"fade_gain"`      // fade = 1 - depth * intensity * gain
	GrayGain         float64     `yaml:"gray_gain"`      // Desaturation = depth * gain
	WaveAmplitude    float64     `yaml:"wave_amplitude"` // Row roll in pixels
	WaveRowScale     float64     `yaml:"wave_row_scale"` // Phase advance per row
	Shimmer          NoiseConfig `yaml:"shimmer"`        // Brightness noise
}

// TerminalConfig controls the optional forced blend toward the source image
// over the last frames of the run.
type TerminalConfig struct {
	Frames int    `yaml:"frames"` // 0 disables
	Easing string `yaml:"easing"`
}

// TelemetryConfig holds logging and CSV output parameters.
type TelemetryConfig struct {
	LogEvery   int `yaml:"log_every"`   // Progress log interval in frames; 0 disables
	PerfWindow int `yaml:"perf_window"` // Rolling window of the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Easings        [3]easing.Func // Resolved Phases.Easing
	TerminalEasing easing.Func
	Transient      bool // Animation.Policy == transient
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := cfg.Merge(data); err != nil {
			return nil, err
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge unmarshals YAML over c. Only fields present in data are overwritten.
// Call Finalize afterwards.
func (c *Config) Merge(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Finalize recomputes derived values and validates the result.
func (c *Config) Finalize() error {
	if err := c.computeDerived(); err != nil {
		return err
	}
	return c.Validate()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	for i, name := range c.Phases.Easing {
		fn, err := easing.Parse(name)
		if err != nil {
			return fmt.Errorf("%w: phases.easing[%d]: %v", ErrInvalid, i, err)
		}
		c.Derived.Easings[i] = fn
	}

	fn, err := easing.Parse(c.Terminal.Easing)
	if err != nil {
		return fmt.Errorf("%w: terminal.easing: %v", ErrInvalid, err)
	}
	c.Derived.TerminalEasing = fn

	c.Derived.Transient = c.Animation.Policy == PolicyTransient
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Floating.Waves = append([]WaveConfig(nil), c.Floating.Waves...)
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
