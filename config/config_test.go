package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Animation.TotalFrames != 100 {
		t.Errorf("total_frames = %d, want 100", cfg.Animation.TotalFrames)
	}
	if cfg.Phases.Fractions != [3]float64{0.2, 0.6, 0.2} {
		t.Errorf("fractions = %v", cfg.Phases.Fractions)
	}
	if len(cfg.Floating.Waves) != 3 {
		t.Errorf("expected 3 default waves, got %d", len(cfg.Floating.Waves))
	}
	for i, fn := range cfg.Derived.Easings {
		if fn == nil {
			t.Errorf("phase %d easing not resolved", i)
		}
	}
	// power:1.5 explosion easing
	if got := cfg.Derived.Easings[0](0.25); math.Abs(got-0.125) > 1e-9 {
		t.Errorf("explosion easing(0.25) = %v, want 0.125", got)
	}
	if cfg.Derived.Transient {
		t.Error("defaults should use the persistent policy")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero frames", func(c *Config) { c.Animation.TotalFrames = 0 }},
		{"negative frames", func(c *Config) { c.Animation.TotalFrames = -5 }},
		{"bad policy", func(c *Config) { c.Animation.Policy = "sometimes" }},
		{"fractions short", func(c *Config) { c.Phases.Fractions = [3]float64{0.2, 0.6, 0.1} }},
		{"fractions negative", func(c *Config) { c.Phases.Fractions = [3]float64{-0.2, 0.6, 0.6} }},
		{"zero step", func(c *Config) { c.Particles.Step = 0 }},
		{"inverted size", func(c *Config) { c.Particles.Size = Range{Min: 5, Max: 1} }},
		{"negative speed", func(c *Config) { c.Particles.Speed = Range{Min: -1, Max: 3} }},
		{"zero min size", func(c *Config) { c.Particles.MinSize = 0 }},
		{"drag above one", func(c *Config) { c.Explosion.DragXY = 1.2 }},
		{"zero drag", func(c *Config) { c.Explosion.DragZ = 0 }},
		{"bad opacity mode", func(c *Config) { c.Explosion.OpacityMode = "flicker" }},
		{"floating opacity", func(c *Config) { c.Floating.Opacity = 300 }},
		{"wave axis", func(c *Config) { c.Floating.Waves[0].Axis = "w" }},
		{"return step", func(c *Config) { c.Return.Step = 0 }},
		{"negative k", func(c *Config) { c.Render.PerspectiveK = -0.1 }},
		{"bad background", func(c *Config) { c.Background.Mode = "plaid" }},
		{"transient capacity", func(c *Config) {
			c.Animation.Policy = PolicyTransient
			c.Transient.MaxParticles = 0
		}},
		{"transient life", func(c *Config) {
			c.Animation.Policy = PolicyTransient
			c.Transient.Life = Range{Min: 0, Max: 10}
		}},
		{"bad easing", func(c *Config) { c.Phases.Easing[1] = "wobble" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Defaults()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Finalize()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestValidateReadsPolicyDirectly(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	// Derived values are stale here; Validate must still see the policy.
	cfg.Animation.Policy = PolicyTransient
	cfg.Transient.MaxParticles = -5
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate = %v, want ErrInvalid", err)
	}
}

func TestValidateDoesNotRewrite(t *testing.T) {
	cfg, _ := Defaults()
	cfg.Phases.Fractions = [3]float64{0.5, 0.5, 0.5}
	_ = cfg.Finalize()
	if cfg.Phases.Fractions != [3]float64{0.5, 0.5, 0.5} {
		t.Errorf("fractions rewritten to %v", cfg.Phases.Fractions)
	}
}

func TestProfiles(t *testing.T) {
	names := ProfileNames()
	want := []string{"always_visible", "classic", "enhanced", "perfect_final", "powder", "real_particles", "ultra_hd", "ultra_quality"}
	if len(names) != len(want) {
		t.Fatalf("profiles = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("profiles = %v, want %v", names, want)
		}
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg, err := Profile(name)
			if err != nil {
				t.Fatalf("Profile(%q): %v", name, err)
			}
			var sum float64
			for _, f := range cfg.Phases.Fractions {
				sum += f
			}
			if math.Abs(sum-1) > fractionTolerance {
				t.Errorf("fractions sum to %v", sum)
			}
		})
	}

	powder, _ := Profile("powder")
	if !powder.Derived.Transient || powder.Background.Mode != BackgroundExtraction {
		t.Error("powder should be transient with an extraction background")
	}

	if _, err := Profile("nope"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestClassicProfile(t *testing.T) {
	cfg, err := Profile("classic")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Phases.Fractions[1] != 0 {
		t.Errorf("classic floating fraction = %v, want 0", cfg.Phases.Fractions[1])
	}
	if cfg.Particles.Elevation != 0 || cfg.Explosion.Depth != 0 {
		t.Error("classic explosion leaves the image plane")
	}
	if got := cfg.Derived.Easings[2](0.5); math.Abs(got-0.875) > 1e-9 {
		t.Errorf("classic return ease(0.5) = %v, want cubic ease-out 0.875", got)
	}
}

func TestProfilesAreIndependent(t *testing.T) {
	a, _ := Profile("ultra_hd")
	a.Floating.Waves[0].Amplitude = 99
	b, _ := Profile("ultra_hd")
	if b.Floating.Waves[0].Amplitude == 99 {
		t.Error("profiles share wave storage")
	}

	c := b.Clone()
	c.Floating.Waves[0].Amplitude = 42
	if b.Floating.Waves[0].Amplitude == 42 {
		t.Error("Clone shares wave storage")
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := []byte("animation:\n  total_frames: 42\nrender:\n  depth_dimming: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Animation.TotalFrames != 42 || !cfg.Render.DepthDimming {
		t.Errorf("overrides not applied: %+v %+v", cfg.Animation, cfg.Render)
	}
	if cfg.Particles.Threshold != 15 {
		t.Errorf("untouched field changed: threshold = %d", cfg.Particles.Threshold)
	}

	prof, err := LoadProfile("real_particles", path)
	if err != nil {
		t.Fatal(err)
	}
	if prof.Animation.TotalFrames != 42 || prof.Particles.Threshold != 20 {
		t.Errorf("profile merge: frames %d threshold %d", prof.Animation.TotalFrames, prof.Particles.Threshold)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	orig, err := Profile("perfect_final")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := orig.WriteYAML(path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Animation != orig.Animation || got.Phases != orig.Phases || got.Terminal != orig.Terminal {
		t.Errorf("round trip changed scalar sections")
	}
	if len(got.Floating.Waves) != len(orig.Floating.Waves) || got.Floating.Waves[2] != orig.Floating.Waves[2] {
		t.Errorf("round trip changed waves: %v", got.Floating.Waves)
	}
}
