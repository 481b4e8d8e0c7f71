// Package anim drives the frame loop: it owns the particle set and runs the
// scheduler, integrator, lifecycle pool and renderer once per output frame.
package anim

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"

	"golang.org/x/image/draw"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/renderer"
	"github.com/pthm-cable/dissolve/systems"
	"github.com/pthm-cable/dissolve/telemetry"
)

// ErrFinished is returned by Step once every frame has been produced.
var ErrFinished = errors.New("anim: all frames rendered")

// RNG streams. Each consumer gets its own so adding draws in one stage does
// not shift the others.
const (
	streamFactory uint64 = iota + 1
	streamIntegrator
	streamPool
)

// Options holds sequencer initialization options.
type Options struct {
	Seed        uint64
	Depth       *components.DepthMap // Optional; must match the source size
	OutputDir   string               // frames.csv, perf.csv, config.yaml; empty disables
	SnapshotDir string               // Particle dumps at phase entry; empty disables
	Profile     string               // Recorded in snapshots only
	Pipelined   bool                 // Run renders on a second goroutine
}

// Sequencer produces the frames of one animation run. It is not safe for
// concurrent use.
type Sequencer struct {
	cfg  *config.Config
	opts Options

	src           *image.RGBA
	depth         *components.DepthMap
	width, height int

	sched      *systems.Scheduler
	integrator *systems.Integrator
	pool       *systems.Pool         // Transient policy only
	particles  []components.Particle // Persistent policy only
	background renderer.Background
	renderer   *renderer.Renderer

	frame     int
	lastPhase components.Phase
	started   bool

	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	lastStats telemetry.FrameStats
}

// New builds a sequencer over src. The source is copied; cfg is cloned and
// its derived values recomputed, so edits made after loading take effect and
// later changes by the caller do not.
func New(cfg *config.Config, src image.Image, opts Options) (*Sequencer, error) {
	cfg = cfg.Clone()
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, errors.New("anim: source image is empty")
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	depth := opts.Depth
	if depth != nil && !depth.Matches(b.Dx(), b.Dy()) {
		return nil, fmt.Errorf("anim: depth map is %dx%d, source is %dx%d",
			depth.Width, depth.Height, b.Dx(), b.Dy())
	}

	sched, err := systems.NewScheduler(cfg.Animation.TotalFrames, cfg.Phases.Fractions, cfg.Derived.Easings)
	if err != nil {
		return nil, err
	}

	s := &Sequencer{
		cfg:      cfg,
		opts:     opts,
		src:      rgba,
		depth:    depth,
		width:    b.Dx(),
		height:   b.Dy(),
		sched:    sched,
		renderer: renderer.New(cfg, b.Dx(), b.Dy()),
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}

	turbulence := systems.NewTurbulence(int64(opts.Seed), cfg.Floating.Turbulence)
	s.integrator = systems.NewIntegrator(cfg, newRNG(opts.Seed, streamIntegrator), turbulence)

	factory := systems.NewFactory(cfg, newRNG(opts.Seed, streamFactory))
	if cfg.Derived.Transient {
		s.pool, err = systems.NewPool(cfg, factory, rgba, depth, newRNG(opts.Seed, streamPool))
		if err != nil {
			return nil, err
		}
	} else {
		s.particles = factory.Build(rgba, depth)
	}

	s.background, err = renderer.NewBackground(cfg, rgba, s.backgroundDepth(), int64(opts.Seed)+1)
	if err != nil {
		return nil, err
	}

	s.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := s.output.WriteConfig(cfg); err != nil {
		s.output.Close()
		return nil, err
	}

	slog.Info("sequencer ready",
		"width", s.width,
		"height", s.height,
		"policy", cfg.Animation.Policy,
		"particles", len(s.live()),
		"frames", sched.Total(),
		"phase_lengths", sched.Lengths(),
		"seed", opts.Seed,
	)
	return s, nil
}

// backgroundDepth returns the depth map the extraction background fades by:
// the caller's map when given, otherwise the brightness/edge proxy.
func (s *Sequencer) backgroundDepth() *components.DepthMap {
	if s.cfg.Background.Mode != config.BackgroundExtraction {
		return s.depth
	}
	if s.depth != nil {
		return s.depth
	}
	return systems.DepthFromImage(s.src)
}

func newRNG(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Frame returns the index of the next frame Step will produce.
func (s *Sequencer) Frame() int { return s.frame }

// Total returns the number of frames in the run.
func (s *Sequencer) Total() int { return s.sched.Total() }

// Done reports whether every frame has been produced.
func (s *Sequencer) Done() bool { return s.frame >= s.sched.Total() }

// Particles returns the live particle set. The slice is owned by the
// sequencer and is only valid until the next Step.
func (s *Sequencer) Particles() []components.Particle { return s.live() }

func (s *Sequencer) live() []components.Particle {
	if s.pool != nil {
		return s.pool.Particles
	}
	return s.particles
}

// Step advances the simulation by exactly one frame and returns its canvas.
// It returns ErrFinished after the last frame.
func (s *Sequencer) Step() (*image.RGBA, error) {
	if s.Done() {
		return nil, ErrFinished
	}
	t := s.sched.Resolve(s.frame)

	s.perf.StartFrame()
	counts := s.simulate(t)

	s.perf.StartStage(telemetry.StageRender)
	ps := s.live()
	canvas, drawn := s.draw(t, ps)

	s.perf.StartStage(telemetry.StageStats)
	s.record(t, ps, drawn, counts)
	s.perf.EndFrame()
	s.flushPerf(t.Frame)

	s.frame++
	return canvas, nil
}

// Run produces every remaining frame in order.
func (s *Sequencer) Run() ([]*image.RGBA, error) {
	if s.opts.Pipelined {
		return s.runPipelined()
	}
	frames := make([]*image.RGBA, 0, s.sched.Total()-s.frame)
	for !s.Done() {
		canvas, err := s.Step()
		if err != nil {
			return frames, err
		}
		frames = append(frames, canvas)
	}
	s.logDone()
	return frames, nil
}

// Close flushes and closes telemetry output.
func (s *Sequencer) Close() error {
	return s.output.Close()
}
