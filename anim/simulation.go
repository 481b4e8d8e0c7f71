package anim

import (
	"image"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/renderer"
	"github.com/pthm-cable/dissolve/systems"
	"github.com/pthm-cable/dissolve/telemetry"
)

// popCounts holds the lifecycle changes of one frame.
type popCounts struct {
	spawned int
	expired int
}

// simulate integrates the live set for tick t and, under the transient
// policy, expires and spawns pool particles. Must be called once per frame in
// frame order.
func (s *Sequencer) simulate(t systems.Tick) popCounts {
	s.enterPhase(t)

	s.perf.StartStage(telemetry.StageIntegrate)
	s.integrator.Step(s.live(), t)

	var c popCounts
	if s.pool != nil {
		s.perf.StartStage(telemetry.StagePool)
		c.expired = s.pool.Expire(t.Frame)
		c.spawned = s.pool.Spawn(t)
	}
	return c
}

// draw renders ps over the background of tick t and applies the terminal
// blend. It only reads ps and the sequencer's immutable inputs, so it may run
// on another goroutine against a snapshot.
func (s *Sequencer) draw(t systems.Tick, ps []components.Particle) (*image.RGBA, int) {
	bg := s.background.Frame(t.Frame, t.Total)
	canvas, drawn := s.renderer.Render(ps, bg)
	if w, ok := renderer.TerminalWeight(t.Frame, t.Total, s.cfg.Terminal.Frames, s.cfg.Derived.TerminalEasing); ok {
		renderer.BlendToSource(canvas, s.src, w)
	}
	return canvas, drawn
}

// enterPhase logs phase transitions and writes a snapshot of the particle
// set as it enters each phase.
func (s *Sequencer) enterPhase(t systems.Tick) {
	if s.started && t.Phase == s.lastPhase {
		return
	}
	s.started = true
	s.lastPhase = t.Phase
	logPhase(t, len(s.live()))

	if s.opts.SnapshotDir == "" {
		return
	}
	snap := telemetry.NewSnapshot(s.opts.Seed, s.width, s.height, t.Frame, t.Phase, s.live())
	snap.Profile = s.opts.Profile
	s.saveSnapshot(snap)
}
