package anim

import (
	"log/slog"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/systems"
	"github.com/pthm-cable/dissolve/telemetry"
)

// record computes the frame's stats, writes them to frames.csv and logs
// progress every telemetry.log_every frames.
func (s *Sequencer) record(t systems.Tick, ps []components.Particle, drawn int, c popCounts) {
	stats := telemetry.ComputeFrameStats(t.Frame, t.Phase, ps)
	stats.Drawn = drawn
	stats.Spawned = c.spawned
	stats.Expired = c.expired
	s.lastStats = stats

	if err := s.output.WriteFrame(stats); err != nil {
		slog.Error("failed to write frame stats", "error", err)
	}

	every := s.cfg.Telemetry.LogEvery
	if every > 0 && (t.Frame%every == 0 || t.Frame == t.Total-1) {
		slog.Info("progress", "stats", stats)
	}
}

// flushPerf writes the perf window to perf.csv every perf_window frames.
func (s *Sequencer) flushPerf(frame int) {
	window := s.cfg.Telemetry.PerfWindow
	if window <= 0 || (frame+1)%window != 0 {
		return
	}
	perfStats := s.perf.Stats()
	slog.Debug("perf", "frame", frame, "stats", perfStats)
	if err := s.output.WritePerf(perfStats, frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// saveSnapshot writes snap to the snapshot directory.
func (s *Sequencer) saveSnapshot(snap *telemetry.Snapshot) {
	path, err := telemetry.SaveSnapshot(snap, s.opts.SnapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", snap.Frame, "phase", snap.Phase)
}
