package anim

import (
	"log/slog"

	"github.com/pthm-cable/dissolve/systems"
)

func logPhase(t systems.Tick, count int) {
	slog.Info("phase",
		"phase", t.Phase.String(),
		"frame", t.Frame,
		"length", t.Length,
		"particles", count,
	)
}

// logDone logs the end of the run with the last frame's stats and the final
// perf window.
func (s *Sequencer) logDone() {
	perfStats := s.perf.Stats()
	args := []any{
		"frames", s.frame,
		"particles", len(s.live()),
		"avg_frame_us", perfStats.AvgFrameDuration.Microseconds(),
	}
	if s.pool != nil {
		args = append(args, "pool_len", s.pool.Len(), "pool_capacity", s.pool.Capacity())
	}
	slog.Info("run complete", args...)
	if s.cfg.Telemetry.LogEvery > 0 {
		s.lastStats.LogStats()
		perfStats.LogStats()
	}
}
