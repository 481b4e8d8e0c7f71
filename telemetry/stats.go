package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/dissolve/components"
)

// FrameStats summarizes the particle set after one frame.
type FrameStats struct {
	Frame int    `csv:"frame"`
	Phase string `csv:"phase"`

	// Population
	Count   int `csv:"count"`
	Drawn   int `csv:"drawn"`
	Spawned int `csv:"spawned"`
	Expired int `csv:"expired"`

	// Distance to origin (reconstruction progress)
	DistMean float64 `csv:"dist_mean"`
	DistP90  float64 `csv:"dist_p90"`
	DistMax  float64 `csv:"dist_max"`

	// Opacity distribution
	OpacityP10 float64 `csv:"opacity_p10"`
	OpacityP50 float64 `csv:"opacity_p50"`
	OpacityP90 float64 `csv:"opacity_p90"`

	// Mean |z|
	DepthMean float64 `csv:"depth_mean"`
}

// Quantiles returns the empirical p-quantiles of values, which need not be
// sorted. All results are 0 for an empty slice.
func Quantiles(values []float64, ps ...float64) []float64 {
	out := make([]float64, len(ps))
	if len(values) == 0 {
		return out
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	for i, p := range ps {
		out[i] = stat.Quantile(math.Max(0, math.Min(1, p)), stat.Empirical, sorted, nil)
	}
	return out
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// ComputeFrameStats gathers FrameStats for ps. An empty set yields zeros.
func ComputeFrameStats(frame int, phase components.Phase, ps []components.Particle) FrameStats {
	s := FrameStats{
		Frame: frame,
		Phase: phase.String(),
		Count: len(ps),
	}
	if len(ps) == 0 {
		return s
	}

	dist := make([]float64, len(ps))
	opacity := make([]float64, len(ps))
	depth := make([]float64, len(ps))
	for i := range ps {
		dist[i] = ps[i].DistanceToOrigin()
		opacity[i] = float64(ps[i].Opacity)
		depth[i] = math.Abs(ps[i].Pos.Z)
	}

	s.DistMean = Mean(dist)
	q := Quantiles(dist, 0.9, 1)
	s.DistP90, s.DistMax = q[0], q[1]

	q = Quantiles(opacity, 0.1, 0.5, 0.9)
	s.OpacityP10, s.OpacityP50, s.OpacityP90 = q[0], q[1], q[2]

	s.DepthMean = Mean(depth)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", s.Frame),
		slog.String("phase", s.Phase),
		slog.Int("count", s.Count),
		slog.Int("drawn", s.Drawn),
		slog.Int("spawned", s.Spawned),
		slog.Int("expired", s.Expired),
		slog.Float64("dist_mean", s.DistMean),
		slog.Float64("dist_p90", s.DistP90),
		slog.Float64("dist_max", s.DistMax),
		slog.Float64("opacity_p50", s.OpacityP50),
		slog.Float64("depth_mean", s.DepthMean),
	)
}

// LogStats logs the frame stats using slog.
func (s FrameStats) LogStats() {
	slog.Info("frame",
		"frame", s.Frame,
		"phase", s.Phase,
		"count", s.Count,
		"drawn", s.Drawn,
		"dist_mean", s.DistMean,
		"dist_p90", s.DistP90,
		"opacity_p50", s.OpacityP50,
	)
}
