package telemetry

import (
	"log/slog"
	"time"
)

// Stage names for one frame of the pipeline.
const (
	StageIntegrate = "integrate"
	StagePool      = "pool"
	StageRender    = "render" // Background, particles and terminal blend
	StageStats     = "stats"
)

var stages = []string{StageIntegrate, StagePool, StageRender, StageStats}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Stages        map[string]time.Duration
}

// PerfCollector tracks per-stage frame timings over a rolling window.
// It is not safe for concurrent use; in pipelined runs each goroutine times
// its own stages with Record.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentStages map[string]time.Duration
	frameStart    time.Time
	stageStart    time.Time
	lastStage     string
}

// NewPerfCollector creates a new performance collector averaging over
// windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentStages: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentStages = make(map[string]time.Duration)
	p.lastStage = ""
}

// StartStage begins timing a stage, ending the previous one.
func (p *PerfCollector) StartStage(stage string) {
	now := time.Now()
	if p.lastStage != "" {
		p.currentStages[p.lastStage] += now.Sub(p.stageStart)
	}
	p.stageStart = now
	p.lastStage = stage
}

// Record adds an externally measured duration to a stage of the current
// frame.
func (p *PerfCollector) Record(stage string, d time.Duration) {
	p.currentStages[stage] += d
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastStage != "" {
		p.currentStages[p.lastStage] += now.Sub(p.stageStart)
		p.lastStage = ""
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Stages:        p.currentStages,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Stage breakdown (average durations)
	StageAvg map[string]time.Duration

	// Stage percentages of total frame time
	StagePct map[string]float64

	FramesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			StageAvg: make(map[string]time.Duration),
			StagePct: make(map[string]float64),
		}
	}

	var total, minFrame, maxFrame time.Duration
	stageSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration
		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}
		for stage, d := range s.Stages {
			stageSum[stage] += d
		}
	}

	avg := total / time.Duration(p.sampleCount)
	stageAvg := make(map[string]time.Duration)
	stagePct := make(map[string]float64)
	for stage, sum := range stageSum {
		stageAvg[stage] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			stagePct[stage] = float64(stageAvg[stage]) / float64(avg) * 100
		}
	}

	var fps float64
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgFrameDuration: avg,
		MinFrameDuration: minFrame,
		MaxFrameDuration: maxFrame,
		StageAvg:         stageAvg,
		StagePct:         stagePct,
		FramesPerSecond:  fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}
	for _, stage := range stages {
		if pct, ok := s.StagePct[stage]; ok && pct > 0.1 {
			attrs = append(attrs, stage+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrameDuration.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrameDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrameDuration.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}
	for stage, pct := range s.StagePct {
		attrs = append(attrs, slog.Float64(stage+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Frame        int     `csv:"frame"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	FramesPerSec float64 `csv:"frames_per_sec"`
	IntegratePct float64 `csv:"integrate_pct"`
	PoolPct      float64 `csv:"pool_pct"`
	RenderPct    float64 `csv:"render_pct"`
	StatsPct     float64 `csv:"stats_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(frame int) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:        frame,
		AvgFrameUS:   s.AvgFrameDuration.Microseconds(),
		MinFrameUS:   s.MinFrameDuration.Microseconds(),
		MaxFrameUS:   s.MaxFrameDuration.Microseconds(),
		FramesPerSec: s.FramesPerSecond,
		IntegratePct: s.StagePct[StageIntegrate],
		PoolPct:      s.StagePct[StagePool],
		RenderPct:    s.StagePct[StageRender],
		StatsPct:     s.StagePct[StageStats],
	}
}
