package anim

import (
	"image"
	"slices"
	"time"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/systems"
	"github.com/pthm-cable/dissolve/telemetry"
)

// renderJob is an immutable snapshot of one frame handed to the render
// goroutine.
type renderJob struct {
	tick      systems.Tick
	particles []components.Particle
	counts    popCounts
}

// renderResult carries a finished canvas back to the driver.
type renderResult struct {
	job    renderJob
	canvas *image.RGBA
	drawn  int
	took   time.Duration
}

// runPipelined overlaps integration of frame f+1 on the calling goroutine
// with rendering of frame f on a render goroutine. The renderer only sees
// copies of the particle set, so the output matches Run's sequential path.
func (s *Sequencer) runPipelined() ([]*image.RGBA, error) {
	frames := make([]*image.RGBA, 0, s.sched.Total()-s.frame)

	jobs := make(chan renderJob, 1)
	results := make(chan renderResult, 1)
	go s.renderWorker(jobs, results)

	// timed is false for the frames drained after the last EndFrame.
	collect := func(timed bool) {
		r := <-results
		if timed {
			s.perf.Record(telemetry.StageRender, r.took)
			s.perf.StartStage(telemetry.StageStats)
		}
		s.record(r.job.tick, r.job.particles, r.drawn, r.job.counts)
		frames = append(frames, r.canvas)
	}

	pending := 0
	for !s.Done() {
		t := s.sched.Resolve(s.frame)

		s.perf.StartFrame()
		counts := s.simulate(t)
		jobs <- renderJob{tick: t, particles: slices.Clone(s.live()), counts: counts}
		pending++

		// Keep one frame in flight.
		if pending > 1 {
			collect(true)
			pending--
		}
		s.perf.EndFrame()
		s.flushPerf(t.Frame)
		s.frame++
	}
	close(jobs)
	for ; pending > 0; pending-- {
		collect(false)
	}

	s.logDone()
	return frames, nil
}

// renderWorker draws jobs in the order received until jobs is closed.
func (s *Sequencer) renderWorker(jobs <-chan renderJob, results chan<- renderResult) {
	for job := range jobs {
		start := time.Now()
		canvas, drawn := s.draw(job.tick, job.particles)
		results <- renderResult{job: job, canvas: canvas, drawn: drawn, took: time.Since(start)}
	}
}
