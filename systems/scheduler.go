package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/easing"
)

// Tick is the scheduler's view of one output frame.
type Tick struct {
	Frame  int
	Total  int
	Phase  components.Phase
	Start  int // First frame of Phase
	Length int // Frame count of Phase; may be 0

	Progress    float64 // (Frame-Start)/Length, clamped to [0, 1]
	Eased       float64 // Phase easing applied to Progress
	EndProgress float64 // (Frame-Start+1)/Length, clamped to [0, 1]
	EndEased    float64 // Phase easing applied to EndProgress

	Entered bool // Frame is the first frame of Phase
}

// Scheduler partitions total frames into the explosion, floating and return
// phases and resolves frame indices into Ticks.
type Scheduler struct {
	total   int
	lengths [3]int
	starts  [3]int
	easings [3]easing.Func
}

// NewScheduler builds a scheduler. Fractions must be non-negative; they are
// rounded per phase and the return phase takes the remainder so the three
// lengths always sum to total. A nil easing means linear.
func NewScheduler(total int, fractions [3]float64, easings [3]easing.Func) (*Scheduler, error) {
	if total <= 0 {
		return nil, fmt.Errorf("scheduler: total frames must be positive, got %d", total)
	}
	for i, f := range fractions {
		if f < 0 || math.IsNaN(f) {
			return nil, fmt.Errorf("scheduler: fraction %d is negative", i)
		}
	}

	s := &Scheduler{total: total}
	f1 := int(math.Round(float64(total) * fractions[0]))
	f2 := int(math.Round(float64(total) * fractions[1]))
	if f1 > total {
		f1 = total
	}
	if f1+f2 > total {
		f2 = total - f1
	}
	s.lengths = [3]int{f1, f2, total - f1 - f2}
	s.starts = [3]int{0, f1, f1 + f2}

	for i, fn := range easings {
		if fn == nil {
			fn = easing.Linear
		}
		s.easings[i] = fn
	}
	return s, nil
}

// Total returns the number of frames in the run.
func (s *Scheduler) Total() int { return s.total }

// Lengths returns the frame count of each phase.
func (s *Scheduler) Lengths() [3]int { return s.lengths }

// Start returns the first frame of phase.
func (s *Scheduler) Start(phase components.Phase) int { return s.starts[phase] }

// PhaseAt returns the global phase of frame f. Frames past the end belong to
// the return phase.
func (s *Scheduler) PhaseAt(f int) components.Phase {
	switch {
	case f < s.starts[components.PhaseFloating]:
		return components.PhaseExploding
	case f < s.starts[components.PhaseReturning]:
		return components.PhaseFloating
	default:
		return components.PhaseReturning
	}
}

// Resolve returns the tick for frame f.
func (s *Scheduler) Resolve(f int) Tick {
	phase := s.PhaseAt(f)
	start, length := s.starts[phase], s.lengths[phase]
	ease := s.easings[phase]

	t := Tick{
		Frame:   f,
		Total:   s.total,
		Phase:   phase,
		Start:   start,
		Length:  length,
		Entered: f == start,
	}
	t.Progress = progress(f-start, length)
	t.EndProgress = progress(f-start+1, length)
	t.Eased = ease(t.Progress)
	t.EndEased = ease(t.EndProgress)
	return t
}

// progress returns elapsed/length clamped to [0, 1]. An empty phase is
// complete immediately.
func progress(elapsed, length int) float64 {
	if length <= 0 {
		return 1
	}
	p := float64(elapsed) / float64(length)
	return math.Max(0, math.Min(1, p))
}
