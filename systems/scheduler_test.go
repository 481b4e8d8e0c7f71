package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/easing"
)

func TestSchedulerBoundaries(t *testing.T) {
	s, err := NewScheduler(10, [3]float64{0.2, 0.6, 0.2}, [3]easing.Func{})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Lengths(); got != [3]int{2, 6, 2} {
		t.Fatalf("lengths = %v, want [2 6 2]", got)
	}

	want := []components.Phase{
		components.PhaseExploding, components.PhaseExploding,
		components.PhaseFloating, components.PhaseFloating, components.PhaseFloating,
		components.PhaseFloating, components.PhaseFloating, components.PhaseFloating,
		components.PhaseReturning, components.PhaseReturning,
	}
	for f, phase := range want {
		if got := s.PhaseAt(f); got != phase {
			t.Errorf("PhaseAt(%d) = %v, want %v", f, got, phase)
		}
	}
}

func TestSchedulerPartitionSums(t *testing.T) {
	fractions := [][3]float64{
		{0.2, 0.6, 0.2},
		{0.3, 0.4, 0.3},
		{0.15, 0.55, 0.3},
		{0.4, 0.2, 0.4},
		{1.0 / 3, 1.0 / 3, 1.0 / 3},
		{0.5, 0.5, 0},
		{0, 0, 1},
	}
	for _, fr := range fractions {
		for total := 1; total <= 250; total++ {
			s, err := NewScheduler(total, fr, [3]easing.Func{})
			if err != nil {
				t.Fatal(err)
			}
			l := s.Lengths()
			if l[0]+l[1]+l[2] != total {
				t.Fatalf("fractions %v total %d: lengths %v do not sum", fr, total, l)
			}
			for i, n := range l {
				if n < 0 {
					t.Fatalf("fractions %v total %d: phase %d has negative length %d", fr, total, i, n)
				}
			}
		}
	}
}

func TestSchedulerProgress(t *testing.T) {
	s, _ := NewScheduler(10, [3]float64{0.2, 0.6, 0.2}, [3]easing.Func{nil, nil, easing.Smoothstep})

	tests := []struct {
		frame    int
		progress float64
		end      float64
		entered  bool
	}{
		{0, 0, 0.5, true},
		{1, 0.5, 1, false},
		{2, 0, 1.0 / 6, true},
		{7, 5.0 / 6, 1, false},
		{8, 0, 0.5, true},
		{9, 0.5, 1, false},
	}
	for _, tt := range tests {
		tick := s.Resolve(tt.frame)
		if math.Abs(tick.Progress-tt.progress) > 1e-9 {
			t.Errorf("frame %d: progress = %v, want %v", tt.frame, tick.Progress, tt.progress)
		}
		if math.Abs(tick.EndProgress-tt.end) > 1e-9 {
			t.Errorf("frame %d: end progress = %v, want %v", tt.frame, tick.EndProgress, tt.end)
		}
		if tick.Entered != tt.entered {
			t.Errorf("frame %d: entered = %v, want %v", tt.frame, tick.Entered, tt.entered)
		}
	}

	// Last frame of the return phase reaches the end of its easing.
	if last := s.Resolve(9); last.EndEased != 1 {
		t.Errorf("last frame EndEased = %v, want 1", last.EndEased)
	}
}

func TestSchedulerZeroLengthPhase(t *testing.T) {
	// round(3*0.1) == 0: the explosion phase is empty.
	s, err := NewScheduler(3, [3]float64{0.1, 0.5, 0.4}, [3]easing.Func{})
	if err != nil {
		t.Fatal(err)
	}
	l := s.Lengths()
	if l[0] != 0 {
		t.Fatalf("explosion length = %d, want 0", l[0])
	}
	if got := s.PhaseAt(0); got != components.PhaseFloating {
		t.Errorf("PhaseAt(0) = %v, want floating", got)
	}

	if p := progress(0, 0); p != 1 {
		t.Errorf("progress of empty phase = %v, want 1", p)
	}

	// A one-frame run with everything in the return phase.
	s, _ = NewScheduler(1, [3]float64{0, 0, 1}, [3]easing.Func{})
	tick := s.Resolve(0)
	if tick.Phase != components.PhaseReturning || tick.EndEased != 1 {
		t.Errorf("one-frame tick = %+v", tick)
	}
}

func TestSchedulerRejects(t *testing.T) {
	if _, err := NewScheduler(0, [3]float64{0.2, 0.6, 0.2}, [3]easing.Func{}); err == nil {
		t.Error("expected error for zero frames")
	}
	if _, err := NewScheduler(10, [3]float64{-0.1, 0.6, 0.5}, [3]easing.Func{}); err == nil {
		t.Error("expected error for negative fraction")
	}
}
