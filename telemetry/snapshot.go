package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/dissolve/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a JSON dump of the particle set at one frame, written at
// phase boundaries for offline inspection.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    uint64 `json:"seed"`
	Profile string `json:"profile,omitempty"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Frame int    `json:"frame"`
	Phase string `json:"phase"`

	Particles []ParticleState `json:"particles"`
}

// ParticleState holds one particle's mutable state.
type ParticleState struct {
	Seq     uint64     `json:"seq"`
	Origin  [3]float64 `json:"origin"`
	Pos     [3]float64 `json:"pos"`
	Vel     [3]float64 `json:"vel"`
	Color   [3]uint8   `json:"color"`
	Size    float64    `json:"size"`
	Opacity int        `json:"opacity"`
	Phase   string     `json:"phase"`
	Age     int        `json:"age,omitempty"`
	Life    int        `json:"life,omitempty"`
}

// NewSnapshot captures ps at frame. The particle slice is copied.
func NewSnapshot(seed uint64, w, h, frame int, phase components.Phase, ps []components.Particle) *Snapshot {
	s := &Snapshot{
		Version:   SnapshotVersion,
		Seed:      seed,
		Width:     w,
		Height:    h,
		Frame:     frame,
		Phase:     phase.String(),
		Particles: make([]ParticleState, len(ps)),
	}
	for i := range ps {
		p := &ps[i]
		st := ParticleState{
			Seq:     p.Seq,
			Origin:  [3]float64{p.OriginX, p.OriginY, p.OriginZ},
			Pos:     [3]float64{p.Pos.X, p.Pos.Y, p.Pos.Z},
			Vel:     [3]float64{p.Vel.X, p.Vel.Y, p.Vel.Z},
			Color:   [3]uint8{p.Color.R, p.Color.G, p.Color.B},
			Size:    p.Size,
			Opacity: p.Opacity,
			Phase:   p.Phase.String(),
		}
		if p.Transient() {
			st.Age = p.Age(frame)
			st.Life = p.Life
		}
		s.Particles[i] = st
	}
	return s
}

// SaveSnapshot writes a snapshot to dir as snapshot_<frame>_<phase>.json.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%04d_%s.json", snapshot.Frame, snapshot.Phase)
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}

// Restore rebuilds the particle set recorded in the snapshot. BaseSize is
// not recorded and is taken from Size; spin and float offsets start at zero.
func (s *Snapshot) Restore() ([]components.Particle, error) {
	ps := make([]components.Particle, len(s.Particles))
	for i, st := range s.Particles {
		phase, err := components.ParsePhase(st.Phase)
		if err != nil {
			return nil, fmt.Errorf("particle %d: %w", i, err)
		}
		ps[i] = components.Particle{
			Seq:      st.Seq,
			OriginX:  st.Origin[0],
			OriginY:  st.Origin[1],
			OriginZ:  st.Origin[2],
			Pos:      r3.Vec{X: st.Pos[0], Y: st.Pos[1], Z: st.Pos[2]},
			Vel:      r3.Vec{X: st.Vel[0], Y: st.Vel[1], Z: st.Vel[2]},
			Color:    components.RGB{R: st.Color[0], G: st.Color[1], B: st.Color[2]},
			BaseSize: st.Size,
			Size:     st.Size,
			Opacity:  min(max(st.Opacity, components.OpacityMin), components.OpacityMax),
			Phase:    phase,
		}
		if st.Life > 0 {
			ps[i].BirthFrame = s.Frame - st.Age
			ps[i].Life = st.Life
		}
	}
	return ps, nil
}
