package renderer

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/easing"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{uint8(x * 20), uint8(y * 20), 200, 255})
		}
	}
	return img
}

func TestSolidBackground(t *testing.T) {
	bg := NewSolid(3, 2, [3]uint8{1, 2, 3})
	img := bg.Frame(5, 10)
	for y := range 2 {
		for x := range 3 {
			if got := pixel(img, x, y); got != (components.RGB{R: 1, G: 2, B: 3}) {
				t.Errorf("(%d,%d) = %v", x, y, got)
			}
		}
	}
}

func TestNewBackgroundModes(t *testing.T) {
	cfg := testConfig(t)
	src := gradient(8, 8)

	bg, err := NewBackground(cfg, src, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := bg.(*Solid); !ok {
		t.Errorf("solid mode built %T", bg)
	}

	cfg.Background.Mode = config.BackgroundExtraction
	if _, err := NewBackground(cfg, src, components.NewDepthMap(4, 4), 1); err == nil {
		t.Error("expected error for mismatched depth map")
	}
	bg, err = NewBackground(cfg, src, components.NewDepthMap(8, 8), 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := bg.(*Extraction); !ok {
		t.Errorf("extraction mode built %T", bg)
	}
}

func TestExtractionPure(t *testing.T) {
	cfg := testConfig(t).Background
	cfg.Shimmer.Amplitude = 0.1
	src := gradient(10, 10)
	srcBefore := append([]uint8(nil), src.Pix...)

	depth := components.NewDepthMap(10, 10)
	for i := range depth.Values {
		depth.Values[i] = float64(i%10) / 9
	}
	e := NewExtraction(src, depth, cfg, 3)

	a := e.Frame(7, 40)
	b := e.Frame(7, 40)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same frame rendered twice differs")
	}
	if !bytes.Equal(src.Pix, srcBefore) {
		t.Error("source was modified")
	}
}

func TestExtractionZeroDepthIsSource(t *testing.T) {
	cfg := testConfig(t).Background
	cfg.WaveAmplitude = 0
	src := gradient(6, 6)

	out := NewExtraction(src, nil, cfg, 1).Frame(3, 10)
	if !bytes.Equal(out.Pix, src.Pix) {
		t.Error("extraction without depth, waves or shimmer should reproduce the source")
	}
}

func TestExtractionFadesDeepPixels(t *testing.T) {
	cfg := testConfig(t).Background
	cfg.WaveAmplitude = 0
	src := gradient(4, 1)
	depth := components.NewDepthMap(4, 1)
	depth.Set(2, 0, 1)

	// t = 0: intensity = extract_base, fade = 1 - base*gain
	out := NewExtraction(src, depth, cfg, 1).Frame(0, 10)
	if pixel(out, 1, 0) != pixel(src, 1, 0) {
		t.Error("shallow pixel changed")
	}
	got, orig := pixel(out, 2, 0), pixel(src, 2, 0)
	if got.B >= orig.B {
		t.Errorf("deep pixel %v not faded from %v", got, orig)
	}
	fade := 1 - cfg.ExtractBase*cfg.FadeGain
	b := float64(orig.B) / 255 * fade
	gray := (float64(orig.R)/255*fade + float64(orig.G)/255*fade + b) / 3
	want := uint8(math.Round((b + (gray-b)*cfg.GrayGain) * 255))
	if d := int(got.B) - int(want); d < -1 || d > 1 {
		t.Errorf("blue = %d, want %d", got.B, want)
	}
}

func TestRollRow(t *testing.T) {
	src := []uint8{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}
	tests := []struct {
		shift int
		first uint8
	}{
		{0, 1},
		{1, 3},
		{-1, 2},
		{4, 3},
	}
	for _, tt := range tests {
		dst := make([]uint8, len(src))
		rollRow(dst, src, tt.shift)
		if dst[0] != tt.first {
			t.Errorf("shift %d: first pixel %d, want %d", tt.shift, dst[0], tt.first)
		}
	}
}

func TestTerminalWeight(t *testing.T) {
	tests := []struct {
		f, total, n int
		want        float64
		ok          bool
	}{
		{0, 10, 0, 0, false},
		{5, 10, 4, 0, false},
		{6, 10, 4, 0.25, true},
		{9, 10, 4, 1, true},
		{10, 10, 4, 0, false},
		{0, 3, 5, 0.6, true},
	}
	for _, tt := range tests {
		w, ok := TerminalWeight(tt.f, tt.total, tt.n, easing.Linear)
		if ok != tt.ok || math.Abs(w-tt.want) > 1e-12 {
			t.Errorf("TerminalWeight(%d, %d, %d) = %v, %v; want %v, %v", tt.f, tt.total, tt.n, w, ok, tt.want, tt.ok)
		}
	}
}

func TestBlendToSource(t *testing.T) {
	src := gradient(4, 4)
	canvas := cloneRGBA(NewSolid(4, 4, [3]uint8{0, 0, 0}).Frame(0, 1))

	BlendToSource(canvas, src, 0)
	if pixel(canvas, 3, 3) != (components.RGB{}) {
		t.Error("zero weight changed the canvas")
	}

	BlendToSource(canvas, src, 0.5)
	if got := pixel(canvas, 0, 0).B; got < 99 || got > 101 {
		t.Errorf("half blend blue = %d, want ~100", got)
	}

	BlendToSource(canvas, src, 1)
	if !bytes.Equal(canvas.Pix, src.Pix) {
		t.Error("full weight should reproduce the source exactly")
	}
}
