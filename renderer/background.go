package renderer

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ojrac/opensimplex-go"
	"golang.org/x/image/draw"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
)

// Background produces the backdrop of frame f in a run of total frames.
// Implementations are pure in (f, total); callers must treat the returned
// image as read-only.
type Background interface {
	Frame(f, total int) *image.RGBA
}

// NewBackground builds the background selected by cfg.Background.Mode for a
// canvas the size of src. depth may be nil, in which case no pixel is
// extracted.
func NewBackground(cfg *config.Config, src image.Image, depth *components.DepthMap, seed int64) (Background, error) {
	b := src.Bounds()
	switch cfg.Background.Mode {
	case config.BackgroundSolid:
		return NewSolid(b.Dx(), b.Dy(), cfg.Background.Color), nil
	case config.BackgroundExtraction:
		if depth != nil && !depth.Matches(b.Dx(), b.Dy()) {
			return nil, fmt.Errorf("background: depth map is %dx%d, source is %dx%d",
				depth.Width, depth.Height, b.Dx(), b.Dy())
		}
		return NewExtraction(src, depth, cfg.Background, seed), nil
	default:
		return nil, fmt.Errorf("background: unknown mode %q", cfg.Background.Mode)
	}
}

// Solid is a constant fill.
type Solid struct {
	img *image.RGBA
}

// NewSolid creates a w×h background filled with c.
func NewSolid(w, h int, c [3]uint8) *Solid {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c[0]
		img.Pix[i+1] = c[1]
		img.Pix[i+2] = c[2]
		img.Pix[i+3] = 255
	}
	return &Solid{img: img}
}

// Frame returns the same fill every frame.
func (s *Solid) Frame(int, int) *image.RGBA { return s.img }

// Extraction is the source image with its high-depth regions pulsing
// toward a faded, desaturated state, every row rolled sideways by a slow
// wave. The particles of the transient policy appear to peel off it.
type Extraction struct {
	src   *image.RGBA
	depth *components.DepthMap
	cfg   config.BackgroundConfig
	noise opensimplex.Noise
}

// NewExtraction creates an extraction background over src.
func NewExtraction(src image.Image, depth *components.DepthMap, cfg config.BackgroundConfig, seed int64) *Extraction {
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return &Extraction{
		src:   rgba,
		depth: depth,
		cfg:   cfg,
		noise: opensimplex.New(seed),
	}
}

// Frame renders the backdrop for frame f.
func (e *Extraction) Frame(f, total int) *image.RGBA {
	cfg := e.cfg
	t := 0.0
	if total > 0 {
		t = float64(f) / float64(total)
	}
	intensity := cfg.ExtractBase + cfg.ExtractSwing*math.Sin(2*math.Pi*t)

	b := e.src.Bounds()
	w, h := b.Dx(), b.Dy()
	tinted := image.NewRGBA(b)
	for y := range h {
		for x := range w {
			i := e.src.PixOffset(x, y)
			s := e.src.Pix[i : i+4 : i+4]
			c := colorful.Color{R: float64(s[0]) / 255, G: float64(s[1]) / 255, B: float64(s[2]) / 255}

			if d := e.depth.At(x, y); d > cfg.ExtractThreshold {
				fade := 1 - d*intensity*cfg.FadeGain
				c = colorful.Color{R: c.R * fade, G: c.G * fade, B: c.B * fade}
				gray := (c.R + c.G + c.B) / 3
				c = c.BlendRgb(colorful.Color{R: gray, G: gray, B: gray}, d*cfg.GrayGain)
			}
			if cfg.Shimmer.Amplitude > 0 {
				n := 1 + cfg.Shimmer.Amplitude*e.noise.Eval3(
					float64(x)*cfg.Shimmer.Scale, float64(y)*cfg.Shimmer.Scale, float64(f)*cfg.Shimmer.Speed)
				c = colorful.Color{R: c.R * n, G: c.G * n, B: c.B * n}
			}

			r, g, bb := c.Clamped().RGB255()
			o := tinted.Pix[i : i+4 : i+4]
			o[0], o[1], o[2], o[3] = r, g, bb, 255
		}
	}

	if cfg.WaveAmplitude == 0 {
		return tinted
	}
	out := image.NewRGBA(b)
	for y := range h {
		shift := int(cfg.WaveAmplitude * math.Sin(2*math.Pi*t+float64(y)*cfg.WaveRowScale))
		rollRow(out.Pix[y*out.Stride:y*out.Stride+4*w], tinted.Pix[y*tinted.Stride:y*tinted.Stride+4*w], shift)
	}
	return out
}

// rollRow writes src into dst shifted right by n pixels, wrapping around.
func rollRow(dst, src []uint8, n int) {
	w := len(src) / 4
	if w == 0 {
		return
	}
	n = ((n % w) + w) % w
	copy(dst[4*n:], src[:4*(w-n)])
	copy(dst[:4*n], src[4*(w-n):])
}
