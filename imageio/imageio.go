// Package imageio loads source images and encodes rendered frames. It is the
// file boundary of the tool; the animation engine itself only sees decoded
// rasters.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/pthm-cable/dissolve/components"
)

// Load decodes the image at path (png, jpeg, gif or webp) and scales it with
// Catmull-Rom so its longest edge is at most maxSize. maxSize <= 0 keeps the
// original size. The result always starts at (0, 0).
func Load(path string, maxSize int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return Fit(img, maxSize), nil
}

// Fit returns an RGBA copy of img whose longest edge is at most maxSize,
// preserving the aspect ratio. Images already within bounds are copied
// without resampling.
func Fit(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && max(w, h) > maxSize {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	return dst
}

// EncodeGIF writes frames as a looping animated GIF. Each frame is quantized
// to the Plan9 palette with Floyd-Steinberg dithering. delay is in
// hundredths of a second.
func EncodeGIF(w io.Writer, frames []*image.RGBA, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("encoding gif: no frames")
	}
	out := &gif.GIF{
		Image: make([]*image.Paletted, len(frames)),
		Delay: make([]int, len(frames)),
	}
	for i, f := range frames {
		pal := image.NewPaletted(f.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, f.Bounds(), f, f.Bounds().Min)
		out.Image[i] = pal
		out.Delay[i] = delay
	}
	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("encoding gif: %w", err)
	}
	return nil
}

// WriteGIF encodes frames to a file at path.
func WriteGIF(path string, frames []*image.RGBA, delay int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := EncodeGIF(f, frames, delay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePNG encodes img to a file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	return f.Close()
}

// DepthImage renders a depth map as grayscale, white being deepest.
func DepthImage(d *components.DepthMap) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
	for y := range d.Height {
		for x := range d.Width {
			v := min(max(d.At(x, y), 0), 1)
			img.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}
