// Depth proxy preview tool - writes the brightness/edge depth estimate of an
// image as a grayscale PNG.
//
// Usage: go run ./cmd/depthpreview -input photo.jpg -output depth.png
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/dissolve/imageio"
	"github.com/pthm-cable/dissolve/systems"
)

func main() {
	input := flag.String("input", "", "Source image")
	output := flag.String("output", "depth.png", "Grayscale PNG path")
	maxSize := flag.Int("max-size", 0, "Longest source edge after resizing (0 = original)")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	src, err := imageio.Load(*input, *maxSize)
	if err != nil {
		slog.Error("failed to load image", "error", err)
		os.Exit(1)
	}

	depth := systems.DepthFromImage(src)
	if err := imageio.WritePNG(*output, imageio.DepthImage(depth)); err != nil {
		slog.Error("failed to write preview", "error", err)
		os.Exit(1)
	}
	slog.Info("wrote depth preview", "output", *output, "width", depth.Width, "height", depth.Height)
}
