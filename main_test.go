package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/imageio"
)

func writeSource(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 6))
	for y := range 6 {
		for x := range 6 {
			img.Set(x, y, color.RGBA{uint8(60 + x*30), uint8(60 + y*30), 120, 255})
		}
	}
	path := filepath.Join(dir, "src.png")
	if err := imageio.WritePNG(path, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr bool
	}{
		{"writes gif", "out.gif", false},
		{"unwritable output", filepath.Join("missing", "out.gif"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			o := options{
				profile:   config.DefaultProfile,
				input:     writeSource(t, dir),
				output:    filepath.Join(dir, tt.output),
				seed:      1,
				frames:    5,
				outputDir: filepath.Join(dir, "telemetry"),
			}

			err := run(o)
			if (err != nil) != tt.wantErr {
				t.Fatalf("run() error = %v, wantErr %v", err, tt.wantErr)
			}

			// Telemetry is complete whether or not the GIF was written.
			data, err := os.ReadFile(filepath.Join(dir, "telemetry", "frames.csv"))
			if err != nil {
				t.Fatal(err)
			}
			if lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1; lines != 6 {
				t.Errorf("frames.csv has %d lines, want header + 5", lines)
			}

			_, statErr := os.Stat(o.output)
			if tt.wantErr != os.IsNotExist(statErr) {
				t.Errorf("output stat = %v", statErr)
			}
		})
	}
}

func TestRunRejectsUnknownProfile(t *testing.T) {
	dir := t.TempDir()
	err := run(options{profile: "nope", input: writeSource(t, dir), output: filepath.Join(dir, "out.gif")})
	if err == nil {
		t.Error("expected error for unknown profile")
	}
}
