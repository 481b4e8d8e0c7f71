// Snapshot preview tool - renders a saved particle snapshot as a PNG over
// the profile's solid background.
//
// Usage: go run ./cmd/snapshotpreview -input snaps/snapshot_0024_floating.json -output frame.png
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/imageio"
	"github.com/pthm-cable/dissolve/renderer"
	"github.com/pthm-cable/dissolve/telemetry"
)

func main() {
	input := flag.String("input", "", "Snapshot JSON written by -snapshot-dir")
	output := flag.String("output", "snapshot.png", "PNG path")
	profile := flag.String("profile", "", "Render profile (empty = the snapshot's own)")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	snap, err := telemetry.LoadSnapshot(*input)
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}
	ps, err := snap.Restore()
	if err != nil {
		slog.Error("failed to restore particles", "error", err)
		os.Exit(1)
	}

	name := *profile
	if name == "" {
		name = snap.Profile
	}
	if name == "" {
		name = config.DefaultProfile
	}
	cfg, err := config.Profile(name)
	if err != nil {
		slog.Error("failed to load profile", "error", err)
		os.Exit(1)
	}

	bg := renderer.NewSolid(snap.Width, snap.Height, cfg.Background.Color).Frame(snap.Frame, snap.Frame+1)
	canvas, drawn := renderer.New(cfg, snap.Width, snap.Height).Render(ps, bg)
	if err := imageio.WritePNG(*output, canvas); err != nil {
		slog.Error("failed to write preview", "error", err)
		os.Exit(1)
	}
	slog.Info("wrote snapshot preview",
		"output", *output,
		"frame", snap.Frame,
		"phase", snap.Phase,
		"particles", len(ps),
		"drawn", drawn,
	)
}
