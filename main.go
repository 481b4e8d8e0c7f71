package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/dissolve/anim"
	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/imageio"
	"github.com/pthm-cable/dissolve/systems"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to a YAML file merged over the profile (empty = profile only)")
	profile := flag.String("profile", config.DefaultProfile, "Named preset, see -list-profiles")
	input := flag.String("input", "", "Source image (png, jpeg, gif or webp)")
	output := flag.String("output", "dissolve.gif", "Output GIF path")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	frames := flag.Int("frames", 0, "Total frames (0 = use config)")
	maxSize := flag.Int("max-size", 0, "Longest source edge after resizing (0 = use config)")
	depth := flag.Bool("depth", false, "Seed particle depth from the brightness/edge proxy")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for particle snapshots at phase boundaries")
	pipelined := flag.Bool("pipelined", false, "Render on a second goroutine while integrating the next frame")
	delay := flag.Int("delay", 0, "Frame delay in hundredths of a second (0 = use config)")
	listProfiles := flag.Bool("list-profiles", false, "Print profile names and exit")

	flag.Parse()

	if *listProfiles {
		for _, name := range config.ProfileNames() {
			fmt.Println(name)
		}
		return
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *input == "" {
		slog.Error("missing -input")
		flag.Usage()
		os.Exit(2)
	}

	opts := options{
		profile:     *profile,
		configPath:  *configPath,
		input:       *input,
		output:      *output,
		seed:        *seed,
		frames:      *frames,
		maxSize:     *maxSize,
		delay:       *delay,
		depth:       *depth,
		outputDir:   *outputDir,
		snapshotDir: *snapshotDir,
		pipelined:   *pipelined,
	}
	if err := run(opts); err != nil {
		slog.Error("dissolve failed", "error", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	profile, configPath    string
	input, output          string
	seed                   uint64
	frames, maxSize        int
	delay                  int
	depth                  bool
	outputDir, snapshotDir string
	pipelined              bool
}

// run loads the source, drives the sequencer and writes the GIF. The
// sequencer is closed on every path so telemetry files are flushed.
func run(o options) (err error) {
	cfg, err := config.LoadProfile(o.profile, o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI overrides
	if o.frames > 0 {
		cfg.Animation.TotalFrames = o.frames
	}
	if o.maxSize > 0 {
		cfg.Animation.MaxSize = o.maxSize
	}
	if o.delay > 0 {
		cfg.Animation.FrameDelay = o.delay
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	seed := o.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	src, err := imageio.Load(o.input, cfg.Animation.MaxSize)
	if err != nil {
		return err
	}

	var depthMap *components.DepthMap
	if o.depth {
		depthMap = systems.DepthFromImage(src)
	}

	slog.Info("starting",
		"profile", o.profile,
		"input", o.input,
		"width", src.Bounds().Dx(),
		"height", src.Bounds().Dy(),
		"seed", seed,
		"frames", cfg.Animation.TotalFrames,
		"pipelined", o.pipelined,
	)

	seq, err := anim.New(cfg, src, anim.Options{
		Seed:        seed,
		Depth:       depthMap,
		OutputDir:   o.outputDir,
		SnapshotDir: o.snapshotDir,
		Profile:     o.profile,
		Pipelined:   o.pipelined,
	})
	if err != nil {
		return fmt.Errorf("building sequencer: %w", err)
	}
	defer func() {
		err = errors.Join(err, seq.Close())
	}()

	start := time.Now()
	canvases, err := seq.Run()
	if err != nil {
		return fmt.Errorf("frame %d: %w", seq.Frame(), err)
	}

	if err := imageio.WriteGIF(o.output, canvases, cfg.Animation.FrameDelay); err != nil {
		return err
	}
	slog.Info("wrote animation",
		"output", o.output,
		"frames", len(canvases),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
