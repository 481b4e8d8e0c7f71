// Profile dump tool - prints a named preset as YAML, or lists the presets.
//
// Usage: go run ./cmd/profiles [-name powder] [-out powder.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/easing"
)

func main() {
	name := flag.String("name", "", "Profile to dump (empty = list names)")
	out := flag.String("out", "", "Write YAML to this file instead of stdout")
	flag.Parse()

	if *name == "" {
		fmt.Println("profiles:")
		for _, n := range config.ProfileNames() {
			fmt.Println("  " + n)
		}
		fmt.Println("easings:")
		for _, n := range easing.Names() {
			fmt.Println("  " + n)
		}
		return
	}

	cfg, err := config.Profile(*name)
	if err != nil {
		slog.Error("failed to build profile", "error", err)
		os.Exit(1)
	}

	if *out != "" {
		if err := cfg.WriteYAML(*out); err != nil {
			slog.Error("failed to write profile", "error", err)
			os.Exit(1)
		}
		return
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		slog.Error("failed to marshal profile", "error", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
