package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lazy/internal/project"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatJSON   outputFormat = "json"
	formatShort  outputFormat = "short"
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

// cliConfig is the merged view of lazy.toml and the global flags; flags
// that were set explicitly win.
type cliConfig struct {
	color          colorMode
	quiet          bool
	timings        bool
	maxDiagnostics int
	format         outputFormat
	ui             uiMode
	jobs           int
	manifest       *project.Manifest // nil вне проекта
}

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func readFormat(value string, allowed ...outputFormat) (outputFormat, error) {
	f := outputFormat(strings.TrimSpace(strings.ToLower(value)))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("unknown format %q (expected %s)", value, strings.Join(names, "|"))
}

// loadConfig reads global flags and the manifest found upward from
// startDir.
func loadConfig(cmd *cobra.Command, startDir string) (cliConfig, error) {
	flags := cmd.Root().PersistentFlags()
	var cfg cliConfig

	colorStr, err := flags.GetString("color")
	if err != nil {
		return cfg, fmt.Errorf("failed to get color flag: %w", err)
	}
	if cfg.quiet, err = flags.GetBool("quiet"); err != nil {
		return cfg, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if cfg.timings, err = flags.GetBool("timings"); err != nil {
		return cfg, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if cfg.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return cfg, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if cfg.jobs, err = flags.GetInt("jobs"); err != nil {
		return cfg, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	formatStr, err := flags.GetString("format")
	if err != nil {
		return cfg, fmt.Errorf("failed to get format flag: %w", err)
	}
	cfg.format = outputFormat(strings.ToLower(formatStr))
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return cfg, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cfg.ui, err = readUIMode(uiStr); err != nil {
		return cfg, err
	}

	manifestPath, ok, err := project.FindManifest(startDir)
	if err != nil {
		return cfg, err
	}
	if ok {
		if cfg.manifest, err = project.LoadManifest(manifestPath); err != nil {
			return cfg, err
		}
		if !flags.Changed("max-diagnostics") && cfg.manifest.Diagnostics.Max > 0 {
			cfg.maxDiagnostics = cfg.manifest.Diagnostics.Max
		}
		if !flags.Changed("color") && cfg.manifest.Diagnostics.Color != "" {
			colorStr = cfg.manifest.Diagnostics.Color
		}
	}
	if cfg.color, err = readColorMode(colorStr); err != nil {
		return cfg, err
	}
	if cfg.maxDiagnostics < 0 {
		return cfg, fmt.Errorf("--max-diagnostics must not be negative")
	}
	return cfg, nil
}

// useColor decides colouring for output going to f.
func (c cliConfig) useColor(f *os.File) bool {
	switch c.color {
	case colorOn:
		return true
	case colorOff:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(f)
}

// startDirFor is where manifest discovery begins for a command target.
func startDirFor(target string) string {
	if target == "" {
		return "."
	}
	if st, err := os.Stat(target); err == nil && st.IsDir() {
		return target
	}
	return filepath.Dir(target)
}
