package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lazy/internal/diag"
	"lazy/internal/diagfmt"
	"lazy/internal/driver"
	"lazy/internal/observ"
	"lazy/internal/project"
	"lazy/internal/ui"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.lazy|directory]",
	Short: "Run diagnostics on a lazy source file or directory",
	Long: `Diag loads a file with its imports, or every *.lazy file in a directory, and
reports lexical, syntax and linking problems. Without an argument the
lazy.toml project is used: its entry module or its whole source root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiagnose,
}

const noManifestMessage = "no lazy.toml found\nplease specify a file or directory, e.g.:\n  lazyc diag path/to/module.lazy"

func init() {
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "show fix suggestions applied to the source line")
	diagCmd.Flags().String("paths", "auto", "how to print file paths (auto|absolute|relative|basename)")
	diagCmd.Flags().Bool("disk-cache", false, "reuse syntax results from the on-disk cache (directories only)")
	diagCmd.Flags().Bool("graph", false, "print the module graph in dependency order")
}

type diagFlags struct {
	withNotes bool
	suggest   bool
	preview   bool
	pathMode  diagfmt.PathMode
	diskCache bool
	graph     bool
}

func readDiagFlags(cmd *cobra.Command) (diagFlags, error) {
	var f diagFlags
	var err error
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return f, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if f.diskCache, err = cmd.Flags().GetBool("disk-cache"); err != nil {
		return f, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if f.graph, err = cmd.Flags().GetBool("graph"); err != nil {
		return f, fmt.Errorf("failed to get graph flag: %w", err)
	}
	paths, err := cmd.Flags().GetString("paths")
	if err != nil {
		return f, fmt.Errorf("failed to get paths flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(paths)
	if !ok {
		return f, fmt.Errorf("invalid --paths value %q (expected auto|absolute|relative|basename)", paths)
	}
	f.pathMode = mode
	return f, nil
}

// diagTarget is what diag runs on after the manifest was consulted.
type diagTarget struct {
	path  string
	isDir bool
	base  string // каталог для разрешения импортов
}

func resolveDiagTarget(args []string, cfg cliConfig) (diagTarget, error) {
	if len(args) == 0 {
		if cfg.manifest == nil {
			return diagTarget{}, errors.New(noManifestMessage)
		}
		root, err := cfg.manifest.SourceRoot()
		if err != nil {
			return diagTarget{}, fmt.Errorf("%s: %w", cfg.manifest.Path, err)
		}
		entry, err := cfg.manifest.EntryPath()
		if err != nil {
			return diagTarget{}, fmt.Errorf("%s: %w", cfg.manifest.Path, err)
		}
		if entry != "" {
			return diagTarget{path: entry, base: root}, nil
		}
		return diagTarget{path: root, isDir: true, base: root}, nil
	}

	target := args[0]
	st, err := os.Stat(target)
	if err != nil {
		return diagTarget{}, fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return diagTarget{path: target, isDir: true, base: target}, nil
	}
	base := filepath.Dir(target)
	if cfg.manifest != nil {
		if root, err := cfg.manifest.SourceRoot(); err == nil && within(root, target) {
			base = root
		}
	}
	return diagTarget{path: target, base: base}, nil
}

func within(root, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) > 0 {
		start = startDirFor(args[0])
	}
	cfg, err := loadConfig(cmd, start)
	if err != nil {
		return err
	}
	format, err := readFormat(string(cfg.format), formatPretty, formatJSON, formatShort)
	if err != nil {
		return err
	}
	flags, err := readDiagFlags(cmd)
	if err != nil {
		return err
	}
	target, err := resolveDiagTarget(args, cfg)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	opts := driver.DiagnoseOptions{
		BaseDir:        target.base,
		MaxDiagnostics: cfg.maxDiagnostics,
		Jobs:           cfg.jobs,
		Timer:          timer,
	}
	if flags.diskCache {
		cache, err := driver.OpenDiskCache("lazy")
		if err != nil {
			return err
		}
		opts.Cache = cache
	}

	result, err := diagnose(cmd.Context(), target, opts, cfg)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := writeDiagnostics(out, result, cfg, flags, format); err != nil {
		return err
	}
	if flags.graph && format != formatJSON {
		if err := writeGraph(out, result, flags.pathMode == diagfmt.PathModeAbsolute); err != nil {
			return err
		}
	}
	if !cfg.quiet && format == formatPretty && result.CacheHits > 0 {
		fmt.Fprintf(os.Stderr, "disk cache: %d file(s) reused\n", result.CacheHits)
	}
	printTimings(cfg, timer)

	if result.Bag.HasErrors() {
		return errHasErrors
	}
	return nil
}

func diagnose(ctx context.Context, target diagTarget, opts driver.DiagnoseOptions, cfg cliConfig) (*driver.DiagnoseResult, error) {
	if !target.isDir {
		return driver.Diagnose(ctx, []string{target.path}, opts)
	}
	if !shouldUseTUI(cfg.ui, cfg.quiet, cfg.format) {
		return driver.DiagnoseDir(ctx, target.path, opts)
	}

	// события приходят с абсолютными путями
	abs, err := filepath.Abs(target.path)
	if err != nil {
		return nil, err
	}
	absFiles, err := driver.ListSourceFiles(abs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(absFiles))
	for _, f := range absFiles {
		names[f] = project.ModuleName(abs, f)
	}

	var result *driver.DiagnoseResult
	title := fmt.Sprintf("diagnosing %d file(s)", len(absFiles))
	err = ui.Run(os.Stderr, title, absFiles, names, func(sink driver.ProgressSink) error {
		opts.Progress = sink
		var runErr error
		result, runErr = driver.DiagnoseDir(ctx, abs, opts)
		return runErr
	})
	return result, err
}

func writeDiagnostics(w io.Writer, result *driver.DiagnoseResult, cfg cliConfig, flags diagFlags, format outputFormat) error {
	showFixes := flags.suggest || flags.preview
	switch format {
	case formatShort:
		output := diag.FormatShortDiagnostics(result.Bag.Items(), result.FileSet, flags.withNotes)
		if output == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, output)
		return err
	case formatJSON:
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         flags.pathMode,
			IncludeNotes:     flags.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  flags.preview,
		}
		if !flags.graph {
			return diagfmt.JSON(w, result.Bag, result.FileSet, jsonOpts)
		}
		return writeJSON(w, struct {
			diagfmt.DiagnosticsOutput
			Modules []moduleJSON `json:"modules"`
		}{
			DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(result.Bag, result.FileSet, jsonOpts),
			Modules:           buildModulesJSON(result.Modules),
		})
	default:
		if result.Bag.Len() == 0 {
			if !cfg.quiet {
				_, err := fmt.Fprintln(w, "no problems found")
				return err
			}
			return nil
		}
		return diagfmt.Pretty(w, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:       cfg.useColor(os.Stdout),
			PathMode:    flags.pathMode,
			ShowNotes:   flags.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: flags.preview,
		})
	}
}
