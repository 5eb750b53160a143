package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"lazy/internal/diag"
	"lazy/internal/diagfmt"
	"lazy/internal/observ"
	"lazy/internal/source"
)

// printSideDiagnostics renders diagnostics of tokenize and parse to stderr;
// stdout carries the command's own output.
func printSideDiagnostics(cfg cliConfig, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	return diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     cfg.useColor(os.Stderr),
		ShowNotes: true,
	})
}

func printTimings(cfg cliConfig, timer *observ.Timer) {
	if !cfg.timings || timer == nil {
		return
	}
	fmt.Fprint(os.Stderr, timer.Summary())
}

func writeHeader(w io.Writer, cfg cliConfig, path string, first bool) error {
	if cfg.quiet {
		return nil
	}
	if !first {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "== %s ==\n", path)
	return err
}

// displayPath shows file ids the way pretty diagnostics do.
func displayPath(fs *source.FileSet, id source.FileID, fallback string) string {
	if fs == nil || int(id) >= fs.Len() {
		return fallback
	}
	return fs.Get(id).FormatPath("relative", fs.BaseDir())
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
