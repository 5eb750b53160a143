package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lazy/internal/diag"
	"lazy/internal/diagfmt"
	"lazy/internal/driver"
	"lazy/internal/observ"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.lazy|directory>",
	Short: "Tokenize a lazy source file or directory",
	Long:  `Tokenize breaks a lazy source file, or every *.lazy file in a directory, into tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	target := args[0]
	cfg, err := loadConfig(cmd, startDirFor(target))
	if err != nil {
		return err
	}
	format, err := readFormat(string(cfg.format), formatPretty, formatJSON)
	if err != nil {
		return err
	}
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	timer := observ.NewTimer()
	defer printTimings(cfg, timer)
	out := cmd.OutOrStdout()

	if !st.IsDir() {
		idx := timer.Begin("tokenize")
		result, err := driver.Tokenize(target, cfg.maxDiagnostics)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		timer.End(idx, fmt.Sprintf("%d tokens", len(result.Tokens)))

		if err := printSideDiagnostics(cfg, result.Bag, result.FileSet); err != nil {
			return err
		}
		if format == formatJSON {
			err = diagfmt.FormatTokensJSON(out, result.Tokens)
		} else {
			err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
		}
		if err != nil {
			return err
		}
		if result.Bag.HasErrors() {
			return errHasErrors
		}
		return nil
	}

	idx := timer.Begin("tokenize")
	fs, results, err := driver.TokenizeDir(cmd.Context(), target, cfg.maxDiagnostics, cfg.jobs)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	timer.End(idx, fmt.Sprintf("%d files", len(results)))

	hasErrors := false
	all := diag.NewBag(0)
	for _, r := range results {
		all.Merge(r.Bag)
		hasErrors = hasErrors || r.Bag.HasErrors()
	}
	if err := printSideDiagnostics(cfg, all, fs); err != nil {
		return err
	}

	if format == formatJSON {
		output := make(map[string][]diagfmt.TokenOutput, len(results))
		for _, r := range results {
			output[displayPath(fs, r.FileID, r.Path)] = diagfmt.BuildTokensJSON(r.Tokens)
		}
		if err := writeJSON(out, output); err != nil {
			return err
		}
	} else {
		for i, r := range results {
			if err := writeHeader(out, cfg, displayPath(fs, r.FileID, r.Path), i == 0); err != nil {
				return err
			}
			if err := diagfmt.FormatTokensPretty(out, r.Tokens, fs); err != nil {
				return err
			}
		}
	}
	if hasErrors {
		return errHasErrors
	}
	return nil
}
