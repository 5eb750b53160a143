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

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.lazy|directory>",
	Short: "Parse a lazy source file or directory and output the AST",
	Long:  `Parse builds the syntax tree of a lazy source file, or of every *.lazy file in a directory, without following imports`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
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
		idx := timer.Begin("parse")
		result, err := driver.Parse(cmd.Context(), target, cfg.maxDiagnostics)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		timer.End(idx, "")

		if err := printSideDiagnostics(cfg, result.Bag, result.FileSet); err != nil {
			return err
		}
		if format == formatJSON {
			err = diagfmt.FormatASTJSON(out, result.Builder, result.FileID)
		} else {
			err = diagfmt.FormatASTTree(out, result.Builder, result.FileID, result.FileSet)
		}
		if err != nil {
			return err
		}
		if result.Bag.HasErrors() {
			return errHasErrors
		}
		return nil
	}

	idx := timer.Begin("parse")
	fs, _, results, err := driver.ParseDir(cmd.Context(), target, cfg.maxDiagnostics, cfg.jobs)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
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

	switch format {
	case formatJSON:
		output := make(map[string]*diagfmt.ASTNodeOutput, len(results))
		for _, r := range results {
			if r.Builder == nil {
				output[r.Path] = nil
				continue
			}
			node, err := diagfmt.BuildASTJSON(r.Builder, r.FileID)
			if err != nil {
				return err
			}
			output[r.Path] = &node
		}
		if err := writeJSON(out, output); err != nil {
			return err
		}
	default:
		for i, r := range results {
			if err := writeHeader(out, cfg, r.Path, i == 0); err != nil {
				return err
			}
			if r.Builder == nil {
				continue
			}
			if err := diagfmt.FormatASTTree(out, r.Builder, r.FileID, fs); err != nil {
				return err
			}
		}
	}
	if hasErrors {
		return errHasErrors
	}
	return nil
}
