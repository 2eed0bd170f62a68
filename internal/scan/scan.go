// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan drives a csvgrep run: it validates the output format, walks
// the scan root, matches every CSV file in walk order, and hands the
// accumulated records to the report writer.
package scan

import (
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/csvgrep/internal/match"
	"github.com/pdiddy/csvgrep/internal/report"
	"github.com/pdiddy/csvgrep/internal/walk"
	"github.com/pdiddy/csvgrep/pkg/types"
)

// Result holds the outcome of a run.
type Result struct {
	// Records are the matches in discovery order.
	Records []types.MatchRecord

	// Scanned counts files that were fully matched.
	Scanned int

	// Skipped counts malformed files passed over under MalformedSkip.
	Skipped int

	// Written reports whether an output file was produced.
	Written bool
}

// HasMatches reports whether the run found any matching rows.
func (r Result) HasMatches() bool {
	return len(r.Records) > 0
}

// Collect matches each file in order and accumulates the records. A
// malformed file aborts the collection under MalformedAbort; under
// MalformedSkip a warning goes to w and the file is counted as skipped.
// Any other per-file error is returned as is.
func Collect(files []string, ks types.KeywordSet, policy types.MalformedPolicy, w io.Writer) (Result, error) {
	var result Result
	for _, f := range files {
		records, err := match.File(f, ks)
		if err != nil {
			var mErr *match.MalformedCSVError
			if errors.As(err, &mErr) && policy == types.MalformedSkip {
				fmt.Fprintf(w, "warning: skipped %s: %v\n", mErr.File, mErr.Err)
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Scanned++
		result.Records = append(result.Records, records...)
	}
	return result, nil
}

// Keywords merges the configured keywords with those from the keywords file,
// if one is set. File entries follow the configured ones.
func Keywords(cfg types.ScanConfig) (types.KeywordSet, error) {
	ks := append(types.KeywordSet(nil), cfg.Keywords...)
	if cfg.KeywordsFile == "" {
		return ks, nil
	}
	extra, err := match.LoadKeywordsFile(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}
	return append(ks, extra...), nil
}

// Run performs a full scan described by cfg. The output format is checked
// before the scan root is touched. When no rows match, nothing is written
// and Result.Written is false.
func Run(cfg types.ScanConfig, w io.Writer) (Result, error) {
	format, err := report.FormatFromPath(cfg.Output)
	if err != nil {
		return Result{}, err
	}
	policy, err := types.ParseMalformedPolicy(string(cfg.OnMalformed))
	if err != nil {
		return Result{}, err
	}
	ks, err := Keywords(cfg)
	if err != nil {
		return Result{}, err
	}

	files, err := walk.CSVFiles(cfg.Path)
	if err != nil {
		return Result{}, err
	}

	result, err := Collect(files, ks, policy, w)
	if err != nil {
		return result, err
	}
	if result.Skipped > 0 {
		fmt.Fprintf(w, "Scan summary: %d scanned, %d skipped (total: %d)\n",
			result.Scanned, result.Skipped, result.Scanned+result.Skipped)
	}
	if !result.HasMatches() {
		return result, nil
	}

	if err := report.Write(result.Records, format, cfg.Output); err != nil {
		return result, err
	}
	result.Written = true
	return result, nil
}
