// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report serializes match records to text, CSV, or JSON reports.
// Reports are rendered in full before the destination file is replaced, so a
// failed write never leaves a truncated report behind.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/csvgrep/pkg/types"
)

// Format names a report serialization.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// extFormats maps lower-case output extensions to formats.
var extFormats = map[string]Format{
	".txt":  FormatText,
	".csv":  FormatCSV,
	".json": FormatJSON,
}

// ErrNoRecords is returned by Write when there is nothing to report.
var ErrNoRecords = errors.New("no match records to write")

// UnsupportedFormatError reports an output format or extension csvgrep
// cannot produce.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q: must be one of txt, csv, json", e.Format)
}

// FormatFromPath selects the report format from the output file extension,
// ignoring case.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", &UnsupportedFormatError{Format: strings.TrimPrefix(ext, ".")}
}

// Render writes records to w in the given format.
func Render(records []types.MatchRecord, format Format, w io.Writer) error {
	switch format {
	case FormatText:
		return renderText(records, w)
	case FormatCSV:
		return renderCSV(records, w)
	case FormatJSON:
		return renderJSON(records, w)
	default:
		return &UnsupportedFormatError{Format: string(format)}
	}
}

// Write renders records and replaces the file at path with the result. The
// report goes to a temporary file in the same directory first and is renamed
// into place once complete.
func Write(records []types.MatchRecord, format Format, path string) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	var buf bytes.Buffer
	if err := Render(records, format, &buf); err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, outputMode(path)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// outputMode keeps the permissions of an existing destination; new reports
// get 0o644.
func outputMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return 0o644
}

func renderText(records []types.MatchRecord, w io.Writer) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "Found in: %s | Keyword: %s | Row: %s\n", r.File, r.Keyword, r.Row); err != nil {
			return err
		}
	}
	return nil
}

// Columns returns the union of row columns across records, in order of first
// appearance.
func Columns(records []types.MatchRecord) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range records {
		for _, c := range r.Row.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

func renderCSV(records []types.MatchRecord, w io.Writer) error {
	cols := Columns(records)
	cw := csv.NewWriter(w)

	header := append([]string{"file", "keyword"}, cols...)
	if err := cw.Write(header); err != nil {
		return err
	}

	line := make([]string, len(header))
	for _, r := range records {
		line[0], line[1] = r.File, r.Keyword
		for i, c := range cols {
			v, _ := r.Row.Get(c)
			line[i+2] = v
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderJSON(records []types.MatchRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// ReadJSON parses a JSON report back into match records, keeping each row's
// column order.
func ReadJSON(r io.Reader) ([]types.MatchRecord, error) {
	var records []types.MatchRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing JSON report: %w", err)
	}
	return records, nil
}
