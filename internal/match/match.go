// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match scans CSV rows for case-insensitive keyword hits and emits
// one MatchRecord per matching row.
package match

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/csvgrep/pkg/types"
)

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// MalformedCSVError reports a CSV file that could not be parsed.
type MalformedCSVError struct {
	File string
	Err  error
}

func (e *MalformedCSVError) Error() string {
	return fmt.Sprintf("malformed CSV %s: %v", e.File, e.Err)
}

func (e *MalformedCSVError) Unwrap() error {
	return e.Err
}

// errInvalidUTF8 is wrapped by MalformedCSVError for undecodable cells.
var errInvalidUTF8 = errors.New("invalid UTF-8 text")

// Matcher tests rows against a keyword set.
type Matcher struct {
	keywords []string
}

// New builds a Matcher from ks. Keywords are compared in lower case; blank
// keywords are dropped so they never match.
func New(ks types.KeywordSet) *Matcher {
	m := &Matcher{keywords: make([]string, 0, len(ks))}
	for _, kw := range ks {
		if kw == "" {
			continue
		}
		m.keywords = append(m.keywords, strings.ToLower(kw))
	}
	return m
}

// Match inspects the row's fields in column order and returns the value of
// the first non-empty field containing any keyword.
func (m *Matcher) Match(row types.Row) (string, bool) {
	if len(m.keywords) == 0 {
		return "", false
	}
	for _, col := range row.Columns() {
		value, _ := row.Get(col)
		if value == "" {
			continue
		}
		lower := strings.ToLower(value)
		for _, kw := range m.keywords {
			if strings.Contains(lower, kw) {
				return value, true
			}
		}
	}
	return "", false
}

// File opens the CSV file at path and returns the records for every matching
// row, in file order. Records carry the file's base name.
func File(path string, ks types.KeywordSet) ([]types.MatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := New(ks).Reader(filepath.Base(path), f)
	var mErr *MalformedCSVError
	if errors.As(err, &mErr) {
		mErr.File = path
	}
	return records, err
}

// Reader parses r as CSV with a header row and returns a record for every
// matching data row. name is stored as the record's file. An input without
// a header yields no records.
func (m *Matcher) Reader(name string, r io.Reader) ([]types.MatchRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &MalformedCSVError{File: name, Err: err}
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	if err := checkUTF8(header); err != nil {
		return nil, &MalformedCSVError{File: name, Err: fmt.Errorf("header: %w", err)}
	}

	var records []types.MatchRecord
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedCSVError{File: name, Err: err}
		}
		if err := checkUTF8(cells); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, &MalformedCSVError{File: name, Err: fmt.Errorf("line %d: %w", line, err)}
		}

		row := types.NewRow(header, cells)
		if value, ok := m.Match(row); ok {
			records = append(records, types.MatchRecord{
				File:    name,
				Row:     row,
				Keyword: value,
			})
		}
	}
	return records, nil
}

func checkUTF8(cells []string) error {
	for _, c := range cells {
		if !utf8.ValidString(c) {
			return errInvalidUTF8
		}
	}
	return nil
}
