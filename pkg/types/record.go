// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the csvgrep pipeline:
// the ordered CSV row, the match record produced by the matcher, the keyword
// set supplied by the caller, and the scan configuration.
package types

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Row is one CSV data row keyed by header name. Column order follows the
// source header, since column sets vary per file and a plain map would lose
// the order.
type Row struct {
	values *orderedmap.OrderedMap[string, string]
}

func newValues(capacity int) *orderedmap.OrderedMap[string, string] {
	return orderedmap.New[string, string](
		orderedmap.WithCapacity[string, string](capacity),
		orderedmap.WithDisableHTMLEscape[string, string](),
	)
}

// NewRow pairs header names with cell values. A repeated header keeps its
// first position and takes the later cell's value. Cells beyond the header
// are ignored; missing cells read as empty.
func NewRow(header, cells []string) Row {
	r := Row{values: newValues(len(header))}
	for i, name := range header {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		r.values.Set(name, v)
	}
	return r
}

// Columns returns the column names in source order.
func (r Row) Columns() []string {
	if r.values == nil {
		return []string{}
	}
	cols := make([]string, 0, r.values.Len())
	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		cols = append(cols, pair.Key)
	}
	return cols
}

// Get returns the value for column name and whether the row has that column.
func (r Row) Get(name string) (string, bool) {
	if r.values == nil {
		return "", false
	}
	return r.values.Get(name)
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	if r.values == nil {
		return 0
	}
	return r.values.Len()
}

// Map returns a copy of the row as an unordered map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, r.Len())
	if r.values == nil {
		return m
	}
	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		m[pair.Key] = pair.Value
	}
	return m
}

// String renders the row as {'col': 'value', ...} in column order.
func (r Row) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, col := range r.Columns() {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := r.Get(col)
		b.WriteString(quoteLiteral(col))
		b.WriteString(": ")
		b.WriteString(quoteLiteral(v))
	}
	b.WriteByte('}')
	return b.String()
}

// quoteLiteral wraps s in single quotes, switching to double quotes when s
// holds a single quote and no double quote. Non-printable runes are written
// as \xNN, \uNNNN or \UNNNNNNNN.
func quoteLiteral(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteRune(q)
	for _, c := range s {
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteRune(q)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(c):
			b.WriteRune(c)
		case c < 0x100:
			fmt.Fprintf(&b, `\x%02x`, c)
		case c < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, c)
		default:
			fmt.Fprintf(&b, `\U%08x`, c)
		}
	}
	b.WriteRune(q)
	return b.String()
}

// MarshalJSON writes the row as a JSON object with keys in column order.
// Values are not HTML-escaped here; the caller's encoder settings decide
// whether <, > and & are escaped in the final output.
func (r Row) MarshalJSON() ([]byte, error) {
	if r.values == nil {
		return []byte("{}"), nil
	}
	return r.values.MarshalJSON()
}

// UnmarshalJSON reads a JSON object of string values, keeping key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Row{}
		return nil
	}
	values := newValues(0)
	if err := values.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("row: %w", err)
	}
	*r = Row{values: values}
	return nil
}

// MatchRecord is one matching row plus its source file and matched value.
type MatchRecord struct {
	// File is the base name of the CSV file the row came from.
	File string `json:"file"`

	// Row is the entire matching row, not only the matched field.
	Row Row `json:"row"`

	// Keyword is the full value of the first matching field.
	Keyword string `json:"keyword"`
}

// KeywordSet is an ordered list of case-insensitive substrings. Duplicates
// are allowed; an empty set matches nothing.
type KeywordSet []string

// ParseKeywords splits a comma-separated list, trimming surrounding
// whitespace from each entry and dropping entries left blank.
func ParseKeywords(s string) KeywordSet {
	var ks KeywordSet
	for _, part := range strings.Split(s, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			ks = append(ks, kw)
		}
	}
	return ks
}
