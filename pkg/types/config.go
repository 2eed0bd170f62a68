// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// MalformedPolicy selects what a scan does when a CSV file fails to parse.
type MalformedPolicy string

const (
	// MalformedAbort stops the run on the first malformed file.
	MalformedAbort MalformedPolicy = "abort"
	// MalformedSkip records a warning for the file and continues.
	MalformedSkip MalformedPolicy = "skip"
)

// ParseMalformedPolicy validates a policy name. The empty string selects
// MalformedAbort.
func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch MalformedPolicy(s) {
	case "", MalformedAbort:
		return MalformedAbort, nil
	case MalformedSkip:
		return MalformedSkip, nil
	default:
		return "", fmt.Errorf("unknown malformed-file policy %q: use abort or skip", s)
	}
}

// ScanConfig holds the settings for one csvgrep run.
type ScanConfig struct {
	// Path is the CSV file or directory to scan.
	Path string `json:"path" yaml:"path"`

	// Keywords are matched as case-insensitive substrings.
	Keywords KeywordSet `json:"keywords" yaml:"keywords"`

	// KeywordsFile is an optional YAML list of extra keywords.
	KeywordsFile string `json:"keywords_file,omitempty" yaml:"keywords_file,omitempty"`

	// Output is the report path; its extension selects the format.
	Output string `json:"output" yaml:"output"`

	// OnMalformed selects the malformed-file policy (default abort).
	OnMalformed MalformedPolicy `json:"on_malformed" yaml:"on_malformed"`
}
