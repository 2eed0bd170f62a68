// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/csvgrep/pkg/types"
)

// KeywordsFile is the on-disk form of a reusable keyword list:
//
//	keywords:
//	  - error
//	  - timeout
type KeywordsFile struct {
	Keywords []string `yaml:"keywords"`
}

// LoadKeywordsFile reads a YAML keywords file. Entries are trimmed and blank
// entries dropped, the same as keywords given on the command line.
func LoadKeywordsFile(path string) (types.KeywordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keywords file: %w", err)
	}
	var kf KeywordsFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}

	var ks types.KeywordSet
	for _, kw := range kf.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			ks = append(ks, kw)
		}
	}
	return ks, nil
}
