// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package walk resolves a file or directory path into the CSV files to scan.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const csvExt = ".csv"

// PathNotFoundError reports a scan root that is neither a regular file nor
// a directory.
type PathNotFoundError struct {
	Path string
	Err  error
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("the path %q is neither a file nor a folder", e.Path)
}

func (e *PathNotFoundError) Unwrap() error {
	return e.Err
}

// IsCSV reports whether name has a .csv extension, ignoring case.
func IsCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), csvExt)
}

// CSVFiles returns the CSV files under root. A regular file yields itself
// when it has a .csv extension and nothing otherwise. A directory yields
// every non-directory entry with a .csv extension in lexical walk order.
// Subdirectories that cannot be read are skipped.
func CSVFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &PathNotFoundError{Path: root, Err: err}
	}

	switch {
	case info.Mode().IsRegular():
		if IsCSV(root) {
			return []string{root}, nil
		}
		return nil, nil
	case info.IsDir():
		// WalkDir does not descend into a symlinked root.
		if li, err := os.Lstat(root); err == nil && li.Mode()&fs.ModeSymlink != 0 {
			if resolved, err := filepath.EvalSymlinks(root); err == nil {
				return walkDir(resolved)
			}
		}
		return walkDir(root)
	default:
		return nil, &PathNotFoundError{Path: root}
	}
}

func walkDir(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsCSV(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathNotFoundError{Path: root, Err: err}
		}
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}
