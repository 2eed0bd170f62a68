//go:build mage

// Package main contains Mage build targets for csvgrep developer tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir    = "bin"
	binName   = "csvgrep"
	cmdPkg    = "./cmd/csvgrep"
	sampleDir = "testdata/sample"
)

// sampleFiles seeds a small directory tree for trying the CLI by hand.
var sampleFiles = map[string]string{
	"app.csv":           "id,level,msg\n1,info,started\n2,error,disk full\n3,info,ok\n",
	"nested/jobs.csv":   "job,status\nbackup,Error: timeout\nreport,done\n",
	"nested/README.txt": "not scanned\n",
}

// Build compiles the CLI binary into bin/, stamping the version from
// VERSION when set.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := ""
	if v := os.Getenv("VERSION"); v != "" {
		ldflags = "-X main.version=" + v
	}
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Vet runs go vet over all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Sample writes a small CSV tree under testdata/sample for manual runs:
//
//	bin/csvgrep --path testdata/sample --keyword error --output out.json
func Sample() error {
	for name, content := range sampleFiles {
		path := filepath.Join(sampleDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Println("  ", path)
	}
	fmt.Println("Sample data written.")
	return nil
}

// Clean removes build output and sample data.
func Clean() error {
	if err := sh.Rm(binDir); err != nil {
		return err
	}
	return sh.Rm(sampleDir)
}

// lineCount holds non-blank Go line counts for one package directory.
type lineCount struct {
	prod, test int
}

// Stats prints non-blank Go line counts per package, split into production
// and test code.
func Stats() error {
	counts, err := packageLines(".")
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(counts))
	for dir := range counts {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var total lineCount
	fmt.Printf("%-24s %8s %8s\n", "package", "prod", "test")
	for _, dir := range dirs {
		c := counts[dir]
		fmt.Printf("%-24s %8d %8d\n", dir, c.prod, c.test)
		total.prod += c.prod
		total.test += c.test
	}
	fmt.Printf("%-24s %8d %8d\n", "total", total.prod, total.test)
	return nil
}

// packageLines tallies Go lines by directory, skipping _-prefixed and hidden
// directories.
func packageLines(root string) (map[string]lineCount, error) {
	counts := make(map[string]lineCount)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") {
			return nil
		}

		n, err := nonBlankLines(path)
		if err != nil {
			return err
		}
		dir := filepath.Dir(path)
		c := counts[dir]
		if strings.HasSuffix(name, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		counts[dir] = c
		return nil
	})
	return counts, err
}

func nonBlankLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return n, nil
}
