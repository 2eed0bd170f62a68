// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/csvgrep/internal/report"
	"github.com/pdiddy/csvgrep/internal/walk"
)

// execute runs the root command with args and returns stdout and stderr.
// Flag and config state is restored afterwards so runs do not leak.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() {
		resetFlags(rootCmd.Flags())
		resetFlags(rootCmd.PersistentFlags())
		viper.Reset()
		bindConfig()
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSearch_WritesReport(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeCSV(t, dir, "a.csv", "id,msg\n1,all good\n2,fatal ERROR occurred\n")
	out := filepath.Join(t.TempDir(), "out.json")

	stdout, _, err := execute(t, "--path", csvPath, "--keyword", " error ", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Results saved to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"file":"a.csv","row":{"id":"2","msg":"fatal ERROR occurred"},"keyword":"fatal ERROR occurred"}]`,
		string(data))
}

func TestSearch_NoMatches(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "id,msg\n1,all good\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	stdout, _, err := execute(t, "--path", dir, "--keyword", "error", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No matching keywords found.")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSearch_UnsupportedOutput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, _, err := execute(t, "--path", missing, "--keyword", "error", "--output", "out.xml")
	var ufe *report.UnsupportedFormatError
	assert.True(t, errors.As(err, &ufe), "got %v", err)
}

func TestSearch_PathNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	out := filepath.Join(t.TempDir(), "out.txt")

	_, _, err := execute(t, "--path", missing, "--keyword", "error", "--output", out)
	var pnf *walk.PathNotFoundError
	assert.True(t, errors.As(err, &pnf), "got %v", err)
}

func TestSearch_RequiredFlags(t *testing.T) {
	_, _, err := execute(t, "--keyword", "error", "--output", "out.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path")
}

func TestSearch_OnMalformedSkip(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "id,msg\n1,error\n")
	writeCSV(t, dir, "b.csv", "id,msg\n1,2,3\n")
	out := filepath.Join(t.TempDir(), "out.txt")

	_, _, err := execute(t, "--path", dir, "--keyword", "error", "--output", out)
	require.Error(t, err, "abort is the default policy")

	stdout, stderr, err := execute(t, "--path", dir, "--keyword", "error", "--output", out, "--on-malformed", "skip")
	require.NoError(t, err)
	assert.Contains(t, stderr, "warning: skipped")
	assert.Contains(t, stdout, "Results saved to")
}

func TestSearch_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "id,msg\n1,error\n2,late timeout\n")
	writeCSV(t, dir, "b.csv", "id,msg\n1,2,3\n")

	cfgDir := t.TempDir()
	kwFile := filepath.Join(cfgDir, "keywords.yaml")
	require.NoError(t, os.WriteFile(kwFile, []byte("keywords: [timeout]\n"), 0o644))
	cfgFile := filepath.Join(cfgDir, "csvgrep.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("on_malformed: skip\nkeywords_file: "+kwFile+"\n"), 0o644))

	out := filepath.Join(t.TempDir(), "out.txt")
	_, _, err := execute(t, "--config", cfgFile, "--path", dir, "--keyword", "error", "--output", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Keyword: error")
	assert.Contains(t, string(data), "Keyword: late timeout")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "csvgrep dev\n", stdout)
}
