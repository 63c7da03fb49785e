package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dataPath string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--data-path", dataPath, "--log-level", "error"}, args...))
	cmd.SetContext(t.Context())

	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestMigrate(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "migrate")
	assert.Contains(t, out, "schema version")
	assert.Contains(t, out, "dirty=false")

	_, err := os.Stat(filepath.Join(dir, "attic.db"))
	assert.NoError(t, err)
}

func TestSeedThenReport(t *testing.T) {
	dir := t.TempDir()

	out := run(t, dir, "seed")
	assert.Contains(t, out, "tags         11")
	assert.Contains(t, out, "books        4 (12 highlights)")

	out = run(t, dir, "seed", "--reset")
	assert.Contains(t, out, "collections  3 (9 items)")

	out = run(t, dir, "stats", "--year", "2024")
	assert.Contains(t, out, "Total books")
	assert.Contains(t, out, "Finished in 2024")

	out = run(t, dir, "tags", "top", "--limit", "3")
	lines := bytes.Count([]byte(out), []byte("\n"))
	assert.Equal(t, 4, lines, out)
	assert.Contains(t, out, "SLUG")
}

func TestSeed_WithoutResetFailsOnSecondRun(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "seed")

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--data-path", dir, "seed"})
	cmd.SetContext(t.Context())

	err := cmd.Execute()
	assert.ErrorContains(t, err, "seed tags")
}

func TestTagsMerge(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "seed")

	out := run(t, dir, "tags", "merge", "psychology", "trust")
	assert.Contains(t, out, `Merged "Psychology" into "Trust"`)

	out = run(t, dir, "tags", "top", "--limit", "50")
	assert.NotContains(t, out, "psychology")
	assert.Contains(t, out, "trust")
}

func TestTagsUnused(t *testing.T) {
	dir := t.TempDir()
	run(t, dir, "seed")

	out := run(t, dir, "tags", "unused", "--limit", "50")
	assert.Contains(t, out, "wisdom")
	assert.Contains(t, out, "philosophy")
	assert.NotContains(t, out, "introversion")
}
