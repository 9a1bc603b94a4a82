package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/aretw0/sonisync/pkg/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReplayCommand_JSON(t *testing.T) {
	path := filepath.Join("..", "..", "pkg", "scenario", "testdata", "stacked.yaml")
	out, err := execute(t, "replay", path, "--format", "json")
	require.NoError(t, err)

	var report scenario.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "stacked sales", report.Name)
	assert.Len(t, report.Steps, 7)
}

func TestReplayCommand_Mermaid(t *testing.T) {
	path := filepath.Join("..", "..", "pkg", "scenario", "testdata", "stacked.yaml")
	out, err := execute(t, "replay", path, "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, `s0(("0. create`)
}

func TestReplayCommand_Errors(t *testing.T) {
	_, err := execute(t, "replay", "missing.yaml", "--format", "json")
	assert.Error(t, err)

	path := filepath.Join("..", "..", "pkg", "scenario", "testdata", "stacked.yaml")
	_, err = execute(t, "replay", path, "--format", "pdf")
	assert.ErrorContains(t, err, `unknown format "pdf"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sonisync version dev\n", out)
}
