package main

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentuity/go-collections/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `
kind: circular
maxSize: 1
steps:
  - {op: enqueue, value: a}
  - {op: enqueue, value: b}
  - {op: dequeue}
`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReplayJSON(t *testing.T) {
	out, err := execute(t, script, "replay", "-", "--format", "json", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	var last replay.Result
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, replay.Result{Step: 3, Op: "dequeue", Output: "a"}, last)
}

func TestReplayTable(t *testing.T) {
	out, err := execute(t, script, "replay", "-", "--format", "table", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "enqueue")
	assert.Contains(t, out, "false")
}

func TestReplayInvalidScript(t *testing.T) {
	_, err := execute(t, "kind: heap\n", "replay", "-", "--log-level", "error")
	assert.ErrorIs(t, err, replay.ErrInvalidScript)
}

func TestReplayMissingScript(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := execute(t, "", "replay", missing, "--log-level", "error")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "unable to open script")
}

func TestRenderUnknownFormat(t *testing.T) {
	format = "xml"
	defer func() { format = "table" }()
	assert.Error(t, render(&bytes.Buffer{}, nil))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}
