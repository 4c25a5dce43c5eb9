package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var logs bytes.Buffer
	err := newApp(&logs).Run(append([]string{"wordfreq"}, args...))

	return logs.String(), err
}

func TestCount(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "out", "result.txt")
	require.NoError(t, os.WriteFile(input, []byte("The quick brown fox jumps over the lazy dog.\nThe lazy dog sleeps all day.\n"), 0o644))

	logs, err := run(t, "--log-format", "json", "count", "--input", input, "--output", output, "--chunks", "1")
	require.NoError(t, err)
	require.Contains(t, logs, `"msg":"wordfreq: done"`)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Contains(t, lines, "the: 3")
	require.Contains(t, lines, "lazy: 2")
	require.Contains(t, lines, "dog: 2")
	require.Contains(t, lines, "quick: 1")
}

func TestCountStorages(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")

	_, err := run(t, "generate", "--output", input, "--size", "20KB", "--seed", "5")
	require.NoError(t, err)

	var want []byte
	for _, storage := range []string{"memory", "bbolt", "sqlite"} {
		output := filepath.Join(dir, storage+".txt")

		args := []string{"count", "-i", input, "-o", output, "-n", "4", "--storage", storage}
		if storage != "memory" {
			args = append(args, "--storage-path", filepath.Join(dir, storage+".db"))
		}

		_, err := run(t, args...)
		require.NoError(t, err, storage)

		got, err := os.ReadFile(output)
		require.NoError(t, err)
		require.NotEmpty(t, got)

		if want == nil {
			want = got
			continue
		}
		require.Equal(t, string(want), string(got), storage)
	}
}

func TestCountConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "result.txt")
	require.NoError(t, os.WriteFile(input, []byte("b a\n10 2\n"), 0o644))

	cfgPath := filepath.Join(dir, "wordfreq.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"input: "+input+"\n"+
			"output: "+filepath.Join(dir, "ignored.txt")+"\n"+
			"chunks: 2\n"+
			"log:\n  level: warn\n  format: text\n",
	), 0o644))

	// --output overrides the file
	_, err := run(t, "count", "--config", cfgPath, "--output", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, "2: 1\n10: 1\na: 1\nb: 1\n", string(data))
	require.NoFileExists(t, filepath.Join(dir, "ignored.txt"))
}

func TestCountFailures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing input flag",
			args:    []string{"count", "--output", filepath.Join(dir, "out.txt")},
			wantErr: "input is required",
		},
		{
			name:    "missing input file",
			args:    []string{"count", "--input", filepath.Join(dir, "nope.txt"), "--output", filepath.Join(dir, "out.txt")},
			wantErr: "file not found",
		},
		{
			name:    "zero chunks",
			args:    []string{"count", "--input", "x", "--chunks", "0"},
			wantErr: "chunks must be at least 1",
		},
		{
			name:    "unknown storage",
			args:    []string{"count", "--input", "x", "--storage", "redis"},
			wantErr: "unknown storage kind",
		},
		{
			name:    "bad log level",
			args:    []string{"--log-level", "loud", "count", "--input", "x"},
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}

	require.NoFileExists(t, filepath.Join(dir, "out.txt"))
}

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen", "input.txt")

	_, err := run(t, "generate", "--output", path, "--size", "4KiB")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, info.Size(), int64(4096))
}
