package wordfreq

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spaolacci/murmur3"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"10", "10", 0},
		{"007", "7", -1},
		{"7", "007", 1},
		{"apple", "banana", -1},
		{"banana", "apple", 1},
		{"10", "apple", -1},
		{"apple", "2", 1},
		{"2a", "10", 1},
		{"99999999999999999999999", "100000000000000000000000", -1},
		{"18446744073709551616", "18446744073709551615", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			require.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestSortEntriesMixed(t *testing.T) {
	counts := FrequencyMap{"10": 1, "2": 1, "apple": 1, "banana": 1}

	entries := counts.Entries()

	require.Equal(t, []Entry{
		{"2", 1},
		{"10", 1},
		{"apple", 1},
		{"banana", 1},
	}, entries)
}

func TestSortEntriesIdempotent(t *testing.T) {
	counts := FrequencyMap{
		"9": 1, "10": 2, "1a": 3, "100": 4, "007": 5, "7": 6,
		"zebra": 7, "ant": 8, "Ωmega": 9, "a1": 10, "0": 11,
	}

	sorted := counts.Entries()

	again := slices.Clone(sorted)
	SortEntries(again)
	require.Equal(t, sorted, again)

	reversed := slices.Clone(sorted)
	slices.Reverse(reversed)
	SortEntries(reversed)
	require.Equal(t, sorted, reversed)

	// every run over the same words agrees
	for range 20 {
		require.Equal(t, sorted, counts.Entries())
	}
}

func TestWriteEntries(t *testing.T) {
	var buf bytes.Buffer

	err := WriteEntries(&buf, []Entry{{"2", 1}, {"10", 12}, {"apple", 3}})
	require.NoError(t, err)
	require.Equal(t, "2: 1\n10: 12\napple: 3\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "deeper", "output.txt")

	digest, err := WriteFile(ctx, path, FrequencyMap{"banana": 2, "apple": 1, "10": 4, "2": 3})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "2: 3\n10: 4\napple: 1\nbanana: 2\n", string(data))
	require.Equal(t, murmur3.Sum64(data), digest)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFileEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "output.txt")

	_, err := WriteFile(ctx, path, FrequencyMap{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestWriteFileOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale: 99\n"), 0o644))

	_, err := WriteFile(ctx, path, FrequencyMap{"fresh": 1})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "fresh: 1\n", string(data))
}

func TestWriteFileIntoFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := WriteFile(ctx, filepath.Join(blocker, "output.txt"), FrequencyMap{"word": 1})
	require.Error(t, err)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	require.ErrorIs(t, err, ErrIO)
}
