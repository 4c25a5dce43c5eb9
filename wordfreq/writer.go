package wordfreq

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spaolacci/murmur3"
	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Compare orders two words for output. Two words made only of ASCII digits
// compare as unsigned integers (of any length), anything else compares byte
// by byte. Numerically equal digit strings such as "007" and "7" fall back
// to byte order.
func Compare(a, b string) int {
	if isDigits(a) && isDigits(b) {
		if c := compareNumeric(a, b); c != 0 {
			return c
		}
	}

	return strings.Compare(a, b)
}

// SortEntries sorts entries with Compare.
//
// Compare is not transitive across mixed keys ("9" < "10" < "1a" < "9"), so
// entries are first put in byte order. The result then depends only on the
// set of words, never on the order they came in.
func SortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Word, b.Word)
	})
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return Compare(a.Word, b.Word)
	})
}

// WriteEntries writes one "<word>: <count>" line per entry.
func WriteEntries(w io.Writer, entries []Entry) error {
	var line []byte
	for _, e := range entries {
		line = append(line[:0], e.Word...)
		line = append(line, ':', ' ')
		line = strconv.AppendUint(line, e.Count, 10)
		line = append(line, '\n')

		if _, err := w.Write(line); err != nil {
			return err
		}
	}

	return nil
}

// WriteFile writes the sorted counts to path and returns the murmur3 hash of
// the written bytes. Missing parent directories are created. The output is
// written to a temporary file first and renamed into place, so path never
// holds a partial result.
func WriteFile(ctx context.Context, path string, counts FrequencyMap) (uint64, error) {
	_, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(
		attribute.String("path", path),
		attribute.Int("words", len(counts)),
	))
	defer span.End()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, wrapIO("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, wrapIO("create", path, err)
	}
	tmpPath := tmp.Name()

	digest, err := writeTemp(tmp, counts)
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, wrapIO("write", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, wrapIO("rename", path, err)
	}

	return digest, nil
}

func writeTemp(f *os.File, counts FrequencyMap) (uint64, error) {
	hash := murmur3.New64()
	bw := bufio.NewWriterSize(io.MultiWriter(f, hash), 64*1024)

	if err := WriteEntries(bw, counts.Entries()); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	// CreateTemp uses 0600
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return 0, err
	}

	return hash.Sum64(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// compareNumeric compares two digit strings by value without parsing them,
// so keys longer than a uint64 still order correctly.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")

	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}

	return strings.Compare(a, b)
}
