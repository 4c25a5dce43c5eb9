// Package gen writes synthetic text input for wordfreq runs.
package gen

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// extraWords are mixed into roughly a third of the sentences so that the
// vocabulary is not only gofakeit's lorem words.
var extraWords = []string{
	"computer", "algorithm", "programming", "concurrency", "multithreading",
	"performance", "optimization", "analysis", "design", "software",
	"hardware", "network", "database", "machine", "learning", "data",
}

type Options struct {
	// Size is the minimum number of bytes to write; the last line is
	// always completed.
	Size int64
	// Seed makes the output reproducible.
	Seed uint64
	// Extra is the probability of inserting an extra word into a sentence.
	Extra float64
}

// Generate writes newline terminated sentences to w until at least
// opts.Size bytes are written and returns the number of bytes written.
func Generate(w io.Writer, opts Options) (int64, error) {
	faker := gofakeit.New(opts.Seed)
	bw := bufio.NewWriter(w)

	var written int64
	for written < opts.Size {
		sentence := faker.Sentence(faker.IntRange(4, 12))

		if faker.Float64() < opts.Extra {
			words := strings.Fields(sentence)
			pos := faker.IntRange(0, len(words))
			words = slices.Insert(words, pos, faker.RandomString(extraWords))
			sentence = strings.Join(words, " ")
		}

		n, err := bw.WriteString(sentence + "\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	return written, bw.Flush()
}

// GenerateFile writes generated input to path, creating parent directories.
func GenerateFile(path string, opts Options) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create input dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create input: %w", err)
	}

	n, err := Generate(f, opts)
	if err != nil {
		_ = f.Close()
		return n, fmt.Errorf("generate input: %w", err)
	}

	if err := f.Close(); err != nil {
		return n, fmt.Errorf("close input: %w", err)
	}

	return n, nil
}
