package wordfreq

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReadChunk returns the trimmed, non-empty lines of r in the file at path.
//
// Lines are read from r.Start while the bytes consumed stay within r.Len().
// The first line is always taken whole, even if it runs past r.End: a line
// belongs to the chunk that started reading it.
func ReadChunk(ctx context.Context, path string, r ByteRange) ([]string, error) {
	_, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(
		attribute.Int64("start", r.Start),
		attribute.Int64("end", r.End),
	))
	defer span.End()

	length := r.Len()
	if length <= 0 {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIO("open", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(r.Start, io.SeekStart); err != nil {
		return nil, wrapIO("seek", path, err)
	}

	br := bufio.NewReaderSize(f, scanBufferSize)

	var (
		lines    []string
		consumed int64
		read     int
	)
	for consumed < length {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			consumed += int64(len(line))
			read++

			if consumed > length && read > 1 {
				break
			}

			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapIO("read", path, err)
		}
	}

	span.SetAttributes(attribute.Int("lines", len(lines)))

	return lines, nil
}
