package wordfreq

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const scanBufferSize = 8 * 1024

// LineBreaker returns the first line boundary at or after offset: the offset
// just past a '\n', or the end of input.
type LineBreaker func(r io.ReaderAt, offset int64) (int64, error)

// NextLineBoundary is the default LineBreaker. An offset that already
// follows a '\n' is returned unchanged.
func NextLineBoundary(r io.ReaderAt, offset int64) (int64, error) {
	if offset > 0 {
		var prev [1]byte
		n, err := r.ReadAt(prev[:], offset-1)
		if n == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return offset, nil
			}
			return 0, err
		}
		if prev[0] == '\n' {
			return offset, nil
		}
	}

	buf := make([]byte, scanBufferSize)
	pos := offset
	for {
		n, err := r.ReadAt(buf, pos)
		if i := bytes.IndexByte(buf[:n], '\n'); i >= 0 {
			return pos + int64(i) + 1, nil
		}
		pos += int64(n)

		if errors.Is(err, io.EOF) {
			return pos, nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// Plan divides [0, size) into at most n line-aligned chunks. Chunk ends are
// pushed forward to the next line boundary, so chunks are only roughly
// target sized, and a file with few lines yields fewer chunks than asked for.
// The last chunk always ends at size.
func Plan(r io.ReaderAt, size int64, n int, breakLine LineBreaker) ([]Chunk, error) {
	if n < 1 {
		return nil, ErrInvalidChunkCount
	}
	if breakLine == nil {
		breakLine = NextLineBoundary
	}

	if size == 0 {
		return []Chunk{{Index: 0}}, nil
	}

	target := max(1, size/int64(n))

	chunks := make([]Chunk, 0, min(int64(n), size))
	var current int64
	for i := 0; i < n && current < size; i++ {
		end := min(current+target, size)

		if i == n-1 {
			end = size
		} else if end < size {
			var err error
			if end, err = breakLine(r, end); err != nil {
				return nil, err
			}

			// NextLineBoundary never trips this: a snapped chunk is shorter
			// than target only when it ends at size.
			if end-current < target/2 && end < size {
				if end, err = breakLine(r, end+1); err != nil {
					return nil, err
				}
			}
		}

		chunks = append(chunks, Chunk{
			Index:     i,
			ByteRange: ByteRange{Start: current, End: end},
		})
		current = end
	}

	return chunks, nil
}

// PlanFile plans chunks for the file at path and returns them together with
// the file size.
func PlanFile(ctx context.Context, path string, n int, breakLine LineBreaker) ([]Chunk, int64, error) {
	_, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(
		attribute.String("path", path),
		attribute.Int("requested", n),
	))
	defer span.End()

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, wrapIO("open", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, wrapIO("stat", path, err)
	}
	size := info.Size()

	chunks, err := Plan(f, size, n, breakLine)
	if err != nil {
		if errors.Is(err, ErrInvalidChunkCount) {
			return nil, 0, err
		}
		return nil, 0, wrapIO("scan", path, err)
	}

	slog.Debug("planner: chunks planned", "path", path, "size", size, "requested", n, "planned", len(chunks))
	for _, c := range chunks {
		slog.Debug("planner: chunk", "index", c.Index, "start", c.Start, "end", c.End)
	}
	span.SetAttributes(attribute.Int("planned", len(chunks)), attribute.Int64("size", size))

	return chunks, size, nil
}
