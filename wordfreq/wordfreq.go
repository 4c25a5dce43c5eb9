package wordfreq

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// State is the phase a Counter run is in.
type State int32

const (
	StateIdle State = iota
	StatePlanning
	StateDispatching
	StateRunning
	StateJoining
	StateWriting
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StatePlanning:    "planning",
	StateDispatching: "dispatching",
	StateRunning:     "running",
	StateJoining:     "joining",
	StateWriting:     "writing",
	StateDone:        "done",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int32(s))
	}
	return stateNames[s]
}

// Counter counts word frequencies of a file with one worker per planned
// chunk. A Counter runs one file at a time; Run must not be called
// concurrently on the same Counter.
type Counter struct {
	chunks    int
	storage   Storage
	breakLine LineBreaker

	state atomic.Int32
	stats Stats
}

// New returns a Counter that asks the planner for chunks chunks and keeps
// the global counts in storage.
func New(chunks int, storage Storage) *Counter {
	return &Counter{
		chunks:    chunks,
		storage:   storage,
		breakLine: NextLineBoundary,
	}
}

// Report describes a finished run.
type Report struct {
	RunID   string
	Input   string
	Output  string
	Size    int64
	Chunks  []Chunk
	Words   int
	Tokens  uint64
	Digest  uint64
	Stats   StatsSnapshot
	Elapsed time.Duration
}

// State returns the phase of the current or last run.
func (c *Counter) State() State {
	return State(c.state.Load())
}

// Run counts the words of input and writes the sorted table to output.
//
// Any failure fails the whole run and nothing is written to output. Workers
// are not cancelled when a sibling fails; Run waits for all of them and
// returns the first error. ctx carries trace spans only, a run can not be
// cancelled once started.
func (c *Counter) Run(ctx context.Context, input, output string) (*Report, error) {
	runID := uuid.NewString()

	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(
		attribute.String("run", runID),
		attribute.String("input", input),
		attribute.String("output", output),
	))
	defer span.End()

	log := slog.With("run", runID)
	start := time.Now()
	c.stats.reset()

	report, err := c.run(ctx, log, input, output)
	if err != nil {
		c.setState(log, StateFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("counter: run failed", "input", input, "err", err)
		return nil, err
	}

	report.RunID = runID
	report.Stats = c.stats.Snapshot()
	report.Elapsed = time.Since(start)
	c.setState(log, StateDone)

	log.Info("counter: run finished",
		"words", report.Words,
		"tokens", report.Tokens,
		"chunks", len(report.Chunks),
		"stats", report.Stats,
		"elapsed", report.Elapsed,
	)

	return report, nil
}

func (c *Counter) run(ctx context.Context, log *slog.Logger, input, output string) (*Report, error) {
	c.setState(log, StatePlanning)

	if err := c.storage.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset storage: %w", err)
	}

	chunks, size, err := PlanFile(ctx, input, c.chunks, c.breakLine)
	if err != nil {
		return nil, err
	}
	c.stats.Chunks.Store(uint64(len(chunks)))
	log.Info("counter: chunks planned", "size", size, "requested", c.chunks, "planned", len(chunks))

	agg := NewAggregator(c.storage)

	c.setState(log, StateDispatching)
	var g errgroup.Group
	for _, chunk := range chunks {
		g.Go(func() error {
			return c.work(ctx, log, input, chunk, agg)
		})
	}
	c.setState(log, StateRunning)

	c.setState(log, StateJoining)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.setState(log, StateWriting)
	counts, err := agg.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	digest, err := WriteFile(ctx, output, counts)
	if err != nil {
		return nil, err
	}
	log.Info("counter: results written", "output", output, "words", len(counts), "digest", digest)

	return &Report{
		Input:  input,
		Output: output,
		Size:   size,
		Chunks: chunks,
		Words:  len(counts),
		Tokens: counts.Total(),
		Digest: digest,
	}, nil
}

// work reads, counts and merges a single chunk.
func (c *Counter) work(ctx context.Context, log *slog.Logger, input string, chunk Chunk, agg *Aggregator) error {
	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(attribute.Int("chunk", chunk.Index)))
	defer span.End()

	log.Debug("worker: started", "chunk", chunk.Index, "range", chunk.ByteRange)

	lines, err := ReadChunk(ctx, input, chunk.ByteRange)
	if err != nil {
		return fmt.Errorf("chunk %d: %w", chunk.Index, err)
	}
	c.stats.Lines.Add(uint64(len(lines)))

	local := Count(lines)
	tokens := local.Total()
	c.stats.Tokens.Add(tokens)

	log.Debug("worker: counted", "chunk", chunk.Index, "lines", len(lines), "tokens", tokens, "words", len(local))

	if err := agg.Merge(ctx, local); err != nil {
		return fmt.Errorf("chunk %d: %w", chunk.Index, err)
	}
	c.stats.Merges.Add(1)

	log.Debug("worker: merged", "chunk", chunk.Index)

	return nil
}

func (c *Counter) setState(log *slog.Logger, s State) {
	prev := State(c.state.Swap(int32(s)))
	log.Debug("counter: state", "from", prev, "to", s)
}
