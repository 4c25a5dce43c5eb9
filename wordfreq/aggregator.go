package wordfreq

import (
	"context"
	"fmt"
	"sync"

	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Aggregator merges local frequency maps into the global one kept in
// storage. Merges are serialized by a single mutex held for the whole local
// map, so a merge is observed entirely or not at all.
type Aggregator struct {
	mu      sync.Mutex
	storage Storage
}

func NewAggregator(storage Storage) *Aggregator {
	return &Aggregator{storage: storage}
}

// Merge adds every count of local to the global map. local must not be
// modified afterwards.
func (a *Aggregator) Merge(ctx context.Context, local FrequencyMap) error {
	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(attribute.Int("words", len(local))))
	defer span.End()

	if len(local) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.storage.Add(ctx, local); err != nil {
		return fmt.Errorf("merge %d words: %w", len(local), err)
	}

	return nil
}

// Snapshot returns a copy of the global map. It is meant to be called once
// all merges are done.
func (a *Aggregator) Snapshot(ctx context.Context) (FrequencyMap, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	a.mu.Lock()
	defer a.mu.Unlock()

	counts, err := a.storage.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("read global counts: %w", err)
	}

	return FrequencyMap(counts), nil
}
