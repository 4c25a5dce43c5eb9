package inmemory

import (
	"context"
	"maps"
	"sync"

	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
)

// Storage keeps word counts in a map.
type Storage struct {
	mu   sync.RWMutex
	data map[string]uint64
}

func New() *Storage {
	return &Storage{
		data: make(map[string]uint64, 1000),
	}
}

func (st *Storage) Add(ctx context.Context, counts map[string]uint64) error {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.Lock()
	defer st.mu.Unlock()

	for word, n := range counts {
		st.data[word] += n
	}

	return nil
}

func (st *Storage) Counts(ctx context.Context) (map[string]uint64, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.RLock()
	defer st.mu.RUnlock()

	return maps.Clone(st.data), nil
}

func (st *Storage) Reset(ctx context.Context) error {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.data = make(map[string]uint64, 1000)

	return nil
}
