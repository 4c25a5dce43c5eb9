package inmemory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	storage := New()

	counts, err := storage.Counts(ctx)
	require.NoError(t, err)
	require.Empty(t, counts)

	require.NoError(t, storage.Add(ctx, map[string]uint64{"the": 2, "fox": 1}))
	require.NoError(t, storage.Add(ctx, map[string]uint64{"the": 1, "dog": 4}))

	counts, err = storage.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]uint64{"the": 3, "fox": 1, "dog": 4}, counts)

	// returned map is a copy
	counts["the"] = 100
	again, err := storage.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), again["the"])

	require.NoError(t, storage.Reset(ctx))
	counts, err = storage.Counts(ctx)
	require.NoError(t, err)
	require.Empty(t, counts)
}

func TestInMemoryConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	storage := New()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = storage.Add(ctx, map[string]uint64{"word": 1})
			}
		}()
	}
	wg.Wait()

	counts, err := storage.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1600), counts["word"])
}
