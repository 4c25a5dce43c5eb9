package bbolt

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func newTestStorage(t *testing.T, partitions int) *BboltStorage {
	t.Helper()

	storage, err := New(filepath.Join(t.TempDir(), "test.db"), partitions)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	return storage
}

func TestBolt(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t, 4)

	counts, err := storage.Counts(ctx)
	require.NoError(t, err)
	require.Empty(t, counts)

	require.NoError(t, storage.Add(ctx, map[string]uint64{"the": 2, "fox": 1}))
	require.NoError(t, storage.Add(ctx, map[string]uint64{"the": 1, "dog": 4}))

	counts, err = storage.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]uint64{"the": 3, "fox": 1, "dog": 4}, counts)

	require.NoError(t, storage.Reset(ctx))

	counts, err = storage.Counts(ctx)
	require.NoError(t, err)
	require.Empty(t, counts)

	require.NoError(t, storage.Add(ctx, map[string]uint64{"again": 1}))
	counts, err = storage.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]uint64{"again": 1}, counts)
}

func TestBoltPartitions(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t, 8)

	words := make(map[string]uint64, 500)
	for i := range 500 {
		words[fmt.Sprintf("word%d", i)] = uint64(i + 1)
	}
	require.NoError(t, storage.Add(ctx, words))

	buckets := 0
	err := storage.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, buck *bbolt.Bucket) error {
			buckets++
			return buck.ForEach(func(k, _ []byte) error {
				require.Equal(t, string(bucketName(storage.partition(string(k)))), string(name))
				return nil
			})
		})
	})
	require.NoError(t, err)
	require.Equal(t, 8, buckets)

	counts, err := storage.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, words, counts)
}

func TestBoltReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	storage, err := New(path, 0)
	require.NoError(t, err)
	require.NoError(t, storage.Add(ctx, map[string]uint64{"persisted": 7}))
	require.NoError(t, storage.Close())

	storage, err = New(path, 0)
	require.NoError(t, err)

	counts, err := storage.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]uint64{"persisted": 7}, counts)

	require.NoError(t, storage.Destroy())
	require.NoFileExists(t, path)
}
