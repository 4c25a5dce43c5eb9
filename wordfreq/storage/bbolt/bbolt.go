package bbolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spaolacci/murmur3"
	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.etcd.io/bbolt"
)

const DefaultPartitions = 16

var errCorruptCount = errors.New("corrupt count value")

// BboltStorage keeps word counts in a bbolt file. Words are spread across
// partition buckets by their murmur3 hash, a count is stored as an 8 byte
// big endian integer.
type BboltStorage struct {
	db         *bbolt.DB
	partitions int
}

// New opens (or creates) the database at path. partitions <= 0 means
// DefaultPartitions.
func New(path string, partitions int) (*BboltStorage, error) {
	if partitions <= 0 {
		partitions = DefaultPartitions
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("create bolt storage: %w", err)
	}

	return &BboltStorage{
		db:         db,
		partitions: partitions,
	}, nil
}

// Add applies all counts in a single transaction.
func (s *BboltStorage) Add(ctx context.Context, counts map[string]uint64) error {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		buckets := make(map[int]*bbolt.Bucket, s.partitions)

		for word, n := range counts {
			p := s.partition(word)

			buck, ok := buckets[p]
			if !ok {
				var err error
				buck, err = tx.CreateBucketIfNotExists(bucketName(p))
				if err != nil {
					return fmt.Errorf("create bucket %d: %w", p, err)
				}
				buckets[p] = buck
			}

			current, err := get(buck, word)
			if err != nil {
				return err
			}

			if err := buck.Put([]byte(word), encode(current+n)); err != nil {
				return fmt.Errorf("put %q: %w", word, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("bolt add: %w", err)
	}

	return nil
}

func (s *BboltStorage) Counts(ctx context.Context) (map[string]uint64, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	counts := make(map[string]uint64)

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(_ []byte, buck *bbolt.Bucket) error {
			return buck.ForEach(func(k, v []byte) error {
				n, err := decode(v)
				if err != nil {
					return fmt.Errorf("key %q: %w", k, err)
				}

				counts[string(k)] = n
				return nil
			})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("bolt counts: %w", err)
	}

	return counts, nil
}

func (s *BboltStorage) Reset(ctx context.Context) error {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		var names [][]byte
		err := tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, append([]byte(nil), name...))
			return nil
		})
		if err != nil {
			return err
		}

		for _, name := range names {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("bolt reset: %w", err)
	}

	return nil
}

// Close must be call to release database connection.
func (s *BboltStorage) Close() error {
	return s.db.Close()
}

// Destroy closes the database and removes the file.
func (s *BboltStorage) Destroy() error {
	path := s.db.Path()
	_ = s.Close()
	return os.Remove(path)
}

func (s *BboltStorage) partition(word string) int {
	return int(murmur3.Sum64([]byte(word)) % uint64(s.partitions))
}

func bucketName(p int) []byte {
	return []byte("p" + strconv.Itoa(p))
}

func get(buck *bbolt.Bucket, word string) (uint64, error) {
	data := buck.Get([]byte(word))
	if data == nil {
		return 0, nil
	}

	n, err := decode(data)
	if err != nil {
		return 0, fmt.Errorf("key %q: %w", word, err)
	}

	return n, nil
}

func encode(n uint64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), n)
}

func decode(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, errCorruptCount
	}

	return binary.BigEndian.Uint64(data), nil
}
