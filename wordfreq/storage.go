package wordfreq

import "context"

// Storage holds the global word counts behind an Aggregator. Add must apply
// all of counts or none of them.
//
// Implementations live in the storage subpackages.
type Storage interface {
	Add(ctx context.Context, counts map[string]uint64) error
	Counts(ctx context.Context) (map[string]uint64, error)
	// Reset drops all counts, every run starts from an empty table.
	Reset(ctx context.Context) error
}
