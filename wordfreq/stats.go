package wordfreq

import (
	"fmt"
	"sync/atomic"
)

// Stats counts pipeline progress. Workers update it concurrently.
type Stats struct {
	Chunks, Lines  atomic.Uint64
	Tokens, Merges atomic.Uint64
}

// StatsSnapshot is a plain copy of Stats.
type StatsSnapshot struct {
	Chunks, Lines  uint64
	Tokens, Merges uint64
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Chunks: s.Chunks.Load(),
		Lines:  s.Lines.Load(),
		Tokens: s.Tokens.Load(),
		Merges: s.Merges.Load(),
	}
}

func (s *Stats) reset() {
	s.Chunks.Store(0)
	s.Lines.Store(0)
	s.Tokens.Store(0)
	s.Merges.Store(0)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("Chunks: %d, Lines: %d, Tokens: %d, Merges: %d", s.Chunks, s.Lines, s.Tokens, s.Merges)
}
