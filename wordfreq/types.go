package wordfreq

import "fmt"

// ByteRange is a half-open interval [Start, End) of byte offsets into the
// input file.
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) Len() int64 {
	return r.End - r.Start
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Chunk is a planned, line-aligned ByteRange together with its position in
// the plan. A chunk is processed by exactly one worker.
type Chunk struct {
	Index int
	ByteRange
}

// FrequencyMap maps a normalized word to the number of times it was seen.
type FrequencyMap map[string]uint64

// Total returns the number of counted tokens.
func (m FrequencyMap) Total() uint64 {
	var total uint64
	for _, n := range m {
		total += n
	}

	return total
}

// Entries returns the map as a slice sorted with Compare.
func (m FrequencyMap) Entries() []Entry {
	entries := make([]Entry, 0, len(m))
	for word, count := range m {
		entries = append(entries, Entry{Word: word, Count: count})
	}

	SortEntries(entries)

	return entries
}

// Entry is a single row of the final output.
type Entry struct {
	Word  string
	Count uint64
}
