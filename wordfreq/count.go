package wordfreq

import "strings"

// Count builds a local frequency map from lines. Tokens are split on
// whitespace runs and normalized; tokens that normalize to "" are skipped.
func Count(lines []string) FrequencyMap {
	counts := make(FrequencyMap)

	for _, line := range lines {
		for _, token := range strings.Fields(line) {
			word := Normalize(token)
			if word == "" {
				continue
			}

			counts[word]++
		}
	}

	return counts
}
