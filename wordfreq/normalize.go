package wordfreq

import "strings"

// Normalize maps a raw token to the form it is counted under: ASCII
// punctuation is removed and the rest is lowercased. An empty result means
// the token is not a word.
func Normalize(token string) string {
	var b strings.Builder
	b.Grow(len(token))

	for i := 0; i < len(token); i++ {
		if isASCIIPunct(token[i]) {
			continue
		}
		b.WriteByte(token[i])
	}

	return strings.ToLower(b.String())
}

// isASCIIPunct reports whether c is one of !"#$%&'()*+,-./:;<=>?@[\]^_`{|}~.
// Bytes of multi-byte UTF-8 sequences are all >= 0x80 and never match.
func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') ||
		(c >= ':' && c <= '@') ||
		(c >= '[' && c <= '`') ||
		(c >= '{' && c <= '~')
}
