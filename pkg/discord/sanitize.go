package discord

import "strings"

// DefaultMaxContentLength bounds outbound message content. Discord caps
// messages at 2000 characters; staying under it leaves room for the
// neutralizing runes Sanitize inserts.
const DefaultMaxContentLength = 1800

// zeroWidthSpace breaks the mention syntax without changing how the text
// renders.
const zeroWidthSpace = "\u200b"

// Sanitize neutralizes every "@" with a zero-width space so generated text
// cannot trigger user, role or everyone mentions, then truncates the result
// to limit runes. A non-positive limit falls back to
// DefaultMaxContentLength.
func Sanitize(s string, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxContentLength
	}

	s = strings.ReplaceAll(s, "@", "@"+zeroWidthSpace)
	runes := []rune(s)
	if len(runes) > limit {
		runes = runes[:limit]
		// The cut can fall between an "@" and its neutralizing rune; a bare
		// trailing "@" is dropped rather than left unneutralized.
		if runes[len(runes)-1] == '@' {
			runes = runes[:len(runes)-1]
		}
		return string(runes)
	}

	return s
}
