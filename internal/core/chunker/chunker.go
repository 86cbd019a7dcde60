// Package chunker splits long text into transport-sized pieces.
package chunker

import (
	"strings"
	"unicode"
)

// Split breaks text into pieces of at most maxLength runes. Break points are
// preferred in the order paragraph break, line break, space; a boundary is
// only used if it lies at or past half of maxLength, otherwise the text is cut
// at exactly maxLength. Each piece is taken verbatim and the remainder is
// trimmed before the next iteration.
func Split(text string, maxLength int) []string {
	if maxLength < 1 {
		maxLength = 1
	}
	var chunks []string
	remaining := []rune(text)
	for len(remaining) > 0 {
		if len(remaining) <= maxLength {
			chunks = append(chunks, string(remaining))
			break
		}
		bp := breakPoint(remaining, maxLength)
		chunks = append(chunks, string(remaining[:bp]))
		remaining = []rune(strings.TrimFunc(string(remaining[bp:]), unicode.IsSpace))
	}
	return chunks
}

func breakPoint(r []rune, maxLength int) int {
	for _, sep := range [][]rune{{'\n', '\n'}, {'\n'}, {' '}} {
		if i := lastIndexAtOrBefore(r, sep, maxLength); i > 0 && 2*i >= maxLength {
			return i
		}
	}
	return maxLength
}

// lastIndexAtOrBefore returns the last index i <= limit at which sep starts,
// or -1.
func lastIndexAtOrBefore(r, sep []rune, limit int) int {
	start := limit
	if start > len(r)-len(sep) {
		start = len(r) - len(sep)
	}
	for i := start; i >= 0; i-- {
		match := true
		for j := range sep {
			if r[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
