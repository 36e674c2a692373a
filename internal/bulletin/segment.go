package bulletin

import "regexp"

// Each accident entry starts at a "Date -" label and runs to the
// closing "averted." phrase. Matching is case-insensitive, spans
// newlines, and is non-greedy, so consecutive entries cannot overlap.
var blockPattern = regexp.MustCompile(`(?is)Date\s*-\s.*?averted\.`)

// Segment splits the full bulletin text into one substring per
// accident entry, in document order. A document with no matching
// spans yields an empty result, which is legitimate, not an error.
func Segment(text string) []string {
	return blockPattern.FindAllString(text, -1)
}
