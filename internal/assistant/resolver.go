package assistant

import (
	"strings"

	"github.com/ADeane6/plex-movie-rec/internal/recommend"
)

type ordinalEntry struct {
	word     string
	position int
}

// ordinalTable maps lexical references to zero-based positions in the
// last recommendation list. It is evaluated strictly in this order:
// ordinal words, digit strings, hash-prefixed digits, cardinal words.
// The first entry whose word appears as a substring of the input and
// whose position is within range wins, so ambiguous input ("play #10"
// also contains "1") resolves by table order, not sentence position.
var ordinalTable = []ordinalEntry{
	{"first", 0}, {"second", 1}, {"third", 2}, {"fourth", 3}, {"fifth", 4},
	{"sixth", 5}, {"seventh", 6}, {"eighth", 7}, {"ninth", 8}, {"tenth", 9},
	{"1", 0}, {"2", 1}, {"3", 2}, {"4", 3}, {"5", 4},
	{"6", 5}, {"7", 6}, {"8", 7}, {"9", 8}, {"10", 9},
	{"#1", 0}, {"#2", 1}, {"#3", 2}, {"#4", 3}, {"#5", 4},
	{"#6", 5}, {"#7", 6}, {"#8", 7}, {"#9", 8}, {"#10", 9},
	{"one", 0}, {"two", 1}, {"three", 2}, {"four", 3}, {"five", 4},
	{"six", 5}, {"seven", 6}, {"eight", 7}, {"nine", 8}, {"ten", 9},
}

// isPlayCommand reports whether the turn is a candidate play command.
// A lexical heuristic: it does not distinguish "play" used in an
// unrelated sense.
func isPlayCommand(userText string) bool {
	lower := strings.ToLower(userText)
	return strings.Contains(lower, "play") || strings.Contains(lower, "watch")
}

// resolveReference picks which prior recommendation the user means.
// Ordinal/cardinal matches from the table are tried first, then a
// title-substring scan in list order. No match returns false and the
// turn falls through to the recommendation path.
func resolveReference(userText string, recs []recommend.Recommendation) (recommend.Recommendation, bool) {
	lower := strings.ToLower(userText)

	for _, entry := range ordinalTable {
		if strings.Contains(lower, entry.word) && entry.position < len(recs) {
			return recs[entry.position], true
		}
	}

	for _, rec := range recs {
		if strings.Contains(lower, strings.ToLower(rec.Title)) {
			return rec, true
		}
	}

	return recommend.Recommendation{}, false
}
