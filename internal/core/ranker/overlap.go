package ranker

import "strings"

// MinSharedWords is the keyword-overlap threshold for a correction to count
// as relevant to a query. The simple word-intersection match is a documented
// placeholder for future semantic matching; keep the literal behavior.
const MinSharedWords = 2

// minWordLen filters out short filler words before comparing.
const minWordLen = 3

// Overlap returns the number of distinct words (length >= 3, lowercased)
// shared between the two texts.
func Overlap(a, b string) int {
	wordsA := wordSet(a)
	count := 0
	for word := range wordSet(b) {
		if wordsA[word] {
			count++
		}
	}
	return count
}

// Relevant reports whether a task pattern shares at least MinSharedWords
// words with the query.
func Relevant(query, pattern string) bool {
	return Overlap(query, pattern) >= MinSharedWords
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()[]{}")
		if len(word) >= minWordLen {
			set[word] = true
		}
	}
	return set
}
