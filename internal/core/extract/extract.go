// Package extract turns a natural-language critique into a safety correction.
// The extraction is a best-effort substring heuristic with a narrow contract
// (text in, record out) so it can be swapped for a smarter extractor later
// without touching orchestration logic. It is not guaranteed accurate.
package extract

import "strings"

// directiveVerbs mark sentences that read like an instruction to the agent.
var directiveVerbs = []string{
	"should", "must", "always", "never", "use", "avoid", "ensure", "prefer",
}

// CorrectionFromCritique derives (task_pattern, correction) from a critique.
// The query becomes the task pattern; the correction is the critique's first
// sentence containing a directive verb, or the whole critique if none match.
// Returns ok=false when there is nothing usable to record.
func CorrectionFromCritique(query, critique string) (pattern, correction string, ok bool) {
	pattern = strings.TrimSpace(query)
	critique = strings.TrimSpace(critique)
	if pattern == "" || critique == "" {
		return "", "", false
	}

	for _, sentence := range splitSentences(critique) {
		if containsDirective(sentence) {
			return pattern, sentence, true
		}
	}
	return pattern, critique, true
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func containsDirective(sentence string) bool {
	lowered := strings.ToLower(sentence)
	for _, verb := range directiveVerbs {
		for _, word := range strings.FieldsFunc(lowered, func(r rune) bool {
			return !('a' <= r && r <= 'z')
		}) {
			if word == verb {
				return true
			}
		}
	}
	return false
}
