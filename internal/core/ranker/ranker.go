// Package ranker contains the pure three-tier context builder. Given the
// same inputs it always produces the same output; it performs no I/O.
package ranker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/sage/internal/ports/primary"
)

// CriticalOccurrenceThreshold: corrections seen more than this many times are
// tagged CRITICAL instead of WARNING.
const CriticalOccurrenceThreshold = 2

// Build assembles the layered prompt. Ordering is deliberate: downstream
// oracles weight later context more heavily, so baseline policy comes first
// (foundation), personalization next, and safety corrections last (highest
// salience).
func Build(query, baseline string, prefs []*primary.Preference, corrections []*primary.Correction) *primary.PromptContext {
	sections := []primary.PromptSection{
		{Layer: "baseline", Text: baseline},
	}

	if len(prefs) > 0 {
		sections = append(sections, primary.PromptSection{
			Layer: "personalization",
			Text:  renderPreferences(prefs),
		})
	}

	if len(corrections) > 0 {
		sections = append(sections, primary.PromptSection{
			Layer: "safety",
			Text:  renderCorrections(corrections),
		})
	}

	texts := make([]string, len(sections))
	for i, s := range sections {
		texts[i] = s.Text
	}

	return &primary.PromptContext{
		Sections: sections,
		Rendered: strings.Join(texts, "\n\n"),
	}
}

func renderPreferences(prefs []*primary.Preference) string {
	sorted := make([]*primary.Preference, len(prefs))
	copy(sorted, prefs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	var b strings.Builder
	b.WriteString("User preferences:")
	for _, p := range sorted {
		b.WriteString(fmt.Sprintf("\n- %s: %s", p.Key, p.Value))
		if p.Description != "" {
			b.WriteString(fmt.Sprintf(" (%s)", p.Description))
		}
	}
	return b.String()
}

func renderCorrections(corrections []*primary.Correction) string {
	var b strings.Builder
	b.WriteString("Safety corrections:")
	for _, c := range corrections {
		tag := "WARNING"
		if c.OccurrenceCount > CriticalOccurrenceThreshold {
			tag = "CRITICAL"
		}
		b.WriteString(fmt.Sprintf("\n[%s] %s", tag, c.Correction))
	}
	return b.String()
}
