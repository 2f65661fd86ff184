// Package signal contains the pure mapping from implicit-feedback signals to
// learning assessments. The mapping is a deterministic lookup, not an oracle
// call.
package signal

import (
	"fmt"

	"github.com/example/sage/internal/ports/primary"
)

// Assessment is the fixed (score, needs-learning, priority) triple for a
// signal type, plus a synthesized critique describing the signal.
type Assessment struct {
	Score         float64
	NeedsLearning bool
	Priority      string
	Critique      string
}

// Assess maps a signal event type to its fixed assessment. The second return
// is false for non-signal event types.
func Assess(eventType, query string) (Assessment, bool) {
	switch eventType {
	case primary.EventSignalUndo:
		return Assessment{
			Score:         0.0,
			NeedsLearning: true,
			Priority:      primary.PriorityCritical,
			Critique:      synthesize("user undid the result", query),
		}, true
	case primary.EventSignalAbandonment:
		return Assessment{
			Score:         0.3,
			NeedsLearning: true,
			Priority:      primary.PriorityHigh,
			Critique:      synthesize("user abandoned the interaction", query),
		}, true
	case primary.EventSignalAcceptance:
		return Assessment{
			Score:         1.0,
			NeedsLearning: false,
			Priority:      primary.PriorityPositive,
			Critique:      synthesize("user accepted the result", query),
		}, true
	default:
		return Assessment{}, false
	}
}

// IsSignal reports whether the event type is an implicit-feedback signal.
func IsSignal(eventType string) bool {
	_, ok := Assess(eventType, "")
	return ok
}

func synthesize(observation, query string) string {
	if query == "" {
		return fmt.Sprintf("Implicit feedback: %s.", observation)
	}
	return fmt.Sprintf("Implicit feedback: %s for query %q.", observation, query)
}
