package secondary

import "context"

// ScoreResult is the outcome of a scoring oracle call.
type ScoreResult struct {
	Score    float64 // quality score in [0, 1]
	Critique string  // natural-language explanation of the score
}

// ScoringOracle defines the secondary port for the external quality oracle.
// Calls may fail or time out; the learning loop handles failures with a
// fail-safe default score, never by aborting the batch.
type ScoringOracle interface {
	// Score evaluates a (query, response) pair.
	Score(ctx context.Context, query, response string) (*ScoreResult, error)
}

// RewritingOracle defines the secondary port for the external
// instruction-rewriting oracle. On failure the learning loop falls back to
// the unchanged current policy.
type RewritingOracle interface {
	// Rewrite proposes new policy text from the current policy and a critique.
	Rewrite(ctx context.Context, currentPolicy, critique, query, response string) (string, error)
}
