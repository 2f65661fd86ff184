package primary

import "context"

// Signal priority constants, attached to deterministic signal assessments.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityPositive = "positive"
)

// LearningService defines the primary port for the learning loop.
type LearningService interface {
	// RunBatch processes all events since the checkpoint and advances it.
	// Safe to invoke repeatedly; each invocation resumes from the persisted
	// checkpoint.
	RunBatch(ctx context.Context) (*BatchSummary, error)

	// Status returns the current checkpoint and queue depth.
	Status(ctx context.Context) (*LearningStatus, error)
}

// BatchSummary reports what one learning batch did. No partial states: a
// summary is only produced for a fully processed slice.
type BatchSummary struct {
	EventsProcessed      int
	LessonsLearned       int
	SignalCounts         map[string]int // signal_type -> count
	PolicyReviewsCreated int
	SamplesCreated       int
	OracleFailures       int
	VersionBefore        int
	VersionAfter         int
}

// LearningStatus describes where the learning loop stands.
type LearningStatus struct {
	LastProcessedTimestamp string // empty means nothing processed yet
	LessonsLearned         int
	UnprocessedEvents      int
	PendingReviews         int
	PolicyVersion          int
}
