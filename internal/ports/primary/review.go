package primary

import "context"

// Review status constants. Approved and rejected are terminal.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Review kind constants.
const (
	ReviewKindDesignCheck     = "design_check"
	ReviewKindStrategicSample = "strategic_sample"
	ReviewKindPolicyReview    = "policy_review"
)

// ReviewService defines the primary port for the human review queue.
// Approve and Reject are the only mutators of review status.
type ReviewService interface {
	// ListReviews lists review items matching the filters, newest first.
	ListReviews(ctx context.Context, filters ReviewFilters) ([]*Review, error)

	// GetReview retrieves a review item by ID.
	GetReview(ctx context.Context, reviewID string) (*Review, error)

	// Approve transitions a pending review to approved. Re-approving an
	// approved review is a no-op. Any other transition fails.
	Approve(ctx context.Context, reviewID, notes string) error

	// Reject transitions a pending review to rejected. Notes are required.
	Reject(ctx context.Context, reviewID, notes string) error
}

// Review represents a review item awaiting or past a human decision.
type Review struct {
	ID            string
	Kind          string
	ContentJSON   string
	Status        string
	ReviewerNotes string
	CreatedAt     string
	DecidedAt     string
}

// ReviewFilters contains filter options for listing review items.
type ReviewFilters struct {
	Kind   string
	Status string
	Limit  int
}

// PolicyReviewContent is the payload of a policy_review item: everything a
// human needs to judge a blocked mutation.
type PolicyReviewContent struct {
	CandidateText string      `json:"candidate_text"`
	CurrentText   string      `json:"current_text"`
	Critique      string      `json:"critique"`
	Query         string      `json:"query,omitempty"`
	Response      string      `json:"response,omitempty"`
	Violations    []Violation `json:"violations"`
}

// StrategicSampleContent is the payload of a strategic_sample item: a random
// slice of an otherwise-successful interaction for coarse human review.
type StrategicSampleContent struct {
	Query    string  `json:"query"`
	Response string  `json:"response,omitempty"`
	Score    float64 `json:"score"`
	Critique string  `json:"critique,omitempty"`
}

// Violation describes one matched entry of the curator's blocklist.
type Violation struct {
	Type    string `json:"type"`    // harmful_behavior, data_privacy, security_risk, quality_degradation
	Pattern string `json:"pattern"` // the matched substring
}
