package curator

import (
	"errors"
	"fmt"

	"github.com/example/sage/internal/ports/primary"
)

// ErrInvalidTransition is returned when a review transition is attempted
// from a terminal state. The review's status is left unchanged.
var ErrInvalidTransition = errors.New("invalid review transition")

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	NoOp    bool // allowed but nothing to do (idempotent re-approve)
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidTransition, r.Reason)
}

// CanApprove evaluates whether a review can be approved.
// Rules:
// - pending reviews may be approved
// - re-approving an approved review is an allowed no-op
// - rejected reviews are terminal
func CanApprove(reviewID, status string) GuardResult {
	switch status {
	case primary.ReviewStatusPending:
		return GuardResult{Allowed: true}
	case primary.ReviewStatusApproved:
		return GuardResult{Allowed: true, NoOp: true}
	default:
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot approve review %s with status %s", reviewID, status),
		}
	}
}

// CanReject evaluates whether a review can be rejected.
// Rules:
// - only pending reviews may be rejected
// - rejection requires non-empty reviewer notes
func CanReject(reviewID, status, notes string) GuardResult {
	if status != primary.ReviewStatusPending {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot reject review %s with status %s", reviewID, status),
		}
	}
	if notes == "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("rejecting review %s requires reviewer notes", reviewID),
		}
	}
	return GuardResult{Allowed: true}
}
