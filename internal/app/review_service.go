package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/sage/internal/core/curator"
	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/ports/secondary"
)

// ReviewServiceImpl implements the ReviewService interface. Approve and
// Reject are the only mutators of review status; both enforce the
// pending -> terminal state machine through pure guards.
type ReviewServiceImpl struct {
	reviewRepo secondary.ReviewRepository
}

// NewReviewService creates a new ReviewService with injected dependencies.
func NewReviewService(reviewRepo secondary.ReviewRepository) *ReviewServiceImpl {
	return &ReviewServiceImpl{reviewRepo: reviewRepo}
}

// ListReviews lists review items matching the filters, newest first.
func (s *ReviewServiceImpl) ListReviews(ctx context.Context, filters primary.ReviewFilters) ([]*primary.Review, error) {
	records, err := s.reviewRepo.List(ctx, secondary.ReviewFilters{
		Kind:   filters.Kind,
		Status: filters.Status,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*primary.Review, len(records))
	for i, r := range records {
		reviews[i] = recordToReview(r)
	}
	return reviews, nil
}

// GetReview retrieves a review item by ID.
func (s *ReviewServiceImpl) GetReview(ctx context.Context, reviewID string) (*primary.Review, error) {
	record, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return recordToReview(record), nil
}

// Approve transitions a pending review to approved. Re-approving an
// approved review is a no-op; any other transition fails without touching
// the stored status.
func (s *ReviewServiceImpl) Approve(ctx context.Context, reviewID, notes string) error {
	record, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	guard := curator.CanApprove(reviewID, record.Status)
	if err := guard.Error(); err != nil {
		return err
	}
	if guard.NoOp {
		return nil
	}

	return s.reviewRepo.UpdateStatus(ctx, reviewID, primary.ReviewStatusApproved, notes)
}

// Reject transitions a pending review to rejected. Reviewer notes are
// required; terminal reviews are left unchanged.
func (s *ReviewServiceImpl) Reject(ctx context.Context, reviewID, notes string) error {
	record, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if err := curator.CanReject(reviewID, record.Status, notes).Error(); err != nil {
		return err
	}

	return s.reviewRepo.UpdateStatus(ctx, reviewID, primary.ReviewStatusRejected, notes)
}

func recordToReview(r *secondary.ReviewRecord) *primary.Review {
	return &primary.Review{
		ID:            r.ID,
		Kind:          r.Kind,
		ContentJSON:   r.ContentJSON,
		Status:        r.Status,
		ReviewerNotes: r.ReviewerNotes,
		CreatedAt:     r.CreatedAt,
		DecidedAt:     r.DecidedAt,
	}
}

// newReviewItem persists a fresh pending review item and returns its ID.
// Shared by the learning loop for policy reviews and strategic samples.
func newReviewItem(ctx context.Context, repo secondary.ReviewRepository, kind, contentJSON string) (string, error) {
	id, err := repo.GetNextID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate review ID: %w", err)
	}

	err = repo.Create(ctx, &secondary.ReviewRecord{
		ID:          id,
		Kind:        kind,
		ContentJSON: contentJSON,
		Status:      primary.ReviewStatusPending,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create review item: %w", err)
	}

	return id, nil
}

// Ensure ReviewServiceImpl implements the interface.
var _ primary.ReviewService = (*ReviewServiceImpl)(nil)
