package app

import (
	"context"
	"fmt"

	"github.com/example/sage/internal/core/ranker"
	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/ports/secondary"
)

// ContextServiceImpl implements the ContextService interface. It composes a
// ledger snapshot with the pure ranker; given the same snapshot the output
// is fully deterministic.
type ContextServiceImpl struct {
	policyRepo  secondary.PolicyRepository
	safety      primary.SafetyService
	windowHours int
}

// NewContextService creates a new ContextService with injected dependencies.
// windowHours bounds the recency of safety corrections pulled into context.
func NewContextService(policyRepo secondary.PolicyRepository, safety primary.SafetyService, windowHours int) *ContextServiceImpl {
	if windowHours <= 0 {
		windowHours = DefaultWindowHours
	}
	return &ContextServiceImpl{
		policyRepo:  policyRepo,
		safety:      safety,
		windowHours: windowHours,
	}
}

// BuildContext assembles the three-tier prompt for a query. Baseline policy
// comes first, personalization next, safety corrections last so they land
// nearest the instruction-following point.
func (s *ContextServiceImpl) BuildContext(ctx context.Context, query, userID string) (*primary.PromptContext, error) {
	policy, err := s.policyRepo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	var prefs []*primary.Preference
	if userID != "" {
		prefs, err = s.safety.ListPreferences(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load preferences: %w", err)
		}
	}

	corrections, err := s.safety.RecentCorrections(ctx, query, userID, s.windowHours)
	if err != nil {
		return nil, fmt.Errorf("failed to load corrections: %w", err)
	}

	return ranker.Build(query, policy.Instructions, prefs, corrections), nil
}

// Ensure ContextServiceImpl implements the interface.
var _ primary.ContextService = (*ContextServiceImpl)(nil)
