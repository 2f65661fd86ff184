package app

import (
	"context"
	"fmt"

	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/ports/secondary"
)

// PolicyServiceImpl implements the PolicyService interface. It is read-only:
// mutations go exclusively through the learning loop, which owns the
// read-modify-write cycle internally.
type PolicyServiceImpl struct {
	policyRepo secondary.PolicyRepository
}

// NewPolicyService creates a new PolicyService with injected dependencies.
func NewPolicyService(policyRepo secondary.PolicyRepository) *PolicyServiceImpl {
	return &PolicyServiceImpl{policyRepo: policyRepo}
}

// GetPolicy returns the current policy.
func (s *PolicyServiceImpl) GetPolicy(ctx context.Context) (*primary.Policy, error) {
	record, err := s.policyRepo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	return &primary.Policy{
		Version:      record.Version,
		Instructions: record.Instructions,
		UpdatedAt:    record.UpdatedAt,
	}, nil
}

// GetHistory returns all accepted mutations in version order.
func (s *PolicyServiceImpl) GetHistory(ctx context.Context) ([]*primary.Mutation, error) {
	entries, err := s.policyRepo.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get policy history: %w", err)
	}

	mutations := make([]*primary.Mutation, len(entries))
	for i, e := range entries {
		mutations[i] = &primary.Mutation{
			Version:   e.Version,
			Critique:  e.Critique,
			Query:     e.Query,
			Response:  e.Response,
			CreatedAt: e.CreatedAt,
		}
	}
	return mutations, nil
}

// Ensure PolicyServiceImpl implements the interface.
var _ primary.PolicyService = (*PolicyServiceImpl)(nil)
