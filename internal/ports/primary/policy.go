package primary

import "context"

// DefaultInstructions is the policy text a fresh install starts with.
const DefaultInstructions = "You are a helpful assistant. Answer accurately and concisely."

// PolicyService defines the primary port for reading the versioned policy.
// Mutations go exclusively through the learning loop.
type PolicyService interface {
	// GetPolicy returns the current policy.
	GetPolicy(ctx context.Context) (*Policy, error)

	// GetHistory returns all accepted mutations in version order.
	GetHistory(ctx context.Context) ([]*Mutation, error)
}

// Policy represents the current behavioral policy ("wisdom").
type Policy struct {
	Version      int
	Instructions string
	UpdatedAt    string
}

// Mutation represents one accepted policy mutation.
type Mutation struct {
	Version   int
	Critique  string
	Query     string
	Response  string
	CreatedAt string
}
