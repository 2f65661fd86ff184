package primary

import "context"

// ContextService defines the primary port for building layered execution
// context. The execution agent calls this before each run; the CLI exposes
// it for inspection.
type ContextService interface {
	// BuildContext assembles the three-tier prompt for a query: baseline
	// policy first, personalization next, safety corrections last.
	BuildContext(ctx context.Context, query, userID string) (*PromptContext, error)
}

// PromptContext is the assembled layered prompt.
type PromptContext struct {
	Sections []PromptSection
	Rendered string // sections joined in order, ready for the agent
}

// PromptSection is one layer of the prompt. Later sections carry higher
// salience for downstream oracles.
type PromptSection struct {
	Layer string // "baseline", "personalization", "safety"
	Text  string
}
