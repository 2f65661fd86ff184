package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/example/sage/internal/core/curator"
	"github.com/example/sage/internal/core/extract"
	"github.com/example/sage/internal/core/signal"
	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/ports/secondary"
)

// DefaultScoreThreshold: scores below this trigger learning.
const DefaultScoreThreshold = 0.8

// FailSafeScore is assumed when the scoring oracle fails. A single oracle
// hiccup must not block the whole batch, and 0.5 sits below the threshold
// so the interaction still gets a learning pass.
const FailSafeScore = 0.5

// LearningConfig carries the tunables and capability flags for the loop.
// Nil collaborators switch a capability off: a nil Sampler never samples,
// and CuratorEnabled=false lets every mutation through ungated.
type LearningConfig struct {
	ScoreThreshold float64
	CuratorEnabled bool
	Sampler        *curator.Sampler
}

// LearningServiceImpl implements the LearningService interface. It is the
// single writer of the policy store and the checkpoint, and it processes
// events strictly in log order with no internal parallelism.
type LearningServiceImpl struct {
	eventRepo      secondary.EventRepository
	policyRepo     secondary.PolicyRepository
	safetyRepo     secondary.SafetyRepository
	reviewRepo     secondary.ReviewRepository
	checkpointRepo secondary.CheckpointRepository
	scorer         secondary.ScoringOracle
	rewriter       secondary.RewritingOracle
	threshold      float64
	curatorOn      bool
	sampler        *curator.Sampler
}

// NewLearningService creates a new LearningService with injected
// dependencies.
func NewLearningService(
	eventRepo secondary.EventRepository,
	policyRepo secondary.PolicyRepository,
	safetyRepo secondary.SafetyRepository,
	reviewRepo secondary.ReviewRepository,
	checkpointRepo secondary.CheckpointRepository,
	scorer secondary.ScoringOracle,
	rewriter secondary.RewritingOracle,
	cfg LearningConfig,
) *LearningServiceImpl {
	threshold := cfg.ScoreThreshold
	if threshold <= 0 {
		threshold = DefaultScoreThreshold
	}
	return &LearningServiceImpl{
		eventRepo:      eventRepo,
		policyRepo:     policyRepo,
		safetyRepo:     safetyRepo,
		reviewRepo:     reviewRepo,
		checkpointRepo: checkpointRepo,
		scorer:         scorer,
		rewriter:       rewriter,
		threshold:      threshold,
		curatorOn:      cfg.CuratorEnabled,
		sampler:        cfg.Sampler,
	}
}

// assessment is the per-event scoring outcome feeding the learning decision.
type assessment struct {
	score         float64
	critique      string
	needsLearning bool
	scored        bool // true when the event produced a usable score
	oracleFailed  bool
}

// RunBatch processes all events since the checkpoint, in log order, and
// advances the checkpoint exactly once at the end. A crash mid-batch leaves
// the checkpoint untouched, so the whole slice is re-processed on restart
// (at-least-once; corrections upsert and review items tolerate replays).
func (s *LearningServiceImpl) RunBatch(ctx context.Context) (*primary.BatchSummary, error) {
	checkpoint, err := s.checkpointRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	events, err := s.eventRepo.ListSince(ctx, checkpoint.LastProcessedTimestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to read unprocessed events: %w", err)
	}

	policyBefore, err := s.policyRepo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	summary := &primary.BatchSummary{
		SignalCounts:  make(map[string]int),
		VersionBefore: policyBefore.Version,
		VersionAfter:  policyBefore.Version,
	}

	if len(events) == 0 {
		return summary, nil
	}

	for _, event := range events {
		// Cancellation is honored between events, never mid-event.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := s.processEvent(ctx, event, summary); err != nil {
			// Persistence failure: abort before the checkpoint advances so
			// the batch is retried in full.
			return nil, err
		}
		summary.EventsProcessed++
	}

	last := events[len(events)-1].Timestamp
	if err := s.checkpointRepo.Advance(ctx, last, summary.LessonsLearned); err != nil {
		return nil, fmt.Errorf("failed to advance checkpoint: %w", err)
	}

	policyAfter, err := s.policyRepo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload policy: %w", err)
	}
	summary.VersionAfter = policyAfter.Version

	slog.Info("learning batch complete",
		"events", summary.EventsProcessed,
		"lessons", summary.LessonsLearned,
		"policy_reviews", summary.PolicyReviewsCreated,
		"samples", summary.SamplesCreated,
		"version", summary.VersionAfter,
	)

	return summary, nil
}

func (s *LearningServiceImpl) processEvent(ctx context.Context, event *secondary.EventRecord, summary *primary.BatchSummary) error {
	a := s.assess(ctx, event)
	if a.oracleFailed {
		summary.OracleFailures++
	}
	if signal.IsSignal(event.EventType) {
		summary.SignalCounts[event.EventType]++
	}
	if !a.scored {
		return nil
	}

	if a.needsLearning {
		if err := s.learn(ctx, event, a, summary); err != nil {
			return err
		}
	}

	// Strategic sampling is independent of the learning decision: a random
	// slice of scored interactions goes to a human for a coarse check.
	if s.sampler.ShouldSample() {
		content, err := json.Marshal(primary.StrategicSampleContent{
			Query:    event.Query,
			Response: event.AgentResponse,
			Score:    a.score,
			Critique: a.critique,
		})
		if err != nil {
			return fmt.Errorf("failed to encode sample content: %w", err)
		}
		if _, err := newReviewItem(ctx, s.reviewRepo, primary.ReviewKindStrategicSample, string(content)); err != nil {
			return err
		}
		summary.SamplesCreated++
	}

	return nil
}

// assess produces the (score, critique, needsLearning) triple for an event.
// Signals map deterministically with no oracle call; completed tasks go to
// the scoring oracle with a fail-safe default on failure.
func (s *LearningServiceImpl) assess(ctx context.Context, event *secondary.EventRecord) assessment {
	if sig, ok := signal.Assess(event.EventType, event.Query); ok {
		return assessment{
			score:         sig.Score,
			critique:      sig.Critique,
			needsLearning: sig.NeedsLearning,
			scored:        true,
		}
	}

	if event.EventType != primary.EventTaskComplete || event.Query == "" || event.AgentResponse == "" {
		return assessment{}
	}

	result, err := s.scorer.Score(ctx, event.Query, event.AgentResponse)
	if err != nil {
		slog.Warn("scoring oracle failed, using fail-safe score",
			"seq", event.Seq, "error", err)
		return assessment{
			score:         FailSafeScore,
			critique:      fmt.Sprintf("Scoring oracle unavailable (%v); assumed middling quality.", err),
			needsLearning: FailSafeScore < s.threshold,
			scored:        true,
			oracleFailed:  true,
		}
	}

	return assessment{
		score:         result.Score,
		critique:      result.Critique,
		needsLearning: result.Score < s.threshold,
		scored:        true,
	}
}

// learn runs the mutation pipeline for one event: rewrite, gate, apply,
// record a safety correction.
func (s *LearningServiceImpl) learn(ctx context.Context, event *secondary.EventRecord, a assessment, summary *primary.BatchSummary) error {
	current, err := s.policyRepo.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}

	candidate, err := s.rewriter.Rewrite(ctx, current.Instructions, a.critique, event.Query, event.AgentResponse)
	if err != nil {
		// Never regress to an empty or garbage policy: fall back to the
		// unchanged current text.
		slog.Warn("rewriting oracle failed, keeping current policy",
			"seq", event.Seq, "error", err)
		candidate = current.Instructions
		summary.OracleFailures++
	}

	if s.curatorOn && curator.RequiresReview(candidate, a.critique) {
		violations := curator.DetectViolations(candidate)
		violations = append(violations, curator.DetectViolations(a.critique)...)

		content, err := json.Marshal(primary.PolicyReviewContent{
			CandidateText: candidate,
			CurrentText:   current.Instructions,
			Critique:      a.critique,
			Query:         event.Query,
			Response:      event.AgentResponse,
			Violations:    violations,
		})
		if err != nil {
			return fmt.Errorf("failed to encode review content: %w", err)
		}

		id, err := newReviewItem(ctx, s.reviewRepo, primary.ReviewKindPolicyReview, string(content))
		if err != nil {
			return err
		}
		summary.PolicyReviewsCreated++
		slog.Info("policy mutation blocked for review", "review", id, "violations", len(violations))
		return nil
	}

	if _, err := s.policyRepo.ApplyMutation(ctx, candidate, a.critique, event.Query, event.AgentResponse); err != nil {
		return fmt.Errorf("failed to apply policy mutation: %w", err)
	}
	summary.LessonsLearned++

	if pattern, correction, ok := extract.CorrectionFromCritique(event.Query, a.critique); ok {
		if err := s.safetyRepo.RecordCorrection(ctx, pattern, a.critique, correction, event.UserID); err != nil {
			return fmt.Errorf("failed to record safety correction: %w", err)
		}
	}

	return nil
}

// Status returns the current checkpoint and queue depth.
func (s *LearningServiceImpl) Status(ctx context.Context) (*primary.LearningStatus, error) {
	checkpoint, err := s.checkpointRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	unprocessed, err := s.eventRepo.ListSince(ctx, checkpoint.LastProcessedTimestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to count unprocessed events: %w", err)
	}

	pending, err := s.reviewRepo.CountByStatus(ctx, primary.ReviewStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending reviews: %w", err)
	}

	policy, err := s.policyRepo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &primary.LearningStatus{
		LastProcessedTimestamp: checkpoint.LastProcessedTimestamp,
		LessonsLearned:         checkpoint.LessonsLearned,
		UnprocessedEvents:      len(unprocessed),
		PendingReviews:         pending,
		PolicyVersion:          policy.Version,
	}, nil
}

// Ensure LearningServiceImpl implements the interface.
var _ primary.LearningService = (*LearningServiceImpl)(nil)
