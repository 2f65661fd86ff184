package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/sage/internal/core/ranker"
	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/ports/secondary"
)

// DefaultWindowHours is the default recency window for correction queries.
const DefaultWindowHours = 24

// SafetyServiceImpl implements the SafetyService interface.
type SafetyServiceImpl struct {
	safetyRepo secondary.SafetyRepository
}

// NewSafetyService creates a new SafetyService with injected dependencies.
func NewSafetyService(safetyRepo secondary.SafetyRepository) *SafetyServiceImpl {
	return &SafetyServiceImpl{safetyRepo: safetyRepo}
}

// RecordCorrection upserts a correction keyed on (pattern, user).
func (s *SafetyServiceImpl) RecordCorrection(ctx context.Context, req primary.RecordCorrectionRequest) error {
	if req.TaskPattern == "" || req.Correction == "" {
		return fmt.Errorf("correction requires a task pattern and correction text")
	}
	return s.safetyRepo.RecordCorrection(ctx, req.TaskPattern, req.FailureDescription, req.Correction, req.UserID)
}

// ListCorrections lists all corrections, most recent first.
func (s *SafetyServiceImpl) ListCorrections(ctx context.Context) ([]*primary.Correction, error) {
	records, err := s.safetyRepo.ListCorrections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	return recordsToCorrections(records), nil
}

// RecentCorrections returns corrections relevant to the query within the
// recency window, most relevant first. Relevance is keyword overlap between
// the query and the task pattern (a documented placeholder for semantic
// matching; keep the literal behavior).
func (s *SafetyServiceImpl) RecentCorrections(ctx context.Context, query, userID string, windowHours int) ([]*primary.Correction, error) {
	if windowHours <= 0 {
		windowHours = DefaultWindowHours
	}

	records, err := s.safetyRepo.ListRecentCorrections(ctx, userID, windowHours)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent corrections: %w", err)
	}

	type scored struct {
		record  *secondary.CorrectionRecord
		overlap int
	}
	var relevant []scored
	for _, r := range records {
		overlap := ranker.Overlap(query, r.TaskPattern)
		if overlap >= ranker.MinSharedWords {
			relevant = append(relevant, scored{record: r, overlap: overlap})
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		if relevant[i].overlap != relevant[j].overlap {
			return relevant[i].overlap > relevant[j].overlap
		}
		return relevant[i].record.OccurrenceCount > relevant[j].record.OccurrenceCount
	})

	out := make([]*secondary.CorrectionRecord, len(relevant))
	for i, s := range relevant {
		out[i] = s.record
	}
	return recordsToCorrections(out), nil
}

// PurgeCorrections bulk-removes corrections by ID.
func (s *SafetyServiceImpl) PurgeCorrections(ctx context.Context, ids []int64) (int, error) {
	return s.safetyRepo.PurgeCorrections(ctx, ids)
}

// SetPreference upserts a preference keyed on (user, key).
func (s *SafetyServiceImpl) SetPreference(ctx context.Context, req primary.SetPreferenceRequest) error {
	if req.UserID == "" || req.Key == "" {
		return fmt.Errorf("preference requires a user and a key")
	}
	if req.Priority < 1 || req.Priority > 10 {
		return fmt.Errorf("priority must be between 1 and 10, got %d", req.Priority)
	}

	return s.safetyRepo.UpsertPreference(ctx, &secondary.PreferenceRecord{
		UserID:      req.UserID,
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
		Priority:    req.Priority,
	})
}

// ListPreferences lists a user's preferences, highest priority first.
func (s *SafetyServiceImpl) ListPreferences(ctx context.Context, userID string) ([]*primary.Preference, error) {
	records, err := s.safetyRepo.ListPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	prefs := make([]*primary.Preference, len(records))
	for i, r := range records {
		prefs[i] = &primary.Preference{
			ID:          r.ID,
			UserID:      r.UserID,
			Key:         r.Key,
			Value:       r.Value,
			Description: r.Description,
			Priority:    r.Priority,
			Timestamp:   r.Timestamp,
		}
	}
	return prefs, nil
}

func recordsToCorrections(records []*secondary.CorrectionRecord) []*primary.Correction {
	corrections := make([]*primary.Correction, len(records))
	for i, r := range records {
		corrections[i] = &primary.Correction{
			ID:                 r.ID,
			TaskPattern:        r.TaskPattern,
			FailureDescription: r.FailureDescription,
			Correction:         r.Correction,
			UserID:             r.UserID,
			OccurrenceCount:    r.OccurrenceCount,
			Timestamp:          r.Timestamp,
		}
	}
	return corrections
}

// Ensure SafetyServiceImpl implements the interface.
var _ primary.SafetyService = (*SafetyServiceImpl)(nil)
