package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/example/sage/internal/ports/secondary"
)

// mockEventRepository implements secondary.EventRepository for testing.
type mockEventRepository struct {
	events  []*secondary.EventRecord
	nextSeq int64
	failOn  string // method name that should fail
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{nextSeq: 1}
}

func (m *mockEventRepository) Append(ctx context.Context, event *secondary.EventRecord) error {
	if m.failOn == "Append" {
		return errors.New("append failed")
	}
	event.Seq = m.nextSeq
	m.nextSeq++
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventRepository) ListAll(ctx context.Context) ([]*secondary.EventRecord, error) {
	return m.events, nil
}

func (m *mockEventRepository) ListSince(ctx context.Context, timestamp string) ([]*secondary.EventRecord, error) {
	if m.failOn == "ListSince" {
		return nil, errors.New("list failed")
	}
	var result []*secondary.EventRecord
	for _, e := range m.events {
		if timestamp == "" || e.Timestamp > timestamp {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEventRepository) Count(ctx context.Context) (int, error) {
	return len(m.events), nil
}

// mockPolicyRepository implements secondary.PolicyRepository for testing.
type mockPolicyRepository struct {
	version      int
	instructions string
	history      []*secondary.MutationEntry
	mutateErr    error
}

func newMockPolicyRepository(instructions string) *mockPolicyRepository {
	return &mockPolicyRepository{version: 1, instructions: instructions}
}

func (m *mockPolicyRepository) Current(ctx context.Context) (*secondary.PolicyRecord, error) {
	return &secondary.PolicyRecord{
		Version:      m.version,
		Instructions: m.instructions,
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (m *mockPolicyRepository) ApplyMutation(ctx context.Context, newText, critique, query, response string) (int, error) {
	if m.mutateErr != nil {
		return 0, m.mutateErr
	}
	m.version++
	m.instructions = newText
	m.history = append(m.history, &secondary.MutationEntry{
		Version:  m.version,
		Critique: critique,
		Query:    query,
		Response: response,
	})
	return m.version, nil
}

func (m *mockPolicyRepository) History(ctx context.Context) ([]*secondary.MutationEntry, error) {
	return m.history, nil
}

// mockSafetyRepository implements secondary.SafetyRepository for testing.
type mockSafetyRepository struct {
	corrections []*secondary.CorrectionRecord
	preferences []*secondary.PreferenceRecord
	nextID      int64
}

func newMockSafetyRepository() *mockSafetyRepository {
	return &mockSafetyRepository{nextID: 1}
}

func (m *mockSafetyRepository) RecordCorrection(ctx context.Context, pattern, failureDescription, correction, userID string) error {
	for _, c := range m.corrections {
		if c.TaskPattern == pattern && c.UserID == userID {
			c.OccurrenceCount++
			c.FailureDescription = failureDescription
			c.Correction = correction
			c.Timestamp = time.Now().UTC().Format(time.RFC3339)
			return nil
		}
	}
	m.corrections = append(m.corrections, &secondary.CorrectionRecord{
		ID:                 m.nextID,
		TaskPattern:        pattern,
		FailureDescription: failureDescription,
		Correction:         correction,
		UserID:             userID,
		OccurrenceCount:    1,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	})
	m.nextID++
	return nil
}

func (m *mockSafetyRepository) ListCorrections(ctx context.Context) ([]*secondary.CorrectionRecord, error) {
	return m.corrections, nil
}

func (m *mockSafetyRepository) ListRecentCorrections(ctx context.Context, userID string, windowHours int) ([]*secondary.CorrectionRecord, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour).Format(time.RFC3339)
	var result []*secondary.CorrectionRecord
	for _, c := range m.corrections {
		if c.Timestamp < cutoff {
			continue
		}
		if c.UserID != "" && c.UserID != userID {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (m *mockSafetyRepository) PurgeCorrections(ctx context.Context, ids []int64) (int, error) {
	keep := m.corrections[:0]
	deleted := 0
	for _, c := range m.corrections {
		purge := false
		for _, id := range ids {
			if c.ID == id {
				purge = true
				break
			}
		}
		if purge {
			deleted++
		} else {
			keep = append(keep, c)
		}
	}
	m.corrections = keep
	return deleted, nil
}

func (m *mockSafetyRepository) UpsertPreference(ctx context.Context, pref *secondary.PreferenceRecord) error {
	for i, p := range m.preferences {
		if p.UserID == pref.UserID && p.Key == pref.Key {
			m.preferences[i] = pref
			return nil
		}
	}
	m.preferences = append(m.preferences, pref)
	return nil
}

func (m *mockSafetyRepository) ListPreferences(ctx context.Context, userID string) ([]*secondary.PreferenceRecord, error) {
	var result []*secondary.PreferenceRecord
	for _, p := range m.preferences {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Priority > result[j].Priority
	})
	return result, nil
}

// mockReviewRepository implements secondary.ReviewRepository for testing.
type mockReviewRepository struct {
	reviews map[string]*secondary.ReviewRecord
	nextID  int
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{
		reviews: make(map[string]*secondary.ReviewRecord),
		nextID:  1,
	}
}

func (m *mockReviewRepository) Create(ctx context.Context, review *secondary.ReviewRecord) error {
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*secondary.ReviewRecord, error) {
	if r, ok := m.reviews[id]; ok {
		return r, nil
	}
	return nil, errors.New("not found")
}

func (m *mockReviewRepository) List(ctx context.Context, filters secondary.ReviewFilters) ([]*secondary.ReviewRecord, error) {
	var result []*secondary.ReviewRecord
	for _, r := range m.reviews {
		if filters.Kind != "" && r.Kind != filters.Kind {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

func (m *mockReviewRepository) UpdateStatus(ctx context.Context, id, status, notes string) error {
	r, ok := m.reviews[id]
	if !ok {
		return errors.New("not found")
	}
	r.Status = status
	r.ReviewerNotes = notes
	r.DecidedAt = time.Now().UTC().Format(time.RFC3339)
	return nil
}

func (m *mockReviewRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	count := 0
	for _, r := range m.reviews {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockReviewRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("REV-%03d", id), nil
}

func (m *mockReviewRepository) byKind(kind string) []*secondary.ReviewRecord {
	var result []*secondary.ReviewRecord
	for _, r := range m.reviews {
		if r.Kind == kind {
			result = append(result, r)
		}
	}
	return result
}

// mockCheckpointRepository implements secondary.CheckpointRepository for testing.
type mockCheckpointRepository struct {
	timestamp string
	lessons   int
	advances  int
}

func (m *mockCheckpointRepository) Get(ctx context.Context) (*secondary.CheckpointRecord, error) {
	return &secondary.CheckpointRecord{
		LastProcessedTimestamp: m.timestamp,
		LessonsLearned:         m.lessons,
	}, nil
}

func (m *mockCheckpointRepository) Advance(ctx context.Context, timestamp string, lessonsDelta int) error {
	m.timestamp = timestamp
	m.lessons += lessonsDelta
	m.advances++
	return nil
}

// mockSignalPatternRepository implements secondary.SignalPatternRepository for testing.
type mockSignalPatternRepository struct {
	patterns []*secondary.SignalPatternRecord
}

func (m *mockSignalPatternRepository) Upsert(ctx context.Context, signalType, signalContext, lastSeen string) (int, error) {
	for _, p := range m.patterns {
		if p.SignalType == signalType && p.SignalContext == signalContext {
			p.OccurrenceCount++
			p.LastSeen = lastSeen
			return p.OccurrenceCount, nil
		}
	}
	m.patterns = append(m.patterns, &secondary.SignalPatternRecord{
		ID:              int64(len(m.patterns) + 1),
		SignalType:      signalType,
		SignalContext:   signalContext,
		OccurrenceCount: 1,
		LastSeen:        lastSeen,
	})
	return 1, nil
}

func (m *mockSignalPatternRepository) List(ctx context.Context) ([]*secondary.SignalPatternRecord, error) {
	sort.Slice(m.patterns, func(i, j int) bool {
		return m.patterns[i].OccurrenceCount > m.patterns[j].OccurrenceCount
	})
	return m.patterns, nil
}

// mockScoringOracle implements secondary.ScoringOracle for testing.
type mockScoringOracle struct {
	score    float64
	critique string
	err      error
	calls    int
}

func (m *mockScoringOracle) Score(ctx context.Context, query, response string) (*secondary.ScoreResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &secondary.ScoreResult{Score: m.score, Critique: m.critique}, nil
}

// mockRewritingOracle implements secondary.RewritingOracle for testing.
type mockRewritingOracle struct {
	rewritten string
	err       error
	calls     int
}

func (m *mockRewritingOracle) Rewrite(ctx context.Context, currentPolicy, critique, query, response string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if m.rewritten != "" {
		return m.rewritten, nil
	}
	return currentPolicy + "\nAlways double-check timezone handling.", nil
}

// preferenceFixture builds a preference record for seeding mocks.
func preferenceFixture(userID, key, value string, priority int) *secondary.PreferenceRecord {
	return &secondary.PreferenceRecord{
		UserID:    userID,
		Key:       key,
		Value:     value,
		Priority:  priority,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// timestampAt returns an RFC3339 timestamp offset from a fixed base, for
// building ordered event logs in tests.
func timestampAt(offsetSeconds int) string {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(offsetSeconds) * time.Second).Format(time.RFC3339)
}

// seedTaskComplete appends a task_complete event to the mock event log.
func seedTaskComplete(repo *mockEventRepository, offsetSeconds int, query, response string) *secondary.EventRecord {
	event := &secondary.EventRecord{
		EventType:     "task_complete",
		Timestamp:     timestampAt(offsetSeconds),
		Query:         query,
		AgentResponse: response,
		PolicyVersion: 1,
	}
	_ = repo.Append(context.Background(), event)
	return event
}
