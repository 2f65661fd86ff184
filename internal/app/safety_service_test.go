package app

import (
	"context"
	"testing"

	"github.com/example/sage/internal/ports/primary"
)

func newTestSafetyService() (*SafetyServiceImpl, *mockSafetyRepository) {
	repo := newMockSafetyRepository()
	service := NewSafetyService(repo)
	return service, repo
}

func TestSafetyService_RecordCorrection_UpsertIncrements(t *testing.T) {
	service, repo := newTestSafetyService()
	ctx := context.Background()

	req := primary.RecordCorrectionRequest{
		TaskPattern:        "schedule a meeting",
		FailureDescription: "wrong timezone",
		Correction:         "Always confirm the timezone first",
		UserID:             "user-1",
	}
	if err := service.RecordCorrection(ctx, req); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if err := service.RecordCorrection(ctx, req); err != nil {
		t.Fatalf("second record failed: %v", err)
	}

	if len(repo.corrections) != 1 {
		t.Fatalf("expected 1 correction row, got %d", len(repo.corrections))
	}
	if repo.corrections[0].OccurrenceCount != 2 {
		t.Errorf("expected occurrence count 2, got %d", repo.corrections[0].OccurrenceCount)
	}
}

func TestSafetyService_RecordCorrection_Validation(t *testing.T) {
	service, _ := newTestSafetyService()
	ctx := context.Background()

	err := service.RecordCorrection(ctx, primary.RecordCorrectionRequest{
		TaskPattern: "",
		Correction:  "do the thing",
	})
	if err == nil {
		t.Fatal("expected error for empty task pattern")
	}
}

func TestSafetyService_RecentCorrections_RankedByOverlap(t *testing.T) {
	service, _ := newTestSafetyService()
	ctx := context.Background()

	seed := []primary.RecordCorrectionRequest{
		{TaskPattern: "schedule a meeting with the team", Correction: "Confirm the timezone"},
		{TaskPattern: "schedule a meeting room booking for visitors", Correction: "Check room capacity"},
		{TaskPattern: "compile the quarterly report", Correction: "Use the latest template"},
	}
	for _, req := range seed {
		req.FailureDescription = "observed failure"
		if err := service.RecordCorrection(ctx, req); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	corrections, err := service.RecentCorrections(ctx, "schedule a meeting with the design team", "", 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// The report correction shares no keywords and is filtered out.
	if len(corrections) != 2 {
		t.Fatalf("expected 2 relevant corrections, got %d", len(corrections))
	}
	if corrections[0].Correction != "Confirm the timezone" {
		t.Errorf("expected highest-overlap correction first, got %q", corrections[0].Correction)
	}
}

func TestSafetyService_RecentCorrections_UserScoping(t *testing.T) {
	service, _ := newTestSafetyService()
	ctx := context.Background()

	if err := service.RecordCorrection(ctx, primary.RecordCorrectionRequest{
		TaskPattern: "deploy the staging service",
		Correction:  "Run the smoke tests",
		UserID:      "user-1",
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := service.RecordCorrection(ctx, primary.RecordCorrectionRequest{
		TaskPattern: "deploy the staging service",
		Correction:  "Tag the release",
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// user-2 sees only the global correction.
	corrections, err := service.RecentCorrections(ctx, "deploy the staging service tonight", "user-2", 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(corrections) != 1 {
		t.Fatalf("expected 1 visible correction, got %d", len(corrections))
	}
	if corrections[0].Correction != "Tag the release" {
		t.Errorf("expected the global correction, got %q", corrections[0].Correction)
	}
}

func TestSafetyService_PurgeCorrections(t *testing.T) {
	service, repo := newTestSafetyService()
	ctx := context.Background()

	for _, pattern := range []string{"task one", "task two", "task three"} {
		if err := service.RecordCorrection(ctx, primary.RecordCorrectionRequest{
			TaskPattern: pattern,
			Correction:  "fix it",
		}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	deleted, err := service.PurgeCorrections(ctx, []int64{1, 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
	if len(repo.corrections) != 1 {
		t.Errorf("expected 1 remaining, got %d", len(repo.corrections))
	}
}

func TestSafetyService_SetPreference_PriorityBounds(t *testing.T) {
	service, _ := newTestSafetyService()
	ctx := context.Background()

	for _, priority := range []int{0, 11, -1} {
		err := service.SetPreference(ctx, primary.SetPreferenceRequest{
			UserID:   "user-1",
			Key:      "tone",
			Value:    "formal",
			Priority: priority,
		})
		if err == nil {
			t.Errorf("expected error for priority %d", priority)
		}
	}
}

func TestSafetyService_SetPreference_ReplacesExisting(t *testing.T) {
	service, repo := newTestSafetyService()
	ctx := context.Background()

	if err := service.SetPreference(ctx, primary.SetPreferenceRequest{
		UserID: "user-1", Key: "tone", Value: "formal", Priority: 5,
	}); err != nil {
		t.Fatalf("first set failed: %v", err)
	}
	if err := service.SetPreference(ctx, primary.SetPreferenceRequest{
		UserID: "user-1", Key: "tone", Value: "casual", Priority: 8,
	}); err != nil {
		t.Fatalf("second set failed: %v", err)
	}

	if len(repo.preferences) != 1 {
		t.Fatalf("expected 1 preference row, got %d", len(repo.preferences))
	}
	if repo.preferences[0].Value != "casual" || repo.preferences[0].Priority != 8 {
		t.Errorf("expected replaced value, got %q priority %d",
			repo.preferences[0].Value, repo.preferences[0].Priority)
	}
}

func TestSafetyService_ListPreferences_PriorityOrder(t *testing.T) {
	service, _ := newTestSafetyService()
	ctx := context.Background()

	prefs := []primary.SetPreferenceRequest{
		{UserID: "user-1", Key: "tone", Value: "formal", Priority: 3},
		{UserID: "user-1", Key: "length", Value: "short", Priority: 9},
		{UserID: "user-2", Key: "tone", Value: "casual", Priority: 5},
	}
	for _, req := range prefs {
		if err := service.SetPreference(ctx, req); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	listed, err := service.ListPreferences(ctx, "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 preferences for user-1, got %d", len(listed))
	}
	if listed[0].Key != "length" {
		t.Errorf("expected highest priority first, got %q", listed[0].Key)
	}
}
