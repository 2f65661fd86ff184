package app

import (
	"context"
	"testing"

	"github.com/example/sage/internal/ports/primary"
)

func newTestSignalObserver(alert primary.AlertFunc) (*SignalObserverImpl, *mockEventRepository, *mockSignalPatternRepository) {
	events := newMockEventRepository()
	patterns := &mockSignalPatternRepository{}
	observer := NewSignalObserver(events, patterns, 0, alert)
	return observer, events, patterns
}

func TestSignalObserver_ProcessPending_AppendsToEventLog(t *testing.T) {
	observer, events, patterns := newTestSignalObserver(nil)
	ctx := context.Background()

	observer.Push(primary.PushedSignal{
		SignalType:    primary.EventSignalUndo,
		SignalContext: "file_rename",
		Query:         "rename the config file",
		UserID:        "user-3",
		PolicyVersion: 4,
	})

	processed, err := observer.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if processed != 1 {
		t.Errorf("expected 1 processed, got %d", processed)
	}

	if len(events.events) != 1 {
		t.Fatalf("expected 1 event appended, got %d", len(events.events))
	}
	event := events.events[0]
	if event.EventType != primary.EventSignalUndo {
		t.Errorf("expected event type signal_undo, got %q", event.EventType)
	}
	if event.SignalContext != "file_rename" {
		t.Errorf("expected signal context preserved, got %q", event.SignalContext)
	}
	if event.UserID != "user-3" {
		t.Errorf("expected user attribution, got %q", event.UserID)
	}

	if len(patterns.patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns.patterns))
	}
	if patterns.patterns[0].OccurrenceCount != 1 {
		t.Errorf("expected occurrence count 1, got %d", patterns.patterns[0].OccurrenceCount)
	}
}

func TestSignalObserver_Push_RejectsUnknownType(t *testing.T) {
	observer, events, _ := newTestSignalObserver(nil)
	ctx := context.Background()

	err := observer.Push(primary.PushedSignal{SignalType: "signal_telepathy"})
	if err == nil {
		t.Fatal("expected an error for an unknown signal type")
	}

	processed, err := observer.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if processed != 0 {
		t.Errorf("expected 0 processed, got %d", processed)
	}
	if len(events.events) != 0 {
		t.Errorf("expected no events appended, got %d", len(events.events))
	}
}

func TestSignalObserver_ProcessPending_EmptyQueue(t *testing.T) {
	observer, _, _ := newTestSignalObserver(nil)
	ctx := context.Background()

	processed, err := observer.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if processed != 0 {
		t.Errorf("expected 0 processed, got %d", processed)
	}
}

func TestSignalObserver_ProcessPending_DrainsQueueOnce(t *testing.T) {
	observer, events, _ := newTestSignalObserver(nil)
	ctx := context.Background()

	observer.Push(primary.PushedSignal{SignalType: primary.EventSignalAcceptance, SignalContext: "report"})
	observer.Push(primary.PushedSignal{SignalType: primary.EventSignalAcceptance, SignalContext: "report"})

	if _, err := observer.ProcessPending(ctx); err != nil {
		t.Fatalf("first drain failed: %v", err)
	}
	processed, err := observer.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("second drain failed: %v", err)
	}

	if processed != 0 {
		t.Errorf("expected empty queue on second drain, got %d", processed)
	}
	if len(events.events) != 2 {
		t.Errorf("expected 2 events total, got %d", len(events.events))
	}
}

func TestSignalObserver_AlertFiresAtThreshold(t *testing.T) {
	var alerts []primary.SignalAlert
	observer, _, _ := newTestSignalObserver(func(alert primary.SignalAlert) {
		alerts = append(alerts, alert)
	})
	ctx := context.Background()

	for i := 0; i < AlertThreshold; i++ {
		observer.Push(primary.PushedSignal{
			SignalType:    primary.EventSignalAbandonment,
			SignalContext: "checkout_flow",
		})
	}
	if _, err := observer.ProcessPending(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert at threshold, got %d", len(alerts))
	}
	if alerts[0].OccurrenceCount != AlertThreshold {
		t.Errorf("expected occurrence count %d, got %d", AlertThreshold, alerts[0].OccurrenceCount)
	}
	if alerts[0].SignalContext != "checkout_flow" {
		t.Errorf("expected context preserved in alert, got %q", alerts[0].SignalContext)
	}
}

func TestSignalObserver_NoAlertBelowThreshold(t *testing.T) {
	var alerts []primary.SignalAlert
	observer, _, _ := newTestSignalObserver(func(alert primary.SignalAlert) {
		alerts = append(alerts, alert)
	})
	ctx := context.Background()

	observer.Push(primary.PushedSignal{SignalType: primary.EventSignalUndo, SignalContext: "edit"})
	observer.Push(primary.PushedSignal{SignalType: primary.EventSignalUndo, SignalContext: "edit"})

	if _, err := observer.ProcessPending(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts below threshold, got %d", len(alerts))
	}
}

func TestSignalObserver_Patterns_SortedByOccurrence(t *testing.T) {
	observer, _, _ := newTestSignalObserver(nil)
	ctx := context.Background()

	observer.Push(primary.PushedSignal{SignalType: primary.EventSignalUndo, SignalContext: "rare"})
	observer.Push(primary.PushedSignal{SignalType: primary.EventSignalUndo, SignalContext: "common"})
	observer.Push(primary.PushedSignal{SignalType: primary.EventSignalUndo, SignalContext: "common"})
	if _, err := observer.ProcessPending(ctx); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	patterns, err := observer.Patterns(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(patterns))
	}
	if patterns[0].SignalContext != "common" || patterns[0].OccurrenceCount != 2 {
		t.Errorf("expected 'common' pattern first with count 2, got %q count %d",
			patterns[0].SignalContext, patterns[0].OccurrenceCount)
	}
}

func TestSignalObserver_AppendFailureStopsDrain(t *testing.T) {
	observer, events, _ := newTestSignalObserver(nil)
	ctx := context.Background()

	events.failOn = "Append"
	observer.Push(primary.PushedSignal{SignalType: primary.EventSignalUndo, SignalContext: "edit"})

	if _, err := observer.ProcessPending(ctx); err == nil {
		t.Fatal("expected error when append fails")
	}
}
