package primary

import "context"

// SignalObserver defines the primary port for the background signal observer.
// It consumes externally pushed signals on a fixed poll interval, updates the
// pattern-learning store, and appends observed signals to the event log. It
// never writes to the policy store.
type SignalObserver interface {
	// Push enqueues a signal for the next poll tick. Safe for concurrent
	// use. A signal with an unknown type is rejected here rather than at
	// persistence time, so nothing invalid ever enters the queue.
	Push(signal PushedSignal) error

	// Run polls until the context is cancelled.
	Run(ctx context.Context) error

	// ProcessPending drains the queue once. Run calls this on every tick;
	// it is exposed for one-shot use.
	ProcessPending(ctx context.Context) (int, error)

	// Patterns lists observed signal patterns, highest occurrence first.
	Patterns(ctx context.Context) ([]*SignalPattern, error)
}

// PushedSignal is an implicit-feedback signal pushed from outside.
type PushedSignal struct {
	SignalType    string // signal_undo, signal_abandonment, signal_acceptance
	SignalContext string
	Query         string
	UserID        string
	PolicyVersion int
}

// SignalPattern is an aggregated view of recurring signals.
type SignalPattern struct {
	SignalType      string
	SignalContext   string
	OccurrenceCount int
	LastSeen        string
}

// SignalAlert is delivered through the observer's callback when a pattern
// reaches the high-confidence threshold.
type SignalAlert struct {
	SignalType      string
	SignalContext   string
	OccurrenceCount int
}

// AlertFunc receives high-confidence alerts from the signal observer.
type AlertFunc func(alert SignalAlert)
