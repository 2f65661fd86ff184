package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/sage/internal/core/signal"
	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/ports/secondary"
)

// DefaultPollInterval is how often the observer drains its queue.
const DefaultPollInterval = 5 * time.Second

// AlertThreshold is the occurrence count at which a recurring signal pattern
// is surfaced through the alert callback.
const AlertThreshold = 3

// SignalObserverImpl implements the SignalObserver interface. Pushes land in
// an in-memory queue; each poll tick drains the queue, appends the signals to
// the event log, and updates the pattern store. The observer never touches
// the policy store: patterns it learns feed alerts, not mutations.
type SignalObserverImpl struct {
	eventRepo   secondary.EventRepository
	patternRepo secondary.SignalPatternRepository
	interval    time.Duration
	alert       primary.AlertFunc

	mu    sync.Mutex
	queue []primary.PushedSignal
}

// NewSignalObserver creates a new SignalObserver. alert may be nil.
func NewSignalObserver(
	eventRepo secondary.EventRepository,
	patternRepo secondary.SignalPatternRepository,
	interval time.Duration,
	alert primary.AlertFunc,
) *SignalObserverImpl {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &SignalObserverImpl{
		eventRepo:   eventRepo,
		patternRepo: patternRepo,
		interval:    interval,
		alert:       alert,
	}
}

// Push enqueues a signal for the next poll tick. Safe for concurrent use.
// Unknown signal types are rejected up front; the events table would refuse
// them anyway, but by then the drained signal is already lost.
func (o *SignalObserverImpl) Push(sig primary.PushedSignal) error {
	if !signal.IsSignal(sig.SignalType) {
		return fmt.Errorf("unknown signal type %q", sig.SignalType)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queue = append(o.queue, sig)
	return nil
}

// Run polls until the context is cancelled. Cancellation between ticks is
// the only exit; a failed drain is logged and retried on the next tick.
func (o *SignalObserverImpl) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	slog.Info("signal observer started", "interval", o.interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.Info("signal observer stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := o.ProcessPending(ctx); err != nil {
				slog.Warn("signal drain failed", "error", err)
			}
		}
	}
}

// ProcessPending drains the queue once and returns how many signals were
// persisted. Signals are taken off the queue before persistence; a failure
// drops the remainder of the drained slice rather than re-queueing, so a
// poisoned signal cannot wedge the queue.
func (o *SignalObserverImpl) ProcessPending(ctx context.Context) (int, error) {
	o.mu.Lock()
	pending := o.queue
	o.queue = nil
	o.mu.Unlock()

	processed := 0
	for _, sig := range pending {
		if err := o.observe(ctx, sig); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

func (o *SignalObserverImpl) observe(ctx context.Context, sig primary.PushedSignal) error {
	now := time.Now().UTC().Format(EventTimestampFormat)

	record := &secondary.EventRecord{
		EventType:     sig.SignalType,
		Timestamp:     now,
		Query:         sig.Query,
		PolicyVersion: sig.PolicyVersion,
		SignalType:    sig.SignalType,
		SignalContext: sig.SignalContext,
		UserID:        sig.UserID,
	}
	if err := o.eventRepo.Append(ctx, record); err != nil {
		return fmt.Errorf("failed to append signal event: %w", err)
	}

	count, err := o.patternRepo.Upsert(ctx, sig.SignalType, sig.SignalContext, now)
	if err != nil {
		return fmt.Errorf("failed to update signal pattern: %w", err)
	}

	if count >= AlertThreshold && o.alert != nil {
		o.alert(primary.SignalAlert{
			SignalType:      sig.SignalType,
			SignalContext:   sig.SignalContext,
			OccurrenceCount: count,
		})
	}

	return nil
}

// Patterns lists observed signal patterns, highest occurrence first.
func (o *SignalObserverImpl) Patterns(ctx context.Context) ([]*primary.SignalPattern, error) {
	records, err := o.patternRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list signal patterns: %w", err)
	}

	patterns := make([]*primary.SignalPattern, 0, len(records))
	for _, r := range records {
		patterns = append(patterns, &primary.SignalPattern{
			SignalType:      r.SignalType,
			SignalContext:   r.SignalContext,
			OccurrenceCount: r.OccurrenceCount,
			LastSeen:        r.LastSeen,
		})
	}
	return patterns, nil
}

// Ensure SignalObserverImpl implements the interface.
var _ primary.SignalObserver = (*SignalObserverImpl)(nil)
