// Package app contains the application services implementing the primary
// ports. Services hold no state beyond injected dependencies.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/sage/internal/ctxutil"
	"github.com/example/sage/internal/ports/primary"
	"github.com/example/sage/internal/ports/secondary"
)

// EventTimestampFormat is the layout for generated event timestamps. The
// checkpoint orders events by comparing timestamp strings, so the fractional
// part is fixed-width: RFC3339Nano trims trailing zeros, which makes
// "12:00:00.5Z" sort after "12:00:00.55Z" and would let events slip behind
// the checkpoint.
const EventTimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

// validEventTypes is the closed set the event log accepts.
var validEventTypes = map[string]bool{
	primary.EventTaskStart:         true,
	primary.EventTaskComplete:      true,
	primary.EventSignalUndo:        true,
	primary.EventSignalAbandonment: true,
	primary.EventSignalAcceptance:  true,
}

// EventServiceImpl implements the EventService interface.
type EventServiceImpl struct {
	eventRepo secondary.EventRepository
}

// NewEventService creates a new EventService with injected dependencies.
func NewEventService(eventRepo secondary.EventRepository) *EventServiceImpl {
	return &EventServiceImpl{eventRepo: eventRepo}
}

// AppendEvent appends a telemetry event to the log. The timestamp defaults
// to the current time; events are never mutated after this point.
func (s *EventServiceImpl) AppendEvent(ctx context.Context, req primary.AppendEventRequest) (*primary.Event, error) {
	if !validEventTypes[req.EventType] {
		return nil, fmt.Errorf("unknown event type %q", req.EventType)
	}

	timestamp := req.Timestamp
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(EventTimestampFormat)
	}

	userID := req.UserID
	if userID == "" {
		userID = ctxutil.UserFromContext(ctx)
	}

	record := &secondary.EventRecord{
		EventType:      req.EventType,
		Timestamp:      timestamp,
		Query:          req.Query,
		AgentResponse:  req.AgentResponse,
		Success:        req.Success,
		UserFeedback:   req.UserFeedback,
		PolicyVersion:  req.PolicyVersion,
		MetadataJSON:   req.MetadataJSON,
		SignalType:     req.SignalType,
		SignalContext:  req.SignalContext,
		ConversationID: req.ConversationID,
		TurnNumber:     req.TurnNumber,
		IntentType:     req.IntentType,
		UserID:         userID,
	}

	if err := s.eventRepo.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	return recordToEvent(record), nil
}

// ListEvents lists events, optionally since a timestamp.
func (s *EventServiceImpl) ListEvents(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	records, err := s.eventRepo.ListSince(ctx, filters.Since)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*primary.Event, len(records))
	for i, r := range records {
		events[i] = recordToEvent(r)
	}
	return events, nil
}

func recordToEvent(r *secondary.EventRecord) *primary.Event {
	return &primary.Event{
		Seq:            r.Seq,
		EventType:      r.EventType,
		Timestamp:      r.Timestamp,
		Query:          r.Query,
		AgentResponse:  r.AgentResponse,
		Success:        r.Success,
		UserFeedback:   r.UserFeedback,
		PolicyVersion:  r.PolicyVersion,
		MetadataJSON:   r.MetadataJSON,
		SignalType:     r.SignalType,
		SignalContext:  r.SignalContext,
		ConversationID: r.ConversationID,
		TurnNumber:     r.TurnNumber,
		IntentType:     r.IntentType,
		UserID:         r.UserID,
		CreatedAt:      r.CreatedAt,
	}
}

// Ensure EventServiceImpl implements the interface.
var _ primary.EventService = (*EventServiceImpl)(nil)
