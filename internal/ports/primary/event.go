// Package primary defines the primary ports (driving adapters) for the
// application. These are the interfaces through which the CLI and other
// entry points drive the application.
package primary

import "context"

// Event type constants. The set is closed: the event log only accepts these.
const (
	EventTaskStart         = "task_start"
	EventTaskComplete      = "task_complete"
	EventSignalUndo        = "signal_undo"
	EventSignalAbandonment = "signal_abandonment"
	EventSignalAcceptance  = "signal_acceptance"
)

// EventService defines the primary port for event log operations.
type EventService interface {
	// AppendEvent appends a telemetry event to the log.
	AppendEvent(ctx context.Context, req AppendEventRequest) (*Event, error)

	// ListEvents lists events, optionally since a timestamp.
	ListEvents(ctx context.Context, filters EventFilters) ([]*Event, error)
}

// AppendEventRequest contains the fields for appending an event.
// Timestamp defaults to the current time if empty.
type AppendEventRequest struct {
	EventType      string
	Timestamp      string
	Query          string
	AgentResponse  string
	Success        string // "", "true", "false"
	UserFeedback   string
	PolicyVersion  int
	MetadataJSON   string
	SignalType     string
	SignalContext  string
	ConversationID string
	TurnNumber     int
	IntentType     string
	UserID         string
}

// Event represents a telemetry event.
type Event struct {
	Seq            int64
	EventType      string
	Timestamp      string
	Query          string
	AgentResponse  string
	Success        string
	UserFeedback   string
	PolicyVersion  int
	MetadataJSON   string
	SignalType     string
	SignalContext  string
	ConversationID string
	TurnNumber     int
	IntentType     string
	UserID         string
	CreatedAt      string
}

// EventFilters contains filter options for listing events.
type EventFilters struct {
	Since string // RFC3339; empty means all events
}
