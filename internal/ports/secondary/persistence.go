// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// external systems.
package secondary

import "context"

// EventRepository defines the secondary port for the append-only event log.
// There are no update or delete operations: the log is immutable once written.
type EventRepository interface {
	// Append durably writes a new event. On success the record's Seq is
	// populated with the assigned append-order sequence number.
	Append(ctx context.Context, event *EventRecord) error

	// ListAll retrieves all events in append order.
	ListAll(ctx context.Context) ([]*EventRecord, error)

	// ListSince retrieves events with timestamp strictly greater than the
	// given timestamp, in append order. An empty timestamp means all events.
	ListSince(ctx context.Context, timestamp string) ([]*EventRecord, error)

	// Count returns the total number of events in the log.
	Count(ctx context.Context) (int, error)
}

// EventRecord represents a telemetry event as stored in persistence.
// Events are ordered by (Timestamp, Seq): timestamps are monotonically
// non-decreasing in append order and Seq breaks ties.
type EventRecord struct {
	Seq            int64
	EventType      string // task_start, task_complete, signal_undo, signal_abandonment, signal_acceptance
	Timestamp      string // RFC3339, the log's total order key
	Query          string
	AgentResponse  string // Empty string means null
	Success        string // "", "true", "false" - empty means unknown
	UserFeedback   string // Empty string means null
	PolicyVersion  int
	MetadataJSON   string // Empty string means null - caller-defined annotations
	SignalType     string // Empty string means null - set for signal_* events
	SignalContext  string // Empty string means null
	ConversationID string // Empty string means null
	TurnNumber     int    // 0 means unset
	IntentType     string // Empty string means null
	UserID         string // Empty string means no user attribution
	CreatedAt      string
}

// PolicyRepository defines the secondary port for the versioned policy store.
// The learning loop is the only writer; readers always see the last fully
// persisted version.
type PolicyRepository interface {
	// Current retrieves the current policy, creating the default record
	// (version 1) if none exists yet.
	Current(ctx context.Context) (*PolicyRecord, error)

	// ApplyMutation atomically increments the version by exactly 1, replaces
	// the instructions, appends a history entry, and returns the new version.
	ApplyMutation(ctx context.Context, newText, critique, query, response string) (int, error)

	// History retrieves all mutation entries in version order.
	History(ctx context.Context) ([]*MutationEntry, error)
}

// PolicyRecord represents the current policy as stored in persistence.
type PolicyRecord struct {
	Version      int
	Instructions string
	UpdatedAt    string
}

// MutationEntry represents one accepted policy mutation.
type MutationEntry struct {
	Version   int
	Critique  string
	Query     string // Empty string means null
	Response  string // Empty string means null
	CreatedAt string
}

// SafetyRepository defines the secondary port for the safety ledger:
// safety corrections and per-user preferences.
type SafetyRepository interface {
	// RecordCorrection upserts a correction keyed on (task_pattern, user_id).
	// An existing row gets its occurrence count incremented, its timestamp
	// refreshed, and its description/correction overwritten.
	RecordCorrection(ctx context.Context, pattern, failureDescription, correction, userID string) error

	// ListCorrections retrieves all corrections, most recent first.
	ListCorrections(ctx context.Context) ([]*CorrectionRecord, error)

	// ListRecentCorrections retrieves corrections within the recency window
	// that are visible to the given user: rows bound to a different user are
	// excluded, rows with no user are global. Relevance ranking happens in
	// the service layer.
	ListRecentCorrections(ctx context.Context, userID string, windowHours int) ([]*CorrectionRecord, error)

	// PurgeCorrections removes corrections by ID and returns how many rows
	// were deleted. Used by the upgrade-purge flow.
	PurgeCorrections(ctx context.Context, ids []int64) (int, error)

	// UpsertPreference replaces a preference keyed on (user_id, preference_key).
	UpsertPreference(ctx context.Context, pref *PreferenceRecord) error

	// ListPreferences retrieves a user's preferences sorted by priority
	// descending.
	ListPreferences(ctx context.Context, userID string) ([]*PreferenceRecord, error)
}

// CorrectionRecord represents a safety correction as stored in persistence.
type CorrectionRecord struct {
	ID                 int64
	TaskPattern        string
	FailureDescription string
	Correction         string
	UserID             string // Empty string means global
	OccurrenceCount    int
	Timestamp          string // RFC3339
}

// PreferenceRecord represents a per-user preference as stored in persistence.
type PreferenceRecord struct {
	ID        int64
	UserID    string
	Key       string
	Value     string
	Description string
	Priority  int // 1-10
	Timestamp string // RFC3339
}

// ReviewRepository defines the secondary port for the human review queue.
type ReviewRepository interface {
	// Create persists a new review item (always pending).
	Create(ctx context.Context, review *ReviewRecord) error

	// GetByID retrieves a review item by its ID.
	GetByID(ctx context.Context, id string) (*ReviewRecord, error)

	// List retrieves review items matching the given filters, newest first.
	List(ctx context.Context, filters ReviewFilters) ([]*ReviewRecord, error)

	// UpdateStatus sets the status, reviewer notes, and decided_at timestamp.
	// Transition validity is enforced by the service layer.
	UpdateStatus(ctx context.Context, id, status, notes string) error

	// CountByStatus returns how many review items have the given status.
	CountByStatus(ctx context.Context, status string) (int, error)

	// GetNextID returns the next available review ID.
	GetNextID(ctx context.Context) (string, error)
}

// ReviewRecord represents a review item as stored in persistence.
type ReviewRecord struct {
	ID            string
	Kind          string // design_check, strategic_sample, policy_review
	ContentJSON   string // kind-specific payload
	Status        string // pending, approved, rejected
	ReviewerNotes string // Empty string means null
	CreatedAt     string
	DecidedAt     string // Empty string means null
}

// ReviewFilters contains filter options for querying review items.
type ReviewFilters struct {
	Kind   string
	Status string
	Limit  int
}

// CheckpointRepository defines the secondary port for the learning loop's
// durable cursor. The learning loop is the exclusive owner.
type CheckpointRepository interface {
	// Get retrieves the checkpoint, creating the zero record if none exists.
	Get(ctx context.Context) (*CheckpointRecord, error)

	// Advance sets the last processed timestamp and adds lessonsDelta to the
	// cumulative lessons counter in a single write.
	Advance(ctx context.Context, timestamp string, lessonsDelta int) error
}

// CheckpointRecord represents the learning loop checkpoint.
type CheckpointRecord struct {
	LastProcessedTimestamp string // Empty string means nothing processed yet
	LessonsLearned         int
	UpdatedAt              string
}

// SignalPatternRepository defines the secondary port for the signal
// observer's pattern-learning store. It is independent of the policy store.
type SignalPatternRepository interface {
	// Upsert increments the occurrence count for (signal_type, signal_context)
	// and returns the new count.
	Upsert(ctx context.Context, signalType, signalContext, lastSeen string) (int, error)

	// List retrieves all observed patterns, highest occurrence first.
	List(ctx context.Context) ([]*SignalPatternRecord, error)
}

// SignalPatternRecord represents an observed signal pattern.
type SignalPatternRecord struct {
	ID              int64
	SignalType      string
	SignalContext   string
	OccurrenceCount int
	LastSeen        string // RFC3339
}
