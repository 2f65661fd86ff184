package primary

import "context"

// SafetyService defines the primary port for the safety ledger: corrections
// learned from failures and per-user preferences.
type SafetyService interface {
	// RecordCorrection upserts a correction keyed on (pattern, user).
	RecordCorrection(ctx context.Context, req RecordCorrectionRequest) error

	// ListCorrections lists all corrections, most recent first.
	ListCorrections(ctx context.Context) ([]*Correction, error)

	// RecentCorrections returns corrections relevant to the query for the
	// given user within the recency window, most relevant first.
	RecentCorrections(ctx context.Context, query, userID string, windowHours int) ([]*Correction, error)

	// PurgeCorrections bulk-removes corrections by ID and returns the count.
	PurgeCorrections(ctx context.Context, ids []int64) (int, error)

	// SetPreference upserts a preference keyed on (user, key).
	SetPreference(ctx context.Context, req SetPreferenceRequest) error

	// ListPreferences lists a user's preferences, highest priority first.
	ListPreferences(ctx context.Context, userID string) ([]*Preference, error)
}

// RecordCorrectionRequest contains the fields for recording a correction.
type RecordCorrectionRequest struct {
	TaskPattern        string
	FailureDescription string
	Correction         string
	UserID             string // empty means global
}

// Correction represents a learned safety correction.
type Correction struct {
	ID                 int64
	TaskPattern        string
	FailureDescription string
	Correction         string
	UserID             string
	OccurrenceCount    int
	Timestamp          string
}

// SetPreferenceRequest contains the fields for upserting a preference.
type SetPreferenceRequest struct {
	UserID      string
	Key         string
	Value       string
	Description string
	Priority    int // 1-10
}

// Preference represents a per-user preference.
type Preference struct {
	ID          int64
	UserID      string
	Key         string
	Value       string
	Description string
	Priority    int
	Timestamp   string
}
