package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/sage/internal/ports/secondary"
)

// SafetyRepository implements secondary.SafetyRepository with SQLite.
type SafetyRepository struct {
	db *sql.DB
}

// NewSafetyRepository creates a new SQLite safety ledger repository.
func NewSafetyRepository(db *sql.DB) *SafetyRepository {
	return &SafetyRepository{db: db}
}

// RecordCorrection upserts a correction keyed on (task_pattern, user_id).
// A recurring pattern increments occurrence_count instead of duplicating.
func (r *SafetyRepository) RecordCorrection(ctx context.Context, pattern, failureDescription, correction, userID string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO safety_corrections (task_pattern, failure_description, correction, user_id, occurrence_count, timestamp)
		 VALUES (?, ?, ?, ?, 1, ?)
		 ON CONFLICT(task_pattern, user_id) DO UPDATE SET
			occurrence_count = occurrence_count + 1,
			failure_description = excluded.failure_description,
			correction = excluded.correction,
			timestamp = excluded.timestamp`,
		pattern, failureDescription, correction, userID, now,
	)
	if err != nil {
		return fmt.Errorf("failed to record correction: %w", err)
	}

	return nil
}

const correctionColumns = `id, task_pattern, failure_description, correction, user_id, occurrence_count, timestamp`

// ListCorrections retrieves all corrections, most recent first.
func (r *SafetyRepository) ListCorrections(ctx context.Context) ([]*secondary.CorrectionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+correctionColumns+` FROM safety_corrections ORDER BY timestamp DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	defer rows.Close()

	return scanCorrections(rows)
}

// ListRecentCorrections retrieves corrections within the recency window that
// are visible to the given user. Corrections bound to a different named user
// are excluded; corrections with no user are global and always eligible.
func (r *SafetyRepository) ListRecentCorrections(ctx context.Context, userID string, windowHours int) ([]*secondary.CorrectionRecord, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour).Format(time.RFC3339)

	query := `SELECT ` + correctionColumns + ` FROM safety_corrections WHERE timestamp >= ? AND (user_id = '' OR user_id = ?) ORDER BY occurrence_count DESC, timestamp DESC`

	rows, err := r.db.QueryContext(ctx, query, cutoff, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent corrections: %w", err)
	}
	defer rows.Close()

	return scanCorrections(rows)
}

// PurgeCorrections bulk-removes corrections by ID.
func (r *SafetyRepository) PurgeCorrections(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM safety_corrections WHERE id IN ("+placeholders+")", args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge corrections: %w", err)
	}

	affected, _ := result.RowsAffected()
	return int(affected), nil
}

// UpsertPreference replaces a preference keyed on (user_id, preference_key).
func (r *SafetyRepository) UpsertPreference(ctx context.Context, pref *secondary.PreferenceRecord) error {
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, preference_key, preference_value, description, priority, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, preference_key) DO UPDATE SET
			preference_value = excluded.preference_value,
			description = excluded.description,
			priority = excluded.priority,
			timestamp = excluded.timestamp`,
		pref.UserID, pref.Key, pref.Value, pref.Description, pref.Priority, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}

	return nil
}

// ListPreferences retrieves a user's preferences, highest priority first.
func (r *SafetyRepository) ListPreferences(ctx context.Context, userID string) ([]*secondary.PreferenceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, preference_key, preference_value, description, priority, timestamp
		 FROM user_preferences WHERE user_id = ? ORDER BY priority DESC, preference_key ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var prefs []*secondary.PreferenceRecord
	for rows.Next() {
		pref := &secondary.PreferenceRecord{}
		err := rows.Scan(&pref.ID, &pref.UserID, &pref.Key, &pref.Value, &pref.Description, &pref.Priority, &pref.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, pref)
	}

	return prefs, rows.Err()
}

func scanCorrections(rows *sql.Rows) ([]*secondary.CorrectionRecord, error) {
	var corrections []*secondary.CorrectionRecord
	for rows.Next() {
		record := &secondary.CorrectionRecord{}
		err := rows.Scan(
			&record.ID,
			&record.TaskPattern,
			&record.FailureDescription,
			&record.Correction,
			&record.UserID,
			&record.OccurrenceCount,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, record)
	}
	return corrections, rows.Err()
}

// Ensure SafetyRepository implements the interface
var _ secondary.SafetyRepository = (*SafetyRepository)(nil)
